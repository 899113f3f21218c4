package handler

import (
	"io"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/accord-hospitals/interview-portal/backend/internal/config"
	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
)

// ArtifactStore is implemented by storage.LocalStorage.
type ArtifactStore interface {
	Store(r io.Reader, suggestedName string) (ref string, contentType string, err error)
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) error
}

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	translator   ut.Translator
	accounts     *service.AccountService
	applications *service.ApplicationService
	exports      *service.ExportService
	artifacts    ArtifactStore
	limiter      *RedisLimiter

	Mux *chi.Mux
}

type Services struct {
	Accounts     *service.AccountService
	Applications *service.ApplicationService
	Exports      *service.ExportService
}

func NewHandler(cfg *config.Config, services Services, artifacts ArtifactStore, limiter *RedisLimiter) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		translator:   trans,
		accounts:     services.Accounts,
		applications: services.Applications,
		exports:      services.Exports,
		artifacts:    artifacts,
		limiter:      limiter,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	h.Mux.Route("/applications", func(r chi.Router) {
		// candidates apply without an account
		r.With(h.rateLimitByIP("submit", h.config.RateLimit.SubmitLimit, h.config.RateLimit.SubmitWindow)).
			Post("/", h.SubmitApplication)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.ListApplications)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.application)
				r.Get("/", h.GetApplication)
				r.Get("/resume", h.DownloadResume)
				r.With(h.RequiredRole([]domain.Role{domain.RoleHR})).Post("/assign", h.AssignApplication)
				r.With(h.RequiredRole([]domain.Role{domain.RoleHOD})).Post("/outcome", h.RecordOutcome)
			})
		})
	})

	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleHR}))
			r.Get("/", h.ListAccounts)
			r.Post("/reset-password", h.ResetAccountPassword)
			r.Patch("/{id}/approve", h.ApproveAccount)
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleHR, domain.RoleUnitHead})).
			Get("/stats/departments", h.GetDepartmentStats)

		r.Route("/exports", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleHR}))
			r.Get("/applications.xlsx", h.ExportApplications)
			r.Get("/applications.zip", h.ExportArchive)
			r.Get("/applications/filtered.xlsx", h.ExportFilteredApplications)
		})
	})
}
