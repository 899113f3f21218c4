package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

// badRequest reports a malformed body or a failed request validation. Every
// violated field is listed in data.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ve := &domain.ValidationError{}
	for _, fe := range validationErrors {
		ve.Add(fe.Field(), fe.Translate(h.translator))
	}
	h.writeJSON(w, r, http.StatusBadRequest, Response{
		Success: false,
		Message: ve.Fields[0].Message,
		Data:    ve.Fields,
	})
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// serviceError maps the domain error taxonomy onto HTTP responses. Anything
// outside the taxonomy is an internal error.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		h.writeJSON(w, r, http.StatusBadRequest, Response{
			Success: false,
			Message: ve.Error(),
			Data:    ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrForbidden):
		h.errorResponse(w, r, http.StatusForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		h.errorResponse(w, r, http.StatusUnprocessableEntity, domain.ErrInvalidTransition.Error())
	case errors.Is(err, domain.ErrDuplicateSubmission):
		h.errorResponse(w, r, http.StatusConflict, domain.ErrDuplicateSubmission.Error())
	case errors.Is(err, domain.ErrDuplicateIdentity):
		h.errorResponse(w, r, http.StatusConflict, domain.ErrDuplicateIdentity.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.errorResponse(w, r, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrPendingApproval):
		h.errorResponse(w, r, http.StatusForbidden, domain.ErrPendingApproval.Error())
	case errors.Is(err, domain.ErrPayloadTooLarge):
		h.errorResponse(w, r, http.StatusRequestEntityTooLarge, domain.ErrPayloadTooLarge.Error())
	case errors.Is(err, domain.ErrUnsupportedArtifactType):
		h.errorResponse(w, r, http.StatusUnsupportedMediaType, domain.ErrUnsupportedArtifactType.Error())
	default:
		h.internalServerError(w, r, err)
	}
}
