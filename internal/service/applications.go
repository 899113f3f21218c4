package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/utils"
)

// SubmissionInput is a candidate's application form.
type SubmissionInput struct {
	Name              string `json:"name" validate:"required"`
	Email             string `json:"email" validate:"omitempty,email"`
	DateOfBirth       string `json:"dateOfBirth"`
	Contact           string `json:"contact" validate:"required,min=10"`
	CurrentAddress    string `json:"currentAddress" validate:"required"`
	PermanentAddress  string `json:"permanentAddress"`
	Position          string `json:"position"`
	Department        string `json:"department"`
	ExperienceSummary string `json:"experienceSummary"`
	NoticePeriod      string `json:"noticePeriod"`
	LastSalary        string `json:"lastSalary"`
	ExpectedSalary    string `json:"expectedSalary"`
	ReferenceName     string `json:"referenceName"`
	ReferenceContact  string `json:"referenceContact"`
	OtherDetails      string `json:"otherDetails"`

	Academic     []domain.AcademicEntry     `json:"academicDetails"`
	Professional []domain.ProfessionalEntry `json:"professionalDetails"`
	Family       []domain.FamilyMember      `json:"familyDetails"`

	rejected domain.ValidationError
}

// Reject records a violation found before the form reached the service, such
// as an undecodable sub-record field. Submit reports it with the others.
func (in *SubmissionInput) Reject(field, message string) {
	in.rejected.Add(field, message)
}

func (in *SubmissionInput) normalize() {
	in.Name = utils.CollapseSpaces(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	in.Contact = utils.NormalizeContact(in.Contact)
	in.CurrentAddress = strings.TrimSpace(in.CurrentAddress)
	in.PermanentAddress = strings.TrimSpace(in.PermanentAddress)
	in.Position = utils.CollapseSpaces(in.Position)
	in.Department = utils.CollapseSpaces(in.Department)
	in.ReferenceContact = strings.TrimSpace(in.ReferenceContact)
}

// Artifact points at a stored resume.
type Artifact struct {
	Ref         string
	Name        string
	ContentType string
}

type ApplicationService struct {
	accounts     AccountStore
	applications ApplicationStore
	notifier     Notifier
	validate     *validator.Validate
	now          func() time.Time
}

func NewApplicationService(accounts AccountStore, applications ApplicationStore, notifier Notifier) *ApplicationService {
	return &ApplicationService{
		accounts:     accounts,
		applications: applications,
		notifier:     notifier,
		validate:     newValidator(),
		now:          time.Now,
	}
}

// Submit validates and stores a new application, then acknowledges the
// candidate and alerts HR. Every violated field is reported at once.
func (s *ApplicationService) Submit(ctx context.Context, in SubmissionInput, resume *Artifact) (*domain.Application, error) {
	in.normalize()

	// a known contact or email is a duplicate whatever the rest of the form holds
	if in.Contact != "" || in.Email != "" {
		exists, err := s.applications.ContactOrEmailExists(ctx, in.Contact, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateSubmission
		}
	}

	ve := &domain.ValidationError{Fields: append([]domain.FieldError(nil), in.rejected.Fields...)}
	if err := s.validate.Struct(in); err != nil {
		verr, ok := toValidationError(err).(*domain.ValidationError)
		if !ok {
			return nil, err
		}
		ve.Fields = append(ve.Fields, verr.Fields...)
	}
	if ve.HasErrors() {
		return nil, ve
	}

	app := &domain.Application{
		Name:              in.Name,
		Email:             in.Email,
		DateOfBirth:       in.DateOfBirth,
		Contact:           in.Contact,
		CurrentAddress:    in.CurrentAddress,
		PermanentAddress:  in.PermanentAddress,
		Position:          in.Position,
		Department:        in.Department,
		ExperienceSummary: in.ExperienceSummary,
		NoticePeriod:      in.NoticePeriod,
		LastSalary:        in.LastSalary,
		ExpectedSalary:    in.ExpectedSalary,
		ReferenceName:     in.ReferenceName,
		ReferenceContact:  in.ReferenceContact,
		OtherDetails:      in.OtherDetails,
		Status:            domain.StatusApplied,
	}
	if resume != nil {
		app.ResumeRef = resume.Ref
		app.ResumeName = resume.Name
		app.ResumeContentType = resume.ContentType
	}

	var err error
	if app.Academic, err = domain.EncodeSubRecords(in.Academic); err != nil {
		return nil, fmt.Errorf("encode academic details: %w", err)
	}
	if app.Professional, err = domain.EncodeSubRecords(in.Professional); err != nil {
		return nil, fmt.Errorf("encode professional details: %w", err)
	}
	if app.Family, err = domain.EncodeSubRecords(in.Family); err != nil {
		return nil, fmt.Errorf("encode family details: %w", err)
	}

	if err := s.applications.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	if app.Email != "" {
		s.notifier.Notify(ctx, domain.Notification{
			Template: domain.TemplateApplicationReceived,
			To:       []string{app.Email},
			Data: domain.ApplicationReceivedMailData{
				Name:        app.Name,
				Position:    app.Position,
				SubmittedAt: app.SubmittedAt.Format("2006-01-02 15:04"),
			},
		})
	}

	if hr, err := s.accounts.GetHRAccount(ctx); err != nil {
		slog.Warn("no HR account to alert about new application", "application_id", app.ID, "error", err)
	} else {
		s.notifier.Notify(ctx, domain.Notification{
			Template: domain.TemplateNewApplication,
			To:       []string{hr.Email},
			Data: domain.NewApplicationMailData{
				ApplicationID: app.ID,
				Name:          app.Name,
				Position:      app.Position,
				Department:    app.Department,
			},
		})
	}

	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id int64) (*domain.Application, error) {
	return s.applications.GetApplication(ctx, id)
}

// GetForActor returns an application if the actor may read it. HODs only see
// applications assigned to them.
func (s *ApplicationService) GetForActor(ctx context.Context, actor domain.Actor, id int64) (*domain.Application, error) {
	app, err := s.applications.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Valid() {
		return nil, domain.ErrForbidden
	}
	if actor.Is(domain.RoleHOD) && !app.IsAssignedTo(actor.AccountID) {
		return nil, domain.ErrForbidden
	}
	return app, nil
}

// List returns the applications matching filter, newest first unless the
// filter asks for ascending order.
func (s *ApplicationService) List(ctx context.Context, filter *domain.ApplicationFilter) ([]*domain.Application, error) {
	if filter == nil {
		filter = &domain.ApplicationFilter{}
	}
	return s.applications.ListApplications(ctx, *filter)
}

// ListForActor is the dashboard listing: HR and UnitHead see every record,
// an HOD sees the records assigned to them.
func (s *ApplicationService) ListForActor(ctx context.Context, actor domain.Actor, filter domain.ApplicationFilter) ([]*domain.Application, error) {
	filter.Ascending = false
	switch actor.Role {
	case domain.RoleHR, domain.RoleUnitHead:
	case domain.RoleHOD:
		id := actor.AccountID
		filter.AssignedHODID = &id
	default:
		return nil, domain.ErrForbidden
	}
	return s.applications.ListApplications(ctx, filter)
}

func (s *ApplicationService) DepartmentStats(ctx context.Context, actor domain.Actor) ([]domain.DepartmentStat, error) {
	if !actor.Is(domain.RoleHR, domain.RoleUnitHead) {
		return nil, domain.ErrForbidden
	}
	return s.applications.DepartmentStats(ctx)
}
