package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

// Assign hands an application to an HOD. Only HR may assign.
func (s *ApplicationService) Assign(ctx context.Context, actor domain.Actor, applicationID, hodID int64) (*domain.Application, error) {
	if !actor.Is(domain.RoleHR) {
		return nil, domain.ErrForbidden
	}

	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	hod, err := s.accounts.GetAccountByID(ctx, hodID)
	if err != nil {
		return nil, err
	}
	if hod.Role != domain.RoleHOD {
		return nil, fmt.Errorf("account %d is not an HOD: %w", hodID, domain.ErrNotFound)
	}
	if !hod.IsActive {
		return nil, domain.NewValidationError("hodId", "account is awaiting approval")
	}

	// Offered and Joined are set by HR administration after the interview
	// stage and cannot be reassigned.
	if app.Status == domain.StatusOffered || app.Status == domain.StatusJoined {
		return nil, domain.ErrInvalidTransition
	}

	app.AssignedHODID = &hod.ID
	app.Status = domain.StatusAssigned
	if err := s.applications.UpdateApplicationLifecycle(ctx, app); err != nil {
		return nil, err
	}

	var cc []string
	if hr, err := s.accounts.GetAccountByID(ctx, actor.AccountID); err == nil {
		cc = append(cc, hr.Email)
	}
	s.notifier.Notify(ctx, domain.Notification{
		Template: domain.TemplateApplicationAssigned,
		To:       []string{hod.Email},
		Cc:       cc,
		Data: domain.ApplicationAssignedMailData{
			HODName:       hod.DisplayName(),
			ApplicationID: app.ID,
			Name:          app.Name,
			Position:      app.Position,
			Department:    app.Department,
		},
	})

	return app, nil
}

// RecordOutcome stores the assigned HOD's decision. Authority is checked
// before the requested status.
func (s *ApplicationService) RecordOutcome(ctx context.Context, actor domain.Actor, applicationID int64, status domain.Status, remarks string) (*domain.Application, error) {
	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !actor.Is(domain.RoleHOD) || !app.IsAssignedTo(actor.AccountID) {
		return nil, domain.ErrForbidden
	}

	if !status.IsOutcome() {
		return nil, domain.ErrInvalidTransition
	}
	if app.Status != domain.StatusAssigned && !app.Status.IsOutcome() {
		return nil, domain.ErrInvalidTransition
	}

	hod, err := s.accounts.GetAccountByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	app.Status = status
	if remarks = strings.TrimSpace(remarks); remarks != "" {
		app.HODRemarks = fmt.Sprintf("%s (by %s at %s)", remarks, hod.Email, s.now().Format("2006-01-02 15:04"))
	}
	if err := s.applications.UpdateApplicationLifecycle(ctx, app); err != nil {
		return nil, err
	}

	var hrEmail string
	if hr, err := s.accounts.GetHRAccount(ctx); err == nil {
		hrEmail = hr.Email
	} else {
		slog.Warn("no HR account to copy on outcome", "application_id", app.ID, "error", err)
	}

	n := domain.Notification{
		Template: domain.TemplateOutcomeRecorded,
		Data: domain.OutcomeRecordedMailData{
			Name:     app.Name,
			Position: app.Position,
			Status:   app.Status,
			HODName:  hod.DisplayName(),
		},
	}
	switch {
	case app.Email != "":
		n.To = []string{app.Email}
		if hrEmail != "" {
			n.Cc = []string{hrEmail}
		}
	case hrEmail != "":
		n.To = []string{hrEmail}
	}
	if len(n.To) > 0 {
		s.notifier.Notify(ctx, n)
	}

	return app, nil
}
