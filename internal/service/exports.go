package service

import (
	"context"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/export"
)

// ExportService feeds stored applications to the export projector.
type ExportService struct {
	accounts     AccountStore
	applications ApplicationStore
}

func NewExportService(accounts AccountStore, applications ApplicationStore) *ExportService {
	return &ExportService{accounts: accounts, applications: applications}
}

// Build projects every application matching filter. A nil filter exports
// everything. Only HR may export.
func (s *ExportService) Build(ctx context.Context, actor domain.Actor, filter *export.Filter) (*export.Bundle, error) {
	if !actor.Is(domain.RoleHR) {
		return nil, domain.ErrForbidden
	}

	query := domain.ApplicationFilter{Ascending: true}
	if filter != nil {
		from, to := filter.From, filter.To
		query.From = &from
		query.To = &to
		query.Status = filter.Status
	}

	records, err := s.applications.ListApplications(ctx, query)
	if err != nil {
		return nil, err
	}

	role := domain.RoleHOD
	hods, err := s.accounts.ListAccounts(ctx, &role, nil)
	if err != nil {
		return nil, err
	}
	hodNames := make(map[int64]string, len(hods))
	for _, hod := range hods {
		hodNames[hod.ID] = hod.DisplayName()
	}

	return export.Project(records, hodNames, filter), nil
}
