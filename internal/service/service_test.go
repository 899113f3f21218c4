package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
)

type fixture struct {
	store        *memoryStore
	notifier     *recordingNotifier
	accounts     *service.AccountService
	applications *service.ApplicationService
	exports      *service.ExportService

	hr  *domain.Account
	hod *domain.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := newMemoryStore()
	notifier := &recordingNotifier{}
	f := &fixture{
		store:        store,
		notifier:     notifier,
		accounts:     service.NewAccountService(store, plainHasher{}, notifier),
		applications: service.NewApplicationService(store, store, notifier),
		exports:      service.NewExportService(store, store),
	}

	hr, created, err := f.accounts.EnsureHR(ctx, "hr@accord.example", "hr-secret", "Priya HR")
	require.NoError(t, err)
	require.True(t, created)
	f.hr = hr

	f.hod = f.activeHOD(t, "Dr. Mehta", "mehta@accord.example")
	notifier.sent = nil
	return f
}

func (f *fixture) activeHOD(t *testing.T, name, email string) *domain.Account {
	t.Helper()
	ctx := context.Background()
	hod, err := f.accounts.Register(ctx, name, email, "hod-secret")
	require.NoError(t, err)
	hod, err = f.accounts.Approve(ctx, f.hrActor(), hod.ID)
	require.NoError(t, err)
	return hod
}

func (f *fixture) hrActor() domain.Actor {
	return domain.Actor{AccountID: f.hr.ID, Role: domain.RoleHR}
}

func (f *fixture) hodActor(hod *domain.Account) domain.Actor {
	return domain.Actor{AccountID: hod.ID, Role: domain.RoleHOD}
}

func (f *fixture) submit(t *testing.T, in service.SubmissionInput) *domain.Application {
	t.Helper()
	app, err := f.applications.Submit(context.Background(), in, nil)
	require.NoError(t, err)
	return app
}

func validInput() service.SubmissionInput {
	return service.SubmissionInput{
		Name:           "A. Kumar",
		Contact:        "9876543210",
		CurrentAddress: "12 MG Road, Pune",
		Position:       "Staff Nurse",
		Department:     "Cardiology",
	}
}
