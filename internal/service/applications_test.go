package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/export"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
)

func TestSubmit_KumarWithoutEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validInput()
	in.Academic = []domain.AcademicEntry{
		{Qualification: "B.Sc Nursing", Institution: "Pune University", YearOfPassing: "2018"},
		{Qualification: "HSC", Board: "Maharashtra", YearOfPassing: "2014"},
	}
	app := f.submit(t, in)
	assert.Equal(t, domain.StatusApplied, app.Status)

	list, err := f.applications.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusApplied, list[0].Status)

	b := export.Project(list, nil, nil)
	require.Len(t, b.Applications.Rows, 1)
	require.Len(t, b.Academic.Rows, 2)
	for _, row := range b.Academic.Rows {
		assert.Equal(t, app.ID, row[0])
	}

	// no email: only the HR alert goes out
	assert.Empty(t, f.notifier.byTemplate(domain.TemplateApplicationReceived))
	alerts := f.notifier.byTemplate(domain.TemplateNewApplication)
	require.Len(t, alerts, 1)
	assert.Equal(t, []string{f.hr.Email}, alerts[0].To)
}

func TestSubmit_AcknowledgesCandidate(t *testing.T) {
	f := newFixture(t)

	in := validInput()
	in.Email = " Kumar@Example.com "
	app := f.submit(t, in)
	assert.Equal(t, "kumar@example.com", app.Email)

	acks := f.notifier.byTemplate(domain.TemplateApplicationReceived)
	require.Len(t, acks, 1)
	assert.Equal(t, []string{"kumar@example.com"}, acks[0].To)
}

func TestSubmit_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true

	in := validInput()
	in.Email = "kumar@example.com"
	app := f.submit(t, in)
	assert.Equal(t, domain.StatusApplied, app.Status)
}

func TestSubmit_ReportsEveryViolatedField(t *testing.T) {
	f := newFixture(t)

	_, err := f.applications.Submit(context.Background(), service.SubmissionInput{
		Contact: "98765",
		Email:   "not-an-email",
	}, nil)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("name"))
	assert.True(t, ve.Has("currentAddress"))
	assert.True(t, ve.Has("contact"))
	assert.True(t, ve.Has("email"))
}

func TestSubmit_NormalizesContact(t *testing.T) {
	f := newFixture(t)

	in := validInput()
	in.Contact = "+91 98765-43210"
	app := f.submit(t, in)
	assert.Equal(t, "9876543210", app.Contact)

	// the same number without the country code is the same candidate
	in = validInput()
	in.Name = "Someone Else"
	_, err := f.applications.Submit(context.Background(), in, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	in = validInput()
	in.Contact = "(98) 76"
	_, err = f.applications.Submit(context.Background(), in, nil)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("contact"))
}

func TestSubmit_DuplicateContact(t *testing.T) {
	f := newFixture(t)
	f.submit(t, validInput())

	in := validInput()
	in.Name = "Someone Else"
	in.Contact = "98765 43210"
	in.Email = "else@example.com"
	_, err := f.applications.Submit(context.Background(), in, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateSubmission)
}

func TestSubmit_DuplicateContactWinsOverInvalidFields(t *testing.T) {
	f := newFixture(t)
	f.submit(t, validInput())

	_, err := f.applications.Submit(context.Background(), service.SubmissionInput{Contact: "9876543210"}, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateSubmission)
}

func TestSubmit_RejectedFieldsReportedWithTheRest(t *testing.T) {
	f := newFixture(t)

	in := service.SubmissionInput{Contact: "123"}
	in.Reject("familyDetails", "must be a JSON list")
	_, err := f.applications.Submit(context.Background(), in, nil)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	for _, field := range []string{"familyDetails", "name", "contact", "currentAddress"} {
		assert.True(t, ve.Has(field), field)
	}
}

func TestSubmit_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	in := validInput()
	in.Email = "kumar@example.com"
	f.submit(t, in)

	in = validInput()
	in.Contact = "9123456789"
	in.Email = "KUMAR@example.com"
	_, err := f.applications.Submit(context.Background(), in, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateSubmission)
}

func TestSubmit_KeepsResume(t *testing.T) {
	f := newFixture(t)

	app, err := f.applications.Submit(context.Background(), validInput(), &service.Artifact{
		Ref:         "20240301T090000Z_abc.pdf",
		Name:        "kumar-cv.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "20240301T090000Z_abc.pdf", app.ResumeRef)
	assert.Equal(t, "kumar-cv.pdf", app.ResumeName)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.applications.Get(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.submit(t, validInput())
	in := validInput()
	in.Contact = "9123456789"
	second := f.submit(t, in)

	_, err := f.applications.Assign(ctx, f.hrActor(), first.ID, f.hod.ID)
	require.NoError(t, err)

	all, err := f.applications.ListForActor(ctx, f.hrActor(), domain.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	mine, err := f.applications.ListForActor(ctx, f.hodActor(f.hod), domain.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	_, err = f.applications.GetForActor(ctx, f.hodActor(f.hod), second.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDepartmentStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t, validInput())

	uh, err := f.accounts.CreateAccount(ctx, domain.RoleUnitHead, "Unit Head", "unit@accord.example", "unit-secret")
	require.NoError(t, err)

	stats, err := f.applications.DepartmentStats(ctx, domain.Actor{AccountID: uh.ID, Role: domain.RoleUnitHead})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, domain.DepartmentStat{Department: "Cardiology", Status: domain.StatusApplied, Count: 1}, stats[0])

	_, err = f.applications.DepartmentStats(ctx, f.hodActor(f.hod))
	require.ErrorIs(t, err, domain.ErrForbidden)
}
