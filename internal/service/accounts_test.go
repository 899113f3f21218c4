package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
)

func TestRegister_PendingUntilApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hod, err := f.accounts.Register(ctx, "Dr. Shah", "Shah@Accord.example", "hod-secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHOD, hod.Role)
	assert.False(t, hod.IsActive)
	assert.Equal(t, "shah@accord.example", hod.Email)

	_, err = f.accounts.Authenticate(ctx, "shah@accord.example", "hod-secret")
	require.ErrorIs(t, err, domain.ErrPendingApproval)

	_, err = f.accounts.Approve(ctx, f.hrActor(), hod.ID)
	require.NoError(t, err)

	account, err := f.accounts.Authenticate(ctx, "SHAH@accord.example", "hod-secret")
	require.NoError(t, err)
	assert.Equal(t, hod.ID, account.ID)
}

func TestRegister_NotifiesHR(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.Register(context.Background(), "Dr. Shah", "shah@accord.example", "hod-secret")
	require.NoError(t, err)

	sent := f.notifier.byTemplate(domain.TemplateHODRegistered)
	require.Len(t, sent, 1)
	assert.Equal(t, []string{f.hr.Email}, sent[0].To)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.Register(context.Background(), "", "not-an-email", "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("password"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.Register(context.Background(), "Other", "MEHTA@accord.example", "hod-secret")
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Authenticate(ctx, "nobody@accord.example", "x")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.accounts.Authenticate(ctx, f.hr.Email, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.accounts.Authenticate(ctx, f.hr.Email, "hr-secret")
	require.NoError(t, err)
}

func TestApprove_HROnlyAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hod, err := f.accounts.Register(ctx, "Dr. Shah", "shah@accord.example", "hod-secret")
	require.NoError(t, err)

	_, err = f.accounts.Approve(ctx, f.hodActor(f.hod), hod.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.accounts.Approve(ctx, f.hrActor(), hod.ID)
	require.NoError(t, err)
	_, err = f.accounts.Approve(ctx, f.hrActor(), hod.ID)
	require.NoError(t, err)

	assert.Len(t, f.notifier.byTemplate(domain.TemplateHODApproved), 1)

	_, err = f.accounts.Approve(ctx, f.hrActor(), 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.accounts.ResetPassword(ctx, f.hodActor(f.hod), f.hod.Email, "brand-new")
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = f.accounts.ResetPassword(ctx, f.hrActor(), "missing@accord.example", "brand-new")
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = f.accounts.ResetPassword(ctx, f.hrActor(), f.hr.Email, "brand-new")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.accounts.ResetPassword(ctx, f.hrActor(), f.hod.Email, "brand-new"))

	_, err = f.accounts.Authenticate(ctx, f.hod.Email, "hod-secret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.accounts.Authenticate(ctx, f.hod.Email, "brand-new")
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.hodActor(f.hod)

	err := f.accounts.ChangePassword(ctx, actor, "wrong", "another-one")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = f.accounts.ChangePassword(ctx, actor, "hod-secret", "abc")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	require.NoError(t, f.accounts.ChangePassword(ctx, actor, "hod-secret", "another-one"))
	_, err = f.accounts.Authenticate(ctx, f.hod.Email, "another-one")
	require.NoError(t, err)
}

func TestListAccounts_HROnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, "Dr. Shah", "shah@accord.example", "hod-secret")
	require.NoError(t, err)

	_, err = f.accounts.ListAccounts(ctx, f.hodActor(f.hod), nil, nil)
	require.ErrorIs(t, err, domain.ErrForbidden)

	role := domain.RoleHOD
	pending := false
	accounts, err := f.accounts.ListAccounts(ctx, f.hrActor(), &role, &pending)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "shah@accord.example", accounts[0].Email)
}

func TestEnsureHR_OnlyOnce(t *testing.T) {
	f := newFixture(t)

	hr, created, err := f.accounts.EnsureHR(context.Background(), "other-hr@accord.example", "hr-secret", "Other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.hr.ID, hr.ID)
}

func TestCreateAccount_UnitHeadIsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uh, err := f.accounts.CreateAccount(ctx, domain.RoleUnitHead, "Unit Head", "unit@accord.example", "unit-secret")
	require.NoError(t, err)
	assert.True(t, uh.IsActive)

	_, err = f.accounts.Authenticate(ctx, "unit@accord.example", "unit-secret")
	require.NoError(t, err)

	_, err = f.accounts.CreateAccount(ctx, domain.Role("Admin"), "x", "x@accord.example", "unit-secret")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestBcryptHasher(t *testing.T) {
	h := &service.BcryptHasher{Cost: 4}

	hash, err := h.Hash("hr123")
	require.NoError(t, err)
	assert.NotEqual(t, "hr123", hash)
	assert.True(t, h.Verify("hr123", hash))
	assert.False(t, h.Verify("hr124", hash))
}
