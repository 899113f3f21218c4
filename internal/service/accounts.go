package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/utils"
)

const minPasswordLength = 6

type AccountService struct {
	accounts AccountStore
	hasher   PasswordHasher
	notifier Notifier
	validate *validator.Validate
}

func NewAccountService(accounts AccountStore, hasher PasswordHasher, notifier Notifier) *AccountService {
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		notifier: notifier,
		validate: newValidator(),
	}
}

type registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates an inactive HOD account and tells HR about it.
func (s *AccountService) Register(ctx context.Context, fullName, email, password string) (*domain.Account, error) {
	reg := registration{
		FullName: utils.CollapseSpaces(fullName),
		Email:    utils.NormalizeEmail(email),
		Password: password,
	}
	if err := s.validate.Struct(reg); err != nil {
		return nil, toValidationError(err)
	}

	if _, err := s.accounts.GetAccountByEmail(ctx, reg.Email); err == nil {
		return nil, domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Email:        reg.Email,
		PasswordHash: hash,
		FullName:     reg.FullName,
		Role:         domain.RoleHOD,
		IsActive:     false,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	if hr, err := s.accounts.GetHRAccount(ctx); err != nil {
		slog.Warn("no HR account to notify about registration", "email", account.Email, "error", err)
	} else {
		s.notifier.Notify(ctx, domain.Notification{
			Template: domain.TemplateHODRegistered,
			To:       []string{hr.Email},
			Data: domain.HODRegisteredMailData{
				FullName: account.DisplayName(),
				Email:    account.Email,
			},
		})
	}

	return account, nil
}

// Authenticate checks credentials and the activation gate. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !account.CanLogin() {
		return nil, domain.ErrPendingApproval
	}

	return account, nil
}

// Approve activates an account. Approving an active account changes nothing.
func (s *AccountService) Approve(ctx context.Context, actor domain.Actor, accountID int64) (*domain.Account, error) {
	if !actor.Is(domain.RoleHR) {
		return nil, domain.ErrForbidden
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsActive {
		return account, nil
	}

	account.IsActive = true
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, domain.Notification{
		Template: domain.TemplateHODApproved,
		To:       []string{account.Email},
		Data: domain.HODApprovedMailData{
			FullName: account.DisplayName(),
			Email:    account.Email,
		},
	})

	return account, nil
}

// ResetPassword lets HR set a new password for an HOD account.
func (s *AccountService) ResetPassword(ctx context.Context, actor domain.Actor, email, newPassword string) error {
	if !actor.Is(domain.RoleHR) {
		return domain.ErrForbidden
	}
	if err := checkPassword("newPassword", newPassword); err != nil {
		return err
	}

	account, err := s.accounts.GetAccountByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if account.Role != domain.RoleHOD {
		return domain.ErrNotFound
	}

	return s.setPassword(ctx, account, newPassword)
}

func (s *AccountService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	if err := checkPassword("newPassword", newPassword); err != nil {
		return err
	}

	account, err := s.accounts.GetAccountByID(ctx, actor.AccountID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, account.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	return s.setPassword(ctx, account, newPassword)
}

func (s *AccountService) setPassword(ctx context.Context, account *domain.Account, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = hash
	return s.accounts.UpdateAccount(ctx, account)
}

func checkPassword(field, password string) error {
	if strings.TrimSpace(password) == "" {
		return domain.NewValidationError(field, "is required")
	}
	if len(password) < minPasswordLength {
		return domain.NewValidationError(field, fmt.Sprintf("must be at least %d characters long", minPasswordLength))
	}
	return nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.GetAccountByID(ctx, id)
}

// ListAccounts backs the HR dashboard; role and active are optional filters.
func (s *AccountService) ListAccounts(ctx context.Context, actor domain.Actor, role *domain.Role, active *bool) ([]*domain.Account, error) {
	if !actor.Is(domain.RoleHR) {
		return nil, domain.ErrForbidden
	}
	return s.accounts.ListAccounts(ctx, role, active)
}

// CreateAccount creates an active account of any role. It is only reachable
// from the admin tools, never from the HTTP surface.
func (s *AccountService) CreateAccount(ctx context.Context, role domain.Role, fullName, email, password string) (*domain.Account, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "is invalid")
	}
	reg := registration{
		FullName: utils.CollapseSpaces(fullName),
		Email:    utils.NormalizeEmail(email),
		Password: password,
	}
	if err := s.validate.Struct(reg); err != nil {
		return nil, toValidationError(err)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Email:        reg.Email,
		PasswordHash: hash,
		FullName:     reg.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// EnsureHR creates the HR account unless one already exists. The boolean is
// true when this call created it.
func (s *AccountService) EnsureHR(ctx context.Context, email, password, fullName string) (*domain.Account, bool, error) {
	hr, err := s.accounts.GetHRAccount(ctx)
	if err == nil {
		return hr, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	hr, err = s.CreateAccount(ctx, domain.RoleHR, fullName, email, password)
	if err == nil {
		return hr, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		return nil, false, err
	}

	// another instance won the race
	hr, err = s.accounts.GetHRAccount(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap HR account: %w", err)
	}
	return hr, false, nil
}
