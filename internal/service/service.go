package service

import (
	"context"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

// AccountStore is implemented by repository.Repository.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetHRAccount(ctx context.Context) (*domain.Account, error)
	ListAccounts(ctx context.Context, role *domain.Role, active *bool) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
}

// ApplicationStore is implemented by repository.Repository.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *domain.Application) error
	ContactOrEmailExists(ctx context.Context, contact, email string) (bool, error)
	GetApplication(ctx context.Context, id int64) (*domain.Application, error)
	ListApplications(ctx context.Context, filter domain.ApplicationFilter) ([]*domain.Application, error)
	UpdateApplicationLifecycle(ctx context.Context, app *domain.Application) error
	DepartmentStats(ctx context.Context) ([]domain.DepartmentStat, error)
}

// Notifier delivers a notification on a best-effort basis. It never returns
// an error; false means the message was not delivered.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) bool
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
