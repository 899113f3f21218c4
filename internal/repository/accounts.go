package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

var accountColumns = []string{"id", "email", "password_hash", "full_name", "role", "is_active", "created_at"}

func accountDst(account *domain.Account) []any {
	return []any{&account.ID, &account.Email, &account.PasswordHash, &account.FullName, &account.Role, &account.IsActive, &account.CreatedAt}
}

func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO accounts (email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	args := []any{account.Email, account.PasswordHash, account.FullName, account.Role, account.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.getAccount(ctx, sq.Eq{"id": id})
}

// GetAccountByEmail matches case-insensitively, the same way the unique index does.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getAccount(ctx, sq.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *Repository) GetHRAccount(ctx context.Context) (*domain.Account, error) {
	return r.getAccount(ctx, sq.Eq{"role": domain.RoleHR})
}

func (r *Repository) getAccount(ctx context.Context, where sq.Sqlizer) (*domain.Account, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query, args, err := r.sb.Select(accountColumns...).From("accounts").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	account := &domain.Account{}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(accountDst(account)...); err != nil {
		return nil, translateError(err)
	}

	return account, nil
}

// ListAccounts returns accounts newest first. A nil role or active flag is not filtered on.
func (r *Repository) ListAccounts(ctx context.Context, role *domain.Role, active *bool) ([]*domain.Account, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	q := r.sb.Select(accountColumns...).From("accounts").OrderBy("created_at DESC", "id DESC")
	if role != nil {
		q = q.Where(sq.Eq{"role": *role})
	}
	if active != nil {
		q = q.Where(sq.Eq{"is_active": *active})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(accountDst(account)...); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// UpdateAccount writes the mutable fields. Email and role never change after creation.
func (r *Repository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET
			password_hash = $1,
			full_name = $2,
			is_active = $3
		WHERE id = $4
		RETURNING email, role, created_at
	`

	args := []any{account.PasswordHash, account.FullName, account.IsActive, account.ID}
	dst := []any{&account.Email, &account.Role, &account.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return translateError(err)
	}

	return nil
}
