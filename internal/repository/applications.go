package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

var applicationColumns = []string{
	"id", "name", "email", "date_of_birth", "contact", "current_address", "permanent_address",
	"position", "department", "experience_summary", "notice_period", "last_salary", "expected_salary",
	"reference_name", "reference_contact", "other_details", "resume_ref", "resume_name", "resume_content_type",
	"academic_details", "professional_details", "family_details",
	"status", "assigned_hod_id", "hod_remarks", "submitted_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(s rowScanner) (*domain.Application, error) {
	app := &domain.Application{}

	var (
		email                          sql.NullString
		assignedHODID                  sql.NullInt64
		academic, professional, family string
	)

	dst := []any{
		&app.ID, &app.Name, &email, &app.DateOfBirth, &app.Contact, &app.CurrentAddress, &app.PermanentAddress,
		&app.Position, &app.Department, &app.ExperienceSummary, &app.NoticePeriod, &app.LastSalary, &app.ExpectedSalary,
		&app.ReferenceName, &app.ReferenceContact, &app.OtherDetails, &app.ResumeRef, &app.ResumeName, &app.ResumeContentType,
		&academic, &professional, &family,
		&app.Status, &assignedHODID, &app.HODRemarks, &app.SubmittedAt, &app.UpdatedAt,
	}
	if err := s.Scan(dst...); err != nil {
		return nil, err
	}

	app.Email = email.String
	if assignedHODID.Valid {
		id := assignedHODID.Int64
		app.AssignedHODID = &id
	}
	app.Academic = domain.SubRecordPayload(academic)
	app.Professional = domain.SubRecordPayload(professional)
	app.Family = domain.SubRecordPayload(family)

	return app, nil
}

func nullableEmail(email string) sql.NullString {
	return sql.NullString{String: email, Valid: email != ""}
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *Repository) CreateApplication(ctx context.Context, app *domain.Application) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO applications (
			name, email, date_of_birth, contact, current_address, permanent_address,
			position, department, experience_summary, notice_period, last_salary, expected_salary,
			reference_name, reference_contact, other_details, resume_ref, resume_name, resume_content_type,
			academic_details, professional_details, family_details, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, submitted_at, updated_at
	`

	args := []any{
		app.Name, nullableEmail(app.Email), app.DateOfBirth, app.Contact, app.CurrentAddress, app.PermanentAddress,
		app.Position, app.Department, app.ExperienceSummary, app.NoticePeriod, app.LastSalary, app.ExpectedSalary,
		app.ReferenceName, app.ReferenceContact, app.OtherDetails, app.ResumeRef, app.ResumeName, app.ResumeContentType,
		string(app.Academic), string(app.Professional), string(app.Family), app.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&app.ID, &app.SubmittedAt, &app.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

// ContactOrEmailExists is the submission pre-check. The unique indexes still
// catch the race between this check and the insert.
func (r *Repository) ContactOrEmailExists(ctx context.Context, contact, email string) (bool, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	cond := sq.Or{sq.Eq{"contact": contact}}
	if email != "" {
		cond = append(cond, sq.Expr("LOWER(email) = LOWER(?)", email))
	}

	sub, args, err := r.sb.Select("1").From("applications").Where(cond).ToSql()
	if err != nil {
		return false, err
	}

	isExists := false
	if err := r.dbpool.QueryRowContext(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query, args, err := r.sb.Select(applicationColumns...).From("applications").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	app, err := scanApplication(r.dbpool.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translateError(err)
	}

	return app, nil
}

func (r *Repository) ListApplications(ctx context.Context, filter domain.ApplicationFilter) ([]*domain.Application, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	q := r.sb.Select(applicationColumns...).From("applications")
	if filter.Status != nil {
		q = q.Where(sq.Eq{"status": *filter.Status})
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		q = q.Where(sq.Eq{"department": dept})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"submitted_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"submitted_at": *filter.To})
	}
	if filter.AssignedHODID != nil {
		q = q.Where(sq.Eq{"assigned_hod_id": *filter.AssignedHODID})
	}
	if filter.Ascending {
		q = q.OrderBy("submitted_at ASC", "id ASC")
	} else {
		q = q.OrderBy("submitted_at DESC", "id DESC")
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

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// UpdateApplicationLifecycle persists the fields the lifecycle is allowed to
// change: status, owning HOD and remarks.
func (r *Repository) UpdateApplicationLifecycle(ctx context.Context, app *domain.Application) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE applications
		SET
			status = $1,
			assigned_hod_id = $2,
			hod_remarks = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	args := []any{app.Status, nullableID(app.AssignedHODID), app.HODRemarks, app.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&app.UpdatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

// OverrideApplicationStatus sets a status without any lifecycle rule. It is
// the only way to reach Offered and Joined and is used by the admin tool.
func (r *Repository) OverrideApplicationStatus(ctx context.Context, id int64, status domain.Status) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) DepartmentStats(ctx context.Context) ([]domain.DepartmentStat, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT department, status, COUNT(*)
		FROM applications
		GROUP BY department, status
		ORDER BY department, status
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]domain.DepartmentStat, 0)
	for rows.Next() {
		var stat domain.DepartmentStat
		if err := rows.Scan(&stat.Department, &stat.Status, &stat.Count); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
