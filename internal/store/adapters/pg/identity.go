package pg

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

type identityRepo struct{ q querier }

const identityColumns = `
	id, email, name, password_hash, role, approval_status, profile,
	email_verified, must_change_password, password_changed_at,
	approved_by, approved_at, created_at, updated_at`

func scanIdentity(row pgx.Row) (*repository.Identity, error) {
	var i repository.Identity
	var role, status string
	err := row.Scan(
		&i.ID, &i.Email, &i.Name, &i.PasswordHash, &role, &status, &i.Profile,
		&i.EmailVerified, &i.MustChangePassword, &i.PasswordChangedAt,
		&i.ApprovedBy, &i.ApprovedAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Role = types.Role(role)
	i.ApprovalStatus = types.ApprovalStatus(status)
	return &i, nil
}

func (r *identityRepo) Create(ctx context.Context, input repository.CreateIdentityInput) (*repository.Identity, error) {
	now := input.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	query := `
		INSERT INTO identity (id, email, name, password_hash, role, approval_status, profile,
		                      email_verified, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + identityColumns

	row := r.q.QueryRow(ctx, query,
		uuid.NewString(), input.Email, input.Name, input.PasswordHash,
		string(input.Role), string(input.ApprovalStatus), input.Profile,
		input.EmailVerified, input.MustChangePassword, now,
	)
	i, err := scanIdentity(row)
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("pg: create identity: %w", err)
	}
	return i, nil
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*repository.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	i, err := scanIdentity(r.q.QueryRow(ctx, `SELECT `+identityColumns+` FROM identity WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get identity by id: %w", err)
	}
	return i, nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*repository.Identity, error) {
	i, err := scanIdentity(r.q.QueryRow(ctx, `SELECT `+identityColumns+` FROM identity WHERE lower(email) = $1`, email))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get identity by email: %w", err)
	}
	return i, nil
}

func (r *identityRepo) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE identity
		SET password_hash = $2, password_changed_at = $3, must_change_password = FALSE, updated_at = $3
		WHERE id = $1`,
		id, passwordHash, changedAt)
	if err != nil {
		return fmt.Errorf("pg: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *identityRepo) SetApproval(ctx context.Context, id string, status types.ApprovalStatus, by string, at time.Time) (*repository.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.q.QueryRow(ctx, `
		UPDATE identity
		SET approval_status = $2, approved_by = $3, approved_at = $4, updated_at = $4
		WHERE id = $1
		RETURNING `+identityColumns,
		id, string(status), by, at)
	i, err := scanIdentity(row)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: set approval: %w", err)
	}
	return i, nil
}

func (r *identityRepo) MarkEmailVerified(ctx context.Context, email string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE identity SET email_verified = TRUE, updated_at = $2
		WHERE lower(email) = $1`,
		email, at)
	if err != nil {
		return fmt.Errorf("pg: mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *identityRepo) UpdateProfile(ctx context.Context, id string, profile types.Profile, at time.Time) (*repository.Identity, error) {
	row := r.q.QueryRow(ctx, `
		UPDATE identity SET profile = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+identityColumns,
		id, profile, at)
	i, err := scanIdentity(row)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: update profile: %w", err)
	}
	return i, nil
}

// buildFilter arma el WHERE dinámico para List/Count.
func buildFilter(filter repository.IdentityFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conds = append(conds, "role = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "approval_status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *identityRepo) List(ctx context.Context, filter repository.IdentityFilter) ([]repository.Identity, error) {
	where, args := buildFilter(filter)
	query := `SELECT ` + identityColumns + ` FROM identity` + where + ` ORDER BY created_at, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: list identities: %w", err)
	}
	defer rows.Close()

	var out []repository.Identity
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan identity: %w", err)
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func (r *identityRepo) Count(ctx context.Context, filter repository.IdentityFilter) (int, error) {
	where, args := buildFilter(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM identity`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("pg: count identities: %w", err)
	}
	return n, nil
}
