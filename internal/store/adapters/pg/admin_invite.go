package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
)

type inviteRepo struct{ q querier }

const inviteColumns = `email, COALESCE(code_hash, ''), COALESCE(code, ''), expires_at, used_at, created_by, created_at`

func scanInvite(row pgx.Row) (*repository.AdminInvite, error) {
	var inv repository.AdminInvite
	if err := row.Scan(&inv.Email, &inv.CodeHash, &inv.Code, &inv.ExpiresAt, &inv.UsedAt, &inv.CreatedBy, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inviteRepo) Put(ctx context.Context, input repository.CreateInviteInput) (*repository.AdminInvite, error) {
	inv, err := scanInvite(r.q.QueryRow(ctx, `
		INSERT INTO admin_invite (email, code_hash, code, expires_at, used_at, created_by, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, NULL, $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, code = EXCLUDED.code, expires_at = EXCLUDED.expires_at,
		    created_by = EXCLUDED.created_by, created_at = EXCLUDED.created_at
		WHERE admin_invite.used_at IS NULL
		RETURNING `+inviteColumns,
		input.Email, input.CodeHash, input.Code, input.ExpiresAt, input.CreatedBy, input.CreatedAt))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("pg: put admin invite: %w", err)
	}
	return inv, nil
}

func (r *inviteRepo) GetByEmail(ctx context.Context, email string) (*repository.AdminInvite, error) {
	inv, err := scanInvite(r.q.QueryRow(ctx, `SELECT `+inviteColumns+` FROM admin_invite WHERE email = $1`, email))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get admin invite: %w", err)
	}
	return inv, nil
}

func (r *inviteRepo) MarkUsed(ctx context.Context, email string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE admin_invite SET used_at = $2 WHERE email = $1 AND used_at IS NULL`, email, at)
	if err != nil {
		return fmt.Errorf("pg: mark invite used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}
