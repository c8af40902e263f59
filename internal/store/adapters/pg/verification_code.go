package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

type codeRepo struct{ q querier }

// Upsert sobre la PK (email, purpose). Sin ReplaceLive, el DO UPDATE sólo
// aplica si la fila existente ya no está viva; si no devuelve fila hubo
// conflicto con un código vigente.
func (r *codeRepo) Upsert(ctx context.Context, input repository.UpsertCodeInput) (*repository.VerificationCode, error) {
	query := `
		INSERT INTO verification_code (email, purpose, code, issued_at, expires_at, used_at)
		VALUES ($1, $2, $3, $4, $5, NULL)
		ON CONFLICT (email, purpose) DO UPDATE
		SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at,
		    expires_at = EXCLUDED.expires_at, used_at = NULL`
	if !input.ReplaceLive {
		query += `
		WHERE verification_code.used_at IS NOT NULL OR verification_code.expires_at <= EXCLUDED.issued_at`
	}
	query += `
		RETURNING email, purpose, code, issued_at, expires_at, used_at`

	c, err := scanCode(r.q.QueryRow(ctx, query,
		input.Email, string(input.Purpose), input.Code, input.IssuedAt, input.ExpiresAt))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("pg: upsert verification code: %w", err)
	}
	return c, nil
}

func (r *codeRepo) Get(ctx context.Context, email string, purpose types.CodePurpose) (*repository.VerificationCode, error) {
	c, err := scanCode(r.q.QueryRow(ctx, `
		SELECT email, purpose, code, issued_at, expires_at, used_at
		FROM verification_code WHERE email = $1 AND purpose = $2`,
		email, string(purpose)))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get verification code: %w", err)
	}
	return c, nil
}

func (r *codeRepo) Consume(ctx context.Context, email string, purpose types.CodePurpose, code string, at time.Time) error {
	var got string
	err := r.q.QueryRow(ctx, `
		UPDATE verification_code SET used_at = $4
		WHERE email = $1 AND purpose = $2 AND code = $3
		  AND used_at IS NULL AND expires_at > $4
		RETURNING email`,
		email, string(purpose), code, at).Scan(&got)
	if err == pgx.ErrNoRows {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("pg: consume verification code: %w", err)
	}
	return nil
}

func scanCode(row pgx.Row) (*repository.VerificationCode, error) {
	var c repository.VerificationCode
	var purpose string
	if err := row.Scan(&c.Email, &purpose, &c.Code, &c.IssuedAt, &c.ExpiresAt, &c.UsedAt); err != nil {
		return nil, err
	}
	c.Purpose = types.CodePurpose(purpose)
	return &c, nil
}
