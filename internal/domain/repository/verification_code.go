package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// VerificationCode es el código vigente para un par (email, purpose).
type VerificationCode struct {
	Email     string
	Purpose   types.CodePurpose
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// IsLive retorna true si el código no fue usado y no expiró en now.
func (c *VerificationCode) IsLive(now time.Time) bool {
	return c.UsedAt == nil && now.Before(c.ExpiresAt)
}

// UpsertCodeInput contiene los datos para emitir un código.
type UpsertCodeInput struct {
	Email     string
	Purpose   types.CodePurpose
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// ReplaceLive permite pisar un código vivo (password reset).
	// Si es false y hay un código vivo, Upsert retorna ErrConflict.
	ReplaceLive bool
}

// VerificationCodeRepository define operaciones sobre códigos de verificación.
type VerificationCodeRepository interface {
	// Upsert emite el código para (email, purpose) de forma atómica.
	Upsert(ctx context.Context, input UpsertCodeInput) (*VerificationCode, error)

	// Get retorna el código actual. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, email string, purpose types.CodePurpose) (*VerificationCode, error)

	// Consume marca el código como usado sólo si sigue vivo en at.
	// Retorna ErrConflict si otro caller lo consumió primero o ya expiró.
	Consume(ctx context.Context, email string, purpose types.CodePurpose, code string, at time.Time) error
}
