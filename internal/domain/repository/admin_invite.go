package repository

import (
	"context"
	"time"
)

// AdminInvite habilita el registro de un admin para un email concreto.
// CodeHash (bcrypt) tiene prioridad; Code sólo existe en filas legacy.
type AdminInvite struct {
	Email     string
	CodeHash  string
	Code      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedBy *string
	CreatedAt time.Time
}

// CreateInviteInput contiene los datos para emitir una invitación.
type CreateInviteInput struct {
	Email     string
	CodeHash  string
	Code      string
	ExpiresAt time.Time
	CreatedBy *string
	CreatedAt time.Time
}

// AdminInviteRepository define operaciones sobre invitaciones de admin.
type AdminInviteRepository interface {
	// Put crea la invitación o reemplaza una previa no usada.
	// Retorna ErrConflict si la invitación existente ya fue usada.
	Put(ctx context.Context, input CreateInviteInput) (*AdminInvite, error)

	// GetByEmail retorna la invitación. Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*AdminInvite, error)

	// MarkUsed setea used_at sólo si todavía era NULL.
	// Retorna ErrConflict si ya estaba usada.
	MarkUsed(ctx context.Context, email string, at time.Time) error
}
