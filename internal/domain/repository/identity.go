package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// Identity es una cuenta de la plataforma (estudiante, mentor o admin).
type Identity struct {
	ID                 string
	Email              string
	Name               string
	PasswordHash       string
	Role               types.Role
	ApprovalStatus     types.ApprovalStatus
	Profile            types.Profile
	EmailVerified      bool
	MustChangePassword bool
	PasswordChangedAt  *time.Time
	ApprovedBy         *string
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsApproved retorna true si la identidad puede autenticarse.
// Los admins no pasan por vetting.
func (i *Identity) IsApproved() bool {
	return i.Role == types.RoleAdmin || i.ApprovalStatus == types.ApprovalApproved
}

// CreateIdentityInput contiene los datos para crear una identidad.
type CreateIdentityInput struct {
	Email              string
	Name               string
	PasswordHash       string
	Role               types.Role
	ApprovalStatus     types.ApprovalStatus
	Profile            types.Profile
	EmailVerified      bool
	MustChangePassword bool
	CreatedAt          time.Time
}

// IdentityFilter filtra listados de identidades.
type IdentityFilter struct {
	Role   types.Role
	Status types.ApprovalStatus
	Limit  int
	Offset int
}

// IdentityRepository define operaciones sobre identidades.
// Las identidades nunca se borran.
type IdentityRepository interface {
	// Create inserta una identidad nueva.
	// Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateIdentityInput) (*Identity, error)

	// GetByID busca por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Identity, error)

	// GetByEmail busca por email normalizado. Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*Identity, error)

	// UpdatePassword reemplaza el hash, registra la rotación y limpia
	// el flag must_change_password.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error

	// SetApproval cambia el estado de aprobación.
	SetApproval(ctx context.Context, id string, status types.ApprovalStatus, by string, at time.Time) (*Identity, error)

	// MarkEmailVerified marca el email como verificado.
	// Retorna ErrNotFound si no hay identidad con ese email.
	MarkEmailVerified(ctx context.Context, email string, at time.Time) error

	// UpdateProfile reemplaza el payload de perfil.
	UpdateProfile(ctx context.Context, id string, profile types.Profile, at time.Time) (*Identity, error)

	// List retorna identidades ordenadas por created_at.
	List(ctx context.Context, filter IdentityFilter) ([]Identity, error)

	// Count cuenta identidades que cumplen el filtro (Limit/Offset se ignoran).
	Count(ctx context.Context, filter IdentityFilter) (int, error)
}
