// Package auth contiene los DTOs de registro, login y cuenta propia.
package auth

import (
	"strings"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// RegisterRequest es el body de POST /v1/auth/register.
type RegisterRequest struct {
	Name     string        `json:"name" validate:"required,max=200"`
	Email    string        `json:"email" validate:"required,email,max=254"`
	Password string        `json:"password" validate:"required,max=256"`
	Role     string        `json:"role" validate:"required,oneof=student alumni"`
	Profile  types.Profile `json:"profile"`
}

// Normalize limpia el email antes de validar.
func (r *RegisterRequest) Normalize() {
	r.Email = types.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// Normalize limpia el email antes de validar.
func (r *LoginRequest) Normalize() { r.Email = types.NormalizeEmail(r.Email) }

// LoginResult es lo que devuelve el service de login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	ExpiresIn   int64
	Role        types.Role
}

// LoginResponse es la respuesta de login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
}

// ChangePasswordRequest es el body de POST /v1/auth/password/change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=256"`
	NewPassword     string `json:"new_password" validate:"required,max=256"`
}

// UpdateProfileRequest es el body de PUT /v1/me/profile.
type UpdateProfileRequest struct {
	Profile types.Profile `json:"profile"`
}

// IdentityResponse es la vista pública de una identidad.
type IdentityResponse struct {
	ID                 string        `json:"id"`
	Email              string        `json:"email"`
	Name               string        `json:"name"`
	Role               string        `json:"role"`
	ApprovalStatus     string        `json:"approval_status"`
	Profile            types.Profile `json:"profile"`
	EmailVerified      bool          `json:"email_verified"`
	MustChangePassword bool          `json:"must_change_password"`
	ApprovedAt         *time.Time    `json:"approved_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

// FromIdentity arma la vista sin exponer el hash.
func FromIdentity(i *repository.Identity) IdentityResponse {
	return IdentityResponse{
		ID:                 i.ID,
		Email:              i.Email,
		Name:               i.Name,
		Role:               string(i.Role),
		ApprovalStatus:     string(i.ApprovalStatus),
		Profile:            i.Profile,
		EmailVerified:      i.EmailVerified,
		MustChangePassword: i.MustChangePassword,
		ApprovedAt:         i.ApprovedAt,
		CreatedAt:          i.CreatedAt,
	}
}
