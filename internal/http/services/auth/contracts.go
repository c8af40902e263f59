// Package auth contiene los services de credenciales y cuenta propia.
package auth

import (
	"context"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
)

// CredentialService registra identidades y valida secretos.
type CredentialService interface {
	// Register crea una identidad student/alumni en estado pending.
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.IdentityResponse, error)

	// Authenticate valida email+secreto y emite un access token.
	Authenticate(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error)

	// ChangeSecret re-verifica el secreto actual antes de rotarlo.
	ChangeSecret(ctx context.Context, identityID string, in dto.ChangePasswordRequest) error
}

// ProfileService expone la identidad del caller.
type ProfileService interface {
	Me(ctx context.Context, p authz.Principal) (*dto.IdentityResponse, error)
	UpdateProfile(ctx context.Context, p authz.Principal, in dto.UpdateProfileRequest) (*dto.IdentityResponse, error)
}
