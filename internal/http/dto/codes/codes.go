// Package codes contiene los DTOs de emisión y verificación de códigos.
package codes

import (
	"strings"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// IssueRequest es el body para pedir un código.
type IssueRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// Normalize limpia el email antes de validar.
func (r *IssueRequest) Normalize() { r.Email = types.NormalizeEmail(r.Email) }

// IssueResult es lo que devuelve el service. ExpiresAt sólo se completa
// para verificación de email; en reset la respuesta es siempre la misma.
type IssueResult struct {
	ExpiresAt *time.Time
}

// IssueResponse es la respuesta de emisión.
type IssueResponse struct {
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// VerifyEmailRequest es el body de POST /v1/codes/email-verification/verify.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Normalize limpia email y código antes de validar.
func (r *VerifyEmailRequest) Normalize() {
	r.Email = types.NormalizeEmail(r.Email)
	r.Code = strings.TrimSpace(r.Code)
}

// ResetPasswordRequest es el body de POST /v1/codes/password-reset/verify.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,max=256"`
}

// Normalize limpia email y código antes de validar. NewPassword no se toca.
func (r *ResetPasswordRequest) Normalize() {
	r.Email = types.NormalizeEmail(r.Email)
	r.Code = strings.TrimSpace(r.Code)
}

// AlreadyIssuedResponse acompaña al 409 cuando ya hay un código vigente.
type AlreadyIssuedResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyInput es la entrada común del service de verificación.
// NewPassword sólo aplica a PASSWORD_RESET.
type VerifyInput struct {
	Email       string
	Purpose     types.CodePurpose
	Code        string
	NewPassword string
}
