// Package common contiene lo compartido por los services: la taxonomía de
// errores de dominio, el reloj inyectable y el contrato del notifier.
package common

import (
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/authz"
)

// Errores de dominio. Los controllers los mapean a httperrors con errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateIdentity  = errors.New("duplicate identity")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid code")
	ErrInvalidInviteCode  = errors.New("invalid invite code")
	ErrNotApproved        = errors.New("identity not approved")
	ErrCodeExpired        = errors.New("code expired")
	ErrCodeAlreadyUsed    = errors.New("code already used")
	ErrCodeAlreadyIssued  = errors.New("code already issued")
	ErrInviteNotFound     = errors.New("invite not found")
	ErrInviteExpired      = errors.New("invite expired")
	ErrInviteAlreadyUsed  = errors.New("invite already used")
	ErrDomainNotAllowed   = errors.New("email domain not allowed")
	ErrWeakCredential     = errors.New("weak credential")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrMatchExists        = errors.New("match already exists")
	ErrForbidden          = authz.ErrForbidden
)

// ValidationError lleva el detalle del campo inválido.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Detail }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid crea un *ValidationError.
func Invalid(detail string) error {
	return &ValidationError{Detail: detail}
}

// WeakCredentialError lleva los motivos por los que el secreto no pasa la política.
type WeakCredentialError struct {
	Reasons []string
}

func (e *WeakCredentialError) Error() string {
	return "weak credential: " + strings.Join(e.Reasons, "; ")
}

func (e *WeakCredentialError) Is(target error) bool { return target == ErrWeakCredential }

// CodeAlreadyIssuedError lleva el vencimiento del código vigente.
type CodeAlreadyIssuedError struct {
	ExpiresAt time.Time
}

func (e *CodeAlreadyIssuedError) Error() string {
	return "code already issued, expires at " + e.ExpiresAt.UTC().Format(time.RFC3339)
}

func (e *CodeAlreadyIssuedError) Is(target error) bool { return target == ErrCodeAlreadyIssued }
