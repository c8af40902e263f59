package common

import (
	"context"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/security/password"
)

// Clock devuelve la hora actual. Los tests inyectan un reloj fijo.
type Clock func() time.Time

// OrSystem devuelve c o time.Now si c es nil.
func (c Clock) OrSystem() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// Notifier es el colaborador de entrega de mensajes (email).
// Los errores de entrega se loguean y no cortan el flujo.
type Notifier interface {
	SendVerificationCode(ctx context.Context, to, code string, expiresAt time.Time, ttl time.Duration) error
	SendResetCode(ctx context.Context, to, code string, expiresAt time.Time, ttl time.Duration) error
	SendAdminInvite(ctx context.Context, to, code string, expiresAt time.Time) error
	MatchConfirmed(ctx context.Context, alumniEmail, alumniName, studentName string) error
	MatchAccepted(ctx context.Context, studentEmail, studentName, alumniName string) error
	MatchDeclined(ctx context.Context, studentEmail, studentName, alumniName string) error
}

// CheckSecret aplica la política y traduce el rechazo a *WeakCredentialError.
func CheckSecret(p password.Policy, secret string) error {
	if ok, reasons := p.Validate(secret); !ok {
		return &WeakCredentialError{Reasons: reasons}
	}
	return nil
}
