// Package codes emite y verifica los códigos de un solo uso
// (verificación de email y reset de password).
package codes

import (
	"context"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/codes"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

const (
	DefaultVerifyTTL = 48 * time.Hour
	DefaultResetTTL  = 15 * time.Minute
)

// CodeService define emisión y verificación de códigos.
type CodeService interface {
	// Issue emite un código para (email, purpose).
	Issue(ctx context.Context, email string, purpose types.CodePurpose) (*dto.IssueResult, error)

	// Verify consume el código y aplica el efecto del propósito.
	Verify(ctx context.Context, in dto.VerifyInput) error
}

// Deps contiene las dependencias del service de códigos.
type Deps struct {
	Store     store.Store
	Notifier  common.Notifier
	Policy    password.Policy
	Hash      password.Params
	VerifyTTL time.Duration
	ResetTTL  time.Duration
	Metrics   *metrics.Metrics
	Now       common.Clock
	// Generate produce el código. nil usa tokens.GenerateNumericCode.
	Generate func() (string, error)
}

// Services agrupa los services del dominio codes.
type Services struct {
	Codes CodeService
}

// NewServices crea el agregador de services codes.
func NewServices(d Deps) Services {
	return Services{Codes: NewCodeService(d)}
}
