// Package admin contiene el onboarding de admins por invitación y las
// operaciones de consola (aprobaciones, matches, conteos).
package admin

import (
	"context"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	admindto "github.com/dropDatabas3/mentorlink/internal/http/dto/admin"
	authdto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	matchdto "github.com/dropDatabas3/mentorlink/internal/http/dto/match"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

// DefaultInviteTTL es la vigencia de una invitación sin TTL explícito.
const DefaultInviteTTL = 72 * time.Hour

// OnboardingService registra admins contra una invitación vigente.
type OnboardingService interface {
	RegisterAdmin(ctx context.Context, in admindto.RegisterAdminRequest) (*authdto.IdentityResponse, error)
	CreateInvite(ctx context.Context, actor authz.Principal, in admindto.CreateInviteRequest) (*admindto.InviteResult, error)
}

// ConsoleService agrupa las operaciones de un admin autenticado.
type ConsoleService interface {
	ListPending(ctx context.Context, actor authz.Principal, role types.Role, limit, offset int) (*admindto.ListPendingResponse, error)
	SetApprovalStatus(ctx context.Context, actor authz.Principal, identityID string, status types.ApprovalStatus) (*authdto.IdentityResponse, error)
	ConfirmMatch(ctx context.Context, actor authz.Principal, in admindto.ConfirmMatchRequest) (*matchdto.MatchResponse, error)
	Stats(ctx context.Context, actor authz.Principal) (*admindto.StatsResponse, error)
}

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Store    store.Store
	Notifier common.Notifier
	Policy   password.Policy
	Hash     password.Params
	// DomainSuffix es "@<dominio institucional>"; vacío rechaza todo.
	DomainSuffix string
	InviteTTL    time.Duration
	Metrics      *metrics.Metrics
	Now          common.Clock
}

// Services agrupa los services del dominio admin.
type Services struct {
	Onboarding OnboardingService
	Console    ConsoleService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	return Services{
		Onboarding: NewOnboardingService(d),
		Console:    NewConsoleService(d),
	}
}
