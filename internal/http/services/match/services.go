// Package match implementa el ciclo de vida de un match estudiante-mentor:
// confirmed → accepted, o borrado si el mentor lo rechaza.
package match

import (
	"context"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/match"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

// MatchService define las transiciones y proyecciones de matches.
type MatchService interface {
	// Accept pasa el match a accepted. Sólo el mentor del match.
	Accept(ctx context.Context, caller authz.Principal, matchID string) (*dto.MatchResponse, error)

	// Decline borra el match. Un segundo decline devuelve NotFound.
	Decline(ctx context.Context, caller authz.Principal, matchID string) error

	// PendingRequests lista los matches confirmed del mentor.
	PendingRequests(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error)

	// Mentees lista los matches accepted del mentor.
	Mentees(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error)

	// MyMatches lista los matches del estudiante.
	MyMatches(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error)
}

// Deps contiene las dependencias del service de matches.
type Deps struct {
	Store    store.Store
	Notifier common.Notifier
	Metrics  *metrics.Metrics
	Now      common.Clock
}

// Services agrupa los services del dominio match.
type Services struct {
	Matches MatchService
}

// NewServices crea el agregador de services match.
func NewServices(d Deps) Services {
	return Services{Matches: NewMatchService(d)}
}
