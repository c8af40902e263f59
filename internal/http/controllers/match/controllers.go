// Package match contiene los controllers del ciclo de vida de matches.
package match

import svc "github.com/dropDatabas3/mentorlink/internal/http/services/match"

// Controllers agrupa todos los controllers del dominio match.
type Controllers struct {
	Matches *MatchesController
}

// NewControllers crea el agregador de controllers match.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Matches: NewMatchesController(s.Matches)}
}
