// Package admin contiene los controllers del onboarding de admins y de la
// consola (aprobaciones, matches, conteos).
package admin

import svc "github.com/dropDatabas3/mentorlink/internal/http/services/admin"

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Onboarding *OnboardingController
	Identities *IdentitiesController
	Matches    *MatchesController
	Stats      *StatsController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Onboarding: NewOnboardingController(s.Onboarding),
		Identities: NewIdentitiesController(s.Console),
		Matches:    NewMatchesController(s.Console),
		Stats:      NewStatsController(s.Console),
	}
}
