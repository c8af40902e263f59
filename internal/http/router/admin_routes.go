package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
)

func registerAdminRoutes(r chi.Router, d Deps) {
	c := d.Admin

	// Público pero gated por invitación.
	r.With(limited(d.RegisterLimiter, "admin_register", d.Metrics)).Post("/admin/register", c.Onboarding.Register)

	r.Group(func(r chi.Router) {
		r.Use(
			mw.RequireAuth(d.Issuer),
			mw.RequireRole(types.RoleAdmin),
			mw.WithNoStore(),
		)
		r.Post("/admin/invites", c.Onboarding.CreateInvite)
		r.Get("/admin/identities/pending", c.Identities.ListPending)
		r.Post("/admin/identities/{identityID}/approval", c.Identities.SetApproval)
		r.Post("/admin/matches", c.Matches.Confirm)
		r.Get("/admin/stats", c.Stats.Get)
	})
}
