package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
)

func registerMatchRoutes(r chi.Router, d Deps) {
	c := d.Match.Matches

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Issuer), mw.WithNoStore())

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(types.RoleAlumni))
			r.Get("/matches/requests", c.Requests)
			r.Get("/matches/mentees", c.Mentees)
			r.Post("/matches/{matchID}/accept", c.Accept)
			r.Post("/matches/{matchID}/decline", c.Decline)
		})

		r.With(mw.RequireRole(types.RoleStudent)).Get("/matches/mine", c.Mine)
	})
}
