package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
)

func registerAuthRoutes(r chi.Router, d Deps) {
	c := d.Auth

	// ─── Público ───
	r.With(limited(d.RegisterLimiter, "register", d.Metrics)).Post("/auth/register", c.Register.Register)
	r.With(limited(d.LoginLimiter, "login", d.Metrics)).Post("/auth/login", c.Login.Login)

	// ─── Autenticado ───
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Issuer), mw.WithNoStore())
		r.Post("/auth/password/change", c.Password.Change)
		r.Get("/me", c.Me.Me)
		r.Put("/me/profile", c.Me.UpdateProfile)
	})
}

func registerCodeRoutes(r chi.Router, d Deps) {
	c := d.Codes

	r.Group(func(r chi.Router) {
		r.Use(limited(d.CodesLimiter, "codes", d.Metrics))
		r.Post("/codes/email-verification", c.EmailVerification.Issue)
		r.Post("/codes/email-verification/verify", c.EmailVerification.Verify)
		r.Post("/codes/password-reset", c.PasswordReset.Issue)
		r.Post("/codes/password-reset/verify", c.PasswordReset.Verify)
	})
}
