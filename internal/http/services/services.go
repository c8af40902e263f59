// Package services es el "composition root" de los services HTTP.
//
// Cada dominio vive en su sub-paquete con su propio aggregator
// (services/{dominio}/services.go); este archivo los instancia todos con
// las dependencias compartidas.
//
//	svcs := services.New(services.Deps{Store: st, Issuer: iss, ...})
//	// svcs.Auth.Credentials, svcs.Codes.Codes, svcs.Match.Matches, etc.
package services

import (
	"time"

	"github.com/dropDatabas3/mentorlink/internal/http/services/admin"
	"github.com/dropDatabas3/mentorlink/internal/http/services/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/codes"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/http/services/health"
	"github.com/dropDatabas3/mentorlink/internal/http/services/match"
	jwtx "github.com/dropDatabas3/mentorlink/internal/jwt"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Store    store.Store
	Issuer   *jwtx.Issuer
	Notifier common.Notifier
	Metrics  *metrics.Metrics
	Now      common.Clock

	// ─── Configuración ───
	Policy            password.Policy
	Hash              password.Params
	VerifyTTL         time.Duration
	ResetTTL          time.Duration
	AdminDomainSuffix string
	InviteTTL         time.Duration

	// ─── Health Check ───
	HealthDeps health.Deps
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Auth   auth.Services
	Codes  codes.Services
	Admin  admin.Services
	Match  match.Services
	Health health.Services
}

// New crea el agregador de services con todas las dependencias inyectadas.
func New(d Deps) *Services {
	return &Services{
		Auth: auth.NewServices(auth.Deps{
			Store:   d.Store,
			Issuer:  d.Issuer,
			Policy:  d.Policy,
			Hash:    d.Hash,
			Metrics: d.Metrics,
			Now:     d.Now,
		}),
		Codes: codes.NewServices(codes.Deps{
			Store:     d.Store,
			Notifier:  d.Notifier,
			Policy:    d.Policy,
			Hash:      d.Hash,
			VerifyTTL: d.VerifyTTL,
			ResetTTL:  d.ResetTTL,
			Metrics:   d.Metrics,
			Now:       d.Now,
		}),
		Admin: admin.NewServices(admin.Deps{
			Store:        d.Store,
			Notifier:     d.Notifier,
			Policy:       d.Policy,
			Hash:         d.Hash,
			DomainSuffix: d.AdminDomainSuffix,
			InviteTTL:    d.InviteTTL,
			Metrics:      d.Metrics,
			Now:          d.Now,
		}),
		Match: match.NewServices(match.Deps{
			Store:    d.Store,
			Notifier: d.Notifier,
			Metrics:  d.Metrics,
			Now:      d.Now,
		}),
		Health: health.NewServices(d.HealthDeps),
	}
}
