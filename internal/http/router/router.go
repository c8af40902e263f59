// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/auth"
	codesctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/codes"
	healthctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/health"
	matchctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/match"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/mentorlink/internal/jwt"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/rate"
)

// Deps contiene las dependencias para armar el router.
type Deps struct {
	Issuer *jwtx.Issuer

	Auth   *authctrl.Controllers
	Codes  *codesctrl.Controllers
	Admin  *adminctrl.Controllers
	Match  *matchctrl.Controllers
	Health *healthctrl.Controllers

	Metrics     *metrics.Metrics // nil = sin endpoint de métricas
	MetricsPath string

	// Limiters opcionales: nil desactiva el rate limit del grupo.
	LoginLimiter    rate.Limiter
	RegisterLimiter rate.Limiter
	CodesLimiter    rate.Limiter

	CORSOrigins []string
	MaxBodySize int64
}

// New arma el handler raíz con todas las rutas.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(d.Metrics),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
		mw.WithMaxBody(d.MaxBodySize),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Probes ───
	r.Get("/healthz", d.Health.Health.Healthz)
	r.Head("/healthz", d.Health.Health.Healthz)
	r.Get("/readyz", d.Health.Health.Readyz)
	if d.Metrics != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, d.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		registerAuthRoutes(r, d)
		registerCodeRoutes(r, d)
		registerAdminRoutes(r, d)
		registerMatchRoutes(r, d)
	})

	return r
}

// limited aplica el rate limit por IP+path con la etiqueta del bucket.
func limited(l rate.Limiter, bucket string, m *metrics.Metrics) mw.Middleware {
	return mw.WithRateLimit(mw.RateLimitConfig{
		Limiter: l,
		KeyFunc: mw.IPPathRateKey,
		Bucket:  bucket,
		Metrics: m,
	})
}
