package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/mentorlink/internal/metrics"
)

// WithMetrics registra latencia y status por ruta. Usa el patrón de chi
// (ej: /v1/matches/{matchID}/accept) para no explotar la cardinalidad.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.RequestStarted(r.Method)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			if route == "" {
				route = metrics.NormalizePath(r.URL.Path)
			}
			m.RequestDone(r.Method, route, rec.status, time.Since(start).Seconds())
		})
	}
}
