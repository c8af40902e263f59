// Package health contiene el service para health checks.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/health"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	StoreCheck func(ctx context.Context) error // crítico
	RedisCheck func(ctx context.Context) error // nil = sin Redis
	Version    string
}

// Services agrupa los services del dominio health.
type Services struct {
	Health HealthService
}

// NewServices crea el agregador de services health.
func NewServices(d Deps) Services {
	return Services{Health: NewHealthService(d)}
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const checkTimeout = 2 * time.Second

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Components: map[string]dto.HealthStatus{},
		Timestamp:  time.Now().UTC(),
	}

	critical, degraded := false, false

	if s.deps.StoreCheck == nil {
		resp.Components["store"] = dto.HealthStatus{Status: "error", Message: "store not initialized"}
		critical = true
	} else if err := probe(ctx, s.deps.StoreCheck); err != nil {
		resp.Components["store"] = dto.HealthStatus{Status: "error", Message: "unavailable"}
		critical = true
		log.Error("store unavailable", logger.Err(err))
	} else {
		resp.Components["store"] = dto.HealthStatus{Status: "ok"}
	}

	if s.deps.RedisCheck == nil {
		resp.Components["redis"] = dto.HealthStatus{Status: "disabled"}
	} else if err := probe(ctx, s.deps.RedisCheck); err != nil {
		// sin Redis el rate limiter deja pasar: degradado, no caído
		resp.Components["redis"] = dto.HealthStatus{Status: "error", Message: "unavailable"}
		degraded = true
		log.Warn("redis unavailable", logger.Err(err))
	} else {
		resp.Components["redis"] = dto.HealthStatus{Status: "ok"}
	}

	switch {
	case critical:
		resp.Status = "unavailable"
	case degraded:
		resp.Status = "degraded"
	}
	return resp
}

func probe(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return fn(ctx)
}
