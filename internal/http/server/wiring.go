// Package server arma el grafo de dependencias HTTP a partir de la config.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/mentorlink/internal/bootstrap"
	"github.com/dropDatabas3/mentorlink/internal/config"
	"github.com/dropDatabas3/mentorlink/internal/email"
	adminctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/auth"
	codesctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/codes"
	healthctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/health"
	matchctrl "github.com/dropDatabas3/mentorlink/internal/http/controllers/match"
	"github.com/dropDatabas3/mentorlink/internal/http/router"
	"github.com/dropDatabas3/mentorlink/internal/http/services"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/http/services/health"
	jwtx "github.com/dropDatabas3/mentorlink/internal/jwt"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
	"github.com/dropDatabas3/mentorlink/internal/rate"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
	migrations "github.com/dropDatabas3/mentorlink/migrations/postgres"

	// Adapters disponibles para store.Open
	_ "github.com/dropDatabas3/mentorlink/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/mentorlink/internal/store/adapters/pg"
)

// Options son overrides opcionales del wiring (tests, cmd).
type Options struct {
	Version string
	// Sender reemplaza el sender derivado de la config.
	Sender email.Sender
	// Store reemplaza store.Open (el caller conserva la propiedad).
	Store store.Store
	// Hash reemplaza los parámetros argon2id (zero = password.Default).
	Hash password.Params
	Now  common.Clock
}

// App es el resultado del wiring.
type App struct {
	Config   *config.Config
	Store    store.Store
	Issuer   *jwtx.Issuer
	Services *services.Services
	Metrics  *metrics.Metrics
	Handler  http.Handler
}

// poolStater lo implementa el adapter postgres.
type poolStater interface {
	PoolStat() *pgxpool.Stat
}

// Build arma App. cleanup libera store y redis; siempre es no-nil.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, func() error, error) {
	log := logger.L().With(logger.Layer("server"), logger.Op("Build"))
	var closers []func() error
	cleanup := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	fail := func(err error) (*App, func() error, error) {
		_ = cleanup()
		return nil, func() error { return nil }, err
	}

	// 1. Store
	st := opts.Store
	if st == nil {
		var err error
		st, err = store.Open(ctx, store.AdapterConfig{
			Name:         cfg.Storage.Driver,
			DSN:          cfg.Storage.DSN,
			MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, st.Close)
	}

	// 2. Migraciones
	if cfg.Flags.Migrate {
		if err := Migrate(ctx, st); err != nil {
			return fail(err)
		}
	}

	// 3. Issuer
	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Secret, cfg.JWT.AccessTTL)
	if err != nil {
		return fail(fmt.Errorf("jwt issuer: %w", err))
	}
	if opts.Now != nil {
		issuer = issuer.WithClock(opts.Now)
	}

	// 4. Redis (opcional)
	var redisClient *rdb.Client
	if cfg.Cache.Kind == "redis" {
		redisClient = rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			DB:       cfg.Cache.Redis.DB,
			Password: cfg.Cache.Redis.Password,
		})
		closers = append(closers, redisClient.Close)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Redis caído no impide arrancar: el health lo reporta degradado.
			log.Warn("redis ping failed", logger.Err(err))
		}
	}

	// 5. Métricas
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		var extra []prometheus.Collector
		if ps, ok := st.(poolStater); ok {
			extra = append(extra, metrics.NewPoolCollector(ps.PoolStat))
		}
		if m, err = metrics.New(nil, extra...); err != nil {
			return fail(fmt.Errorf("metrics: %w", err))
		}
	}

	// 6. Email
	sender := opts.Sender
	if sender == nil {
		sender = senderFromConfig(cfg)
	}
	notifier := email.NewNotifier(sender, cfg.App.Name)

	// 7. Política de secretos
	policy, err := PolicyFromConfig(cfg)
	if err != nil {
		return fail(err)
	}

	// 8. Bootstrap del primer admin (no interactivo)
	if cfg.Bootstrap.Enabled {
		if _, err := bootstrap.EnsureAdmin(ctx, bootstrap.AdminConfig{
			Store:        st,
			Email:        cfg.Bootstrap.Email,
			Password:     cfg.Bootstrap.Password,
			Name:         cfg.Bootstrap.Name,
			SkipPrompt:   true,
			Policy:       policy,
			Hash:         opts.Hash,
			DomainSuffix: cfg.AdminDomainSuffix(),
			Out:          io.Discard,
			Now:          opts.Now,
		}); err != nil {
			return fail(err)
		}
	}

	// 9. Services
	healthDeps := health.Deps{
		StoreCheck: st.Ping,
		Version:    opts.Version,
	}
	if redisClient != nil {
		healthDeps.RedisCheck = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	svcs := services.New(services.Deps{
		Store:             st,
		Issuer:            issuer,
		Notifier:          notifier,
		Metrics:           m,
		Now:               opts.Now,
		Policy:            policy,
		Hash:              opts.Hash, // zero = password.Default
		VerifyTTL:         cfg.Auth.Verify.TTL,
		ResetTTL:          cfg.Auth.Reset.TTL,
		AdminDomainSuffix: cfg.AdminDomainSuffix(),
		InviteTTL:         cfg.Auth.Admin.InviteTTL,
		HealthDeps:        healthDeps,
	})

	// 10. Controllers + router
	rd := router.Deps{
		Issuer:      issuer,
		Auth:        authctrl.NewControllers(svcs.Auth),
		Codes:       codesctrl.NewControllers(svcs.Codes),
		Admin:       adminctrl.NewControllers(svcs.Admin),
		Match:       matchctrl.NewControllers(svcs.Match),
		Health:      healthctrl.NewControllers(svcs.Health),
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		MaxBodySize: 1 << 20,
	}
	if cfg.Rate.Enabled {
		rd.LoginLimiter = newLimiter(redisClient, cfg, "login", cfg.Rate.Login)
		rd.RegisterLimiter = newLimiter(redisClient, cfg, "register", cfg.Rate.Register)
		rd.CodesLimiter = newLimiter(redisClient, cfg, "codes", cfg.Rate.Codes)
	}

	log.Info("http handler ready",
		logger.String("store", st.Name()),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
		logger.Bool("metrics", m != nil),
	)

	return &App{
		Config:   cfg,
		Store:    st,
		Issuer:   issuer,
		Services: svcs,
		Metrics:  m,
		Handler:  router.New(rd),
	}, cleanup, nil
}

// Migrate aplica las migraciones embebidas si el store es SQL.
func Migrate(ctx context.Context, st store.Store) error {
	ms, ok := st.(store.MigratableStore)
	if !ok {
		return nil
	}
	res, err := store.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, ms.MigrationExecutor())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.L().Info("migrations applied",
		logger.Count(len(res.Applied)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Duration(res.Duration),
	)
	return nil
}

func newLimiter(client *rdb.Client, cfg *config.Config, bucket string, w config.RateWindow) rate.Limiter {
	if client != nil {
		return rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+"rl:"+bucket+":", w.Limit, w.Window)
	}
	return rate.NewMemoryLimiter(w.Limit, w.Window)
}

func senderFromConfig(cfg *config.Config) email.Sender {
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		logger.L().Warn("smtp not configured, emails go to the log", logger.Component("email"))
		return email.LogSender{}
	}
	return &email.SMTPSender{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		From:               cfg.SMTP.From,
		User:               cfg.SMTP.Username,
		Pass:               cfg.SMTP.Password,
		TLSMode:            cfg.SMTP.TLS,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	}
}

// PolicyFromConfig arma la política de secretos, cargando la blacklist si hay.
func PolicyFromConfig(cfg *config.Config) (password.Policy, error) {
	pp := cfg.Security.PasswordPolicy
	policy := password.Policy{
		MinLength:     pp.MinLength,
		RequireUpper:  pp.RequireUpper,
		RequireLower:  pp.RequireLower,
		RequireDigit:  pp.RequireDigit,
		RequireSymbol: pp.RequireSymbol,
	}
	if path := strings.TrimSpace(cfg.Security.PasswordBlacklistPath); path != "" {
		bl, err := password.LoadBlacklist(path)
		if err != nil {
			return password.Policy{}, fmt.Errorf("password blacklist: %w", err)
		}
		policy.Blacklist = bl
	}
	return policy, nil
}
