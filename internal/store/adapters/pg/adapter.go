// Package pg implementa el adapter PostgreSQL del store.
// Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// querier es lo común entre *pgxpool.Pool y pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation detecta 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &pgStore{pool: pool}, nil
}

// pgStore representa una conexión activa a PostgreSQL.
type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) Name() string { return "postgres" }

func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *pgStore) Close() error {
	s.pool.Close()
	return nil
}

// PoolStat expone las estadísticas del pool (métricas).
func (s *pgStore) PoolStat() *pgxpool.Stat {
	return s.pool.Stat()
}

// ─── Repositorios ───

func (s *pgStore) Identities() repository.IdentityRepository    { return &identityRepo{q: s.pool} }
func (s *pgStore) Codes() repository.VerificationCodeRepository { return &codeRepo{q: s.pool} }
func (s *pgStore) Invites() repository.AdminInviteRepository    { return &inviteRepo{q: s.pool} }
func (s *pgStore) Matches() repository.MatchRepository          { return &matchRepo{q: s.pool} }

// WithTx abre una transacción y expone repos ligados a ella.
func (s *pgStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pg: commit: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Identities() repository.IdentityRepository    { return &identityRepo{q: t.tx} }
func (t *pgTx) Codes() repository.VerificationCodeRepository { return &codeRepo{q: t.tx} }
func (t *pgTx) Invites() repository.AdminInviteRepository    { return &inviteRepo{q: t.tx} }
func (t *pgTx) Matches() repository.MatchRepository          { return &matchRepo{q: t.tx} }

// MigrationExecutor implementa store.MigratableStore.
func (s *pgStore) MigrationExecutor() store.SQLExecutor {
	return &migrationExec{pool: s.pool}
}

// migrationExec adapta pgxpool.Pool a store.SQLExecutor.
type migrationExec struct {
	pool *pgxpool.Pool
}

func (m *migrationExec) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := m.pool.Exec(ctx, sql, args...)
	return err
}

func (m *migrationExec) QueryInts(ctx context.Context, sql string, args ...any) ([]int, error) {
	rows, err := m.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}
