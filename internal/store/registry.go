// Package store provee el registry de adaptadores de almacenamiento y el
// contrato transaccional que consumen los services.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
)

// Adapter representa un adaptador de almacenamiento capaz de crear repositorios.
type Adapter interface {
	// Name retorna el nombre del adapter (ej: "postgres", "memory").
	Name() string

	// Connect establece conexión con el almacenamiento.
	Connect(ctx context.Context, cfg AdapterConfig) (Store, error)
}

// Repos agrupa los repositorios. Lo implementan tanto Store como Tx.
type Repos interface {
	Identities() repository.IdentityRepository
	Codes() repository.VerificationCodeRepository
	Invites() repository.AdminInviteRepository
	Matches() repository.MatchRepository
}

// Tx son los repositorios ligados a una transacción en curso.
type Tx interface {
	Repos
}

// Store representa una conexión activa.
type Store interface {
	Repos

	// Name retorna el nombre del adapter.
	Name() string

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// WithTx ejecuta fn dentro de una transacción.
	// Si fn retorna error se hace rollback y nada queda aplicado.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// MigratableStore interfaz opcional para stores SQL.
type MigratableStore interface {
	MigrationExecutor() SQLExecutor
}

// AdapterConfig configuración para conectar a un almacenamiento.
type AdapterConfig struct {
	// Name del adapter: "postgres", "memory"
	Name string

	// DSN connection string (para DBs)
	DSN string

	// Pool settings (para DBs)
	MaxOpenConns int
	MaxIdleConns int
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter en el registry global.
// Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres de todos los adapters registrados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open abre una conexión usando el adapter especificado en la config.
func Open(ctx context.Context, cfg AdapterConfig) (Store, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("store: adapter %q not registered (available: %v)", cfg.Name, ListAdapters())
	}
	s, err := a.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect %s: %w", cfg.Name, err)
	}
	return s, nil
}
