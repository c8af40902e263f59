// Package memory implementa un store en memoria con las mismas garantías
// transaccionales que el adapter pg. Se usa en tests y en modo dev.
package memory

import (
	"context"
	"sync"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.Store, error) {
	return New(), nil
}

type codeKey struct {
	email   string
	purpose types.CodePurpose
}

// data es el estado completo. Se clona al abrir una transacción.
type data struct {
	identities map[string]repository.Identity
	byEmail    map[string]string
	codes      map[codeKey]repository.VerificationCode
	invites    map[string]repository.AdminInvite
	matches    map[string]repository.Match
}

func newData() *data {
	return &data{
		identities: map[string]repository.Identity{},
		byEmail:    map[string]string{},
		codes:      map[codeKey]repository.VerificationCode{},
		invites:    map[string]repository.AdminInvite{},
		matches:    map[string]repository.Match{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.identities {
		c.identities[k] = v
	}
	for k, v := range d.byEmail {
		c.byEmail[k] = v
	}
	for k, v := range d.codes {
		c.codes[k] = v
	}
	for k, v := range d.invites {
		c.invites[k] = v
	}
	for k, v := range d.matches {
		c.matches[k] = v
	}
	return c
}

// Store es un store.Store en memoria. Todas las operaciones serializan
// sobre un único mutex; WithTx trabaja sobre una copia y la publica en commit.
type Store struct {
	mu   sync.Mutex
	data *data
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newData()}
}

// view es lo que ven los repos: cómo bloquear y sobre qué datos operar.
type view struct {
	lock   func() func()
	access func() *data
}

func (s *Store) direct() *view {
	return &view{
		lock: func() func() {
			s.mu.Lock()
			return s.mu.Unlock
		},
		access: func() *data { return s.data },
	}
}

func (s *Store) Name() string                  { return "memory" }
func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                  { return nil }

func (s *Store) Identities() repository.IdentityRepository    { return &identityRepo{v: s.direct()} }
func (s *Store) Codes() repository.VerificationCodeRepository { return &codeRepo{v: s.direct()} }
func (s *Store) Invites() repository.AdminInviteRepository    { return &inviteRepo{v: s.direct()} }
func (s *Store) Matches() repository.MatchRepository          { return &matchRepo{v: s.direct()} }

// WithTx toma el lock global durante toda la transacción.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.data.clone()
	v := &view{
		lock:   func() func() { return func() {} },
		access: func() *data { return working },
	}
	if err := fn(&memTx{v: v}); err != nil {
		return err
	}
	s.data = working
	return nil
}

type memTx struct{ v *view }

func (t *memTx) Identities() repository.IdentityRepository    { return &identityRepo{v: t.v} }
func (t *memTx) Codes() repository.VerificationCodeRepository { return &codeRepo{v: t.v} }
func (t *memTx) Invites() repository.AdminInviteRepository    { return &inviteRepo{v: t.v} }
func (t *memTx) Matches() repository.MatchRepository          { return &matchRepo{v: t.v} }
