// Package servicetest contiene helpers para tests de services: reloj
// controlable, parámetros de hash baratos y seeds sobre el store en memoria.
package servicetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

// FastHash son parámetros argon2id baratos para tests.
var FastHash = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

// Clock es un reloj que sólo avanza con Advance.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock crea un reloj fijo en t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now devuelve la hora actual del reloj.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance mueve el reloj hacia adelante.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Epoch es el instante de arranque de los relojes de test.
var Epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// SeedIdentity crea una identidad con el secreto dado (hash barato).
func SeedIdentity(t testing.TB, st store.Store, email string, role types.Role, status types.ApprovalStatus, secret string) *repository.Identity {
	t.Helper()
	phc, err := password.Hash(FastHash, secret)
	require.NoError(t, err)

	ident, err := st.Identities().Create(context.Background(), repository.CreateIdentityInput{
		Email:          types.NormalizeEmail(email),
		Name:           email,
		PasswordHash:   phc,
		Role:           role,
		ApprovalStatus: status,
		CreatedAt:      Epoch,
	})
	require.NoError(t, err)
	return ident
}

// SeedMatch crea un match confirmed.
func SeedMatch(t testing.TB, st store.Store, studentID, alumniID string, at time.Time) *repository.Match {
	t.Helper()
	m, err := st.Matches().Create(context.Background(), repository.CreateMatchInput{
		StudentID:   studentID,
		AlumniID:    alumniID,
		Score:       0.8,
		Reasons:     types.MatchReasons{SharedSkills: []string{"go"}},
		ConfirmedAt: at,
	})
	require.NoError(t, err)
	return m
}
