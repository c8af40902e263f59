package bootstrap

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store/adapters/memory"
)

var fast = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cfg := AdminConfig{
		Store:        st,
		Email:        "Root@Inst.ac.nz",
		Password:     "Root123!",
		SkipPrompt:   true,
		Hash:         fast,
		DomainSuffix: "@inst.ac.nz",
		Out:          &bytes.Buffer{},
	}

	created, err := EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := st.Identities().GetByEmail(ctx, "root@inst.ac.nz")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, admin.Role)
	assert.Equal(t, types.ApprovalApproved, admin.ApprovalStatus)
	assert.True(t, admin.EmailVerified)
	assert.True(t, password.Verify("Root123!", admin.PasswordHash))

	cfg.Email = "other@inst.ac.nz"
	created, err = EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := st.Identities().Count(ctx, repository.IdentityFilter{Role: types.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnsureAdminRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	base := AdminConfig{Store: memory.New(), SkipPrompt: true, Hash: fast, DomainSuffix: "@inst.ac.nz", Out: &bytes.Buffer{}}

	_, err := EnsureAdmin(ctx, base)
	assert.Error(t, err)

	cfg := base
	cfg.Email, cfg.Password = "root@gmail.com", "Root123!"
	_, err = EnsureAdmin(ctx, cfg)
	assert.ErrorContains(t, err, "@inst.ac.nz")

	cfg.Email, cfg.Password = "root@inst.ac.nz", "weak"
	_, err = EnsureAdmin(ctx, cfg)
	assert.ErrorContains(t, err, "weak password")
}

func TestEnsureAdminPrompt(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	out := &bytes.Buffer{}

	created, err := EnsureAdmin(ctx, AdminConfig{
		Store: st,
		Hash:  fast,
		In:    strings.NewReader("root@inst.ac.nz\nRoot123!\nRoot123!\n"),
		Out:   out,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, out.String(), "Admin created: root@inst.ac.nz")

	_, err = EnsureAdmin(ctx, AdminConfig{
		Store: memory.New(),
		Hash:  fast,
		In:    strings.NewReader("root@inst.ac.nz\nRoot123!\nOther123!\n"),
		Out:   &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "do not match")
}

func TestEnsureAdminEmailTakenByNonAdmin(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.Identities().Create(ctx, repository.CreateIdentityInput{
		Email:          "root@inst.ac.nz",
		Name:           "Student",
		PasswordHash:   "x",
		Role:           types.RoleStudent,
		ApprovalStatus: types.ApprovalPending,
	})
	require.NoError(t, err)

	created, err := EnsureAdmin(ctx, AdminConfig{
		Store:      st,
		Email:      " Root@Inst.ac.nz",
		Password:   "Root123!",
		SkipPrompt: true,
		Hash:       fast,
		Out:        &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.False(t, created)
	assert.ErrorIs(t, err, ErrEmailRegistered)
	assert.NotErrorIs(t, err, ErrAdminExists)

	// la cuenta existente queda intacta
	got, err := st.Identities().GetByEmail(ctx, "root@inst.ac.nz")
	require.NoError(t, err)
	assert.Equal(t, types.RoleStudent, got.Role)
}

// blindStore no ve admins en el conteo, como un segundo proceso que contó
// antes de que el primero hiciera el insert.
type blindStore struct{ *memory.Store }

func (s blindStore) Identities() repository.IdentityRepository {
	return blindIdentities{s.Store.Identities()}
}

type blindIdentities struct{ repository.IdentityRepository }

func (blindIdentities) Count(context.Context, repository.IdentityFilter) (int, error) { return 0, nil }

func TestEnsureAdminConcurrentCreateIsNotAnError(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cfg := AdminConfig{
		Store:      st,
		Email:      "root@inst.ac.nz",
		Password:   "Root123!",
		SkipPrompt: true,
		Hash:       fast,
		Out:        &bytes.Buffer{},
	}
	created, err := EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	require.True(t, created)

	cfg.Store = blindStore{st}
	created, err = EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)
}
