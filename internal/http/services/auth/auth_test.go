package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/http/services/servicetest"
	jwtx "github.com/dropDatabas3/mentorlink/internal/jwt"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store/adapters/memory"
)

const secret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store  *memory.Store
	clock  *servicetest.Clock
	issuer *jwtx.Issuer
	svcs   Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := servicetest.NewClock(servicetest.Epoch)
	iss, err := jwtx.NewIssuer("mentorlink-test", secret, time.Hour)
	require.NoError(t, err)
	iss = iss.WithClock(clock.Now)

	st := memory.New()
	return &fixture{
		store:  st,
		clock:  clock,
		issuer: iss,
		svcs: NewServices(Deps{
			Store:  st,
			Issuer: iss,
			Policy: password.DefaultPolicy,
			Hash:   servicetest.FastHash,
			Now:    clock.Now,
		}),
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creds := f.svcs.Credentials

	out, err := creds.Register(ctx, dto.RegisterRequest{
		Name:     "Ana",
		Email:    "  A@X.ac.nz ",
		Password: "Abcd123!",
		Role:     "student",
		Profile:  types.Profile{Student: &types.StudentProfile{Degree: "BSc"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.ac.nz", out.Email)
	assert.Equal(t, string(types.ApprovalPending), out.ApprovalStatus)

	stored, err := f.store.Identities().GetByEmail(ctx, "a@x.ac.nz")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd123!", stored.PasswordHash)
	assert.True(t, password.Verify("Abcd123!", stored.PasswordHash))

	t.Run("duplicate ignores case", func(t *testing.T) {
		_, err := creds.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "a@X.AC.NZ", Password: "Abcd123!", Role: "alumni"})
		assert.ErrorIs(t, err, common.ErrDuplicateIdentity)
	})

	t.Run("admin is not self registrable", func(t *testing.T) {
		_, err := creds.Register(ctx, dto.RegisterRequest{Name: "Eve", Email: "eve@x.ac.nz", Password: "Abcd123!", Role: "admin"})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("weak secret", func(t *testing.T) {
		_, err := creds.Register(ctx, dto.RegisterRequest{Name: "Bo", Email: "bo@x.ac.nz", Password: "abcdefgh", Role: "student"})
		require.ErrorIs(t, err, common.ErrWeakCredential)
		var wce *common.WeakCredentialError
		require.True(t, errors.As(err, &wce))
		assert.Len(t, wce.Reasons, 2)
	})

	t.Run("profile must match role", func(t *testing.T) {
		_, err := creds.Register(ctx, dto.RegisterRequest{
			Name: "Cy", Email: "cy@x.ac.nz", Password: "Abcd123!", Role: "student",
			Profile: types.Profile{Alumni: &types.AlumniProfile{Company: "Acme"}},
		})
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creds := f.svcs.Credentials

	servicetest.SeedIdentity(t, f.store, "pending@x.ac.nz", types.RoleStudent, types.ApprovalPending, "Abcd123!")
	ok := servicetest.SeedIdentity(t, f.store, "ok@x.ac.nz", types.RoleAlumni, types.ApprovalApproved, "Abcd123!")
	servicetest.SeedIdentity(t, f.store, "root@inst.ac.nz", types.RoleAdmin, types.ApprovalPending, "Abcd123!")

	t.Run("unknown account and wrong secret are indistinguishable", func(t *testing.T) {
		_, errMissing := creds.Authenticate(ctx, dto.LoginRequest{Email: "nobody@x.ac.nz", Password: "Abcd123!"})
		_, errWrong := creds.Authenticate(ctx, dto.LoginRequest{Email: "ok@x.ac.nz", Password: "Wrong123!"})
		assert.Equal(t, common.ErrInvalidCredentials, errMissing)
		assert.Equal(t, errMissing, errWrong)
	})

	t.Run("pending is not approved", func(t *testing.T) {
		_, err := creds.Authenticate(ctx, dto.LoginRequest{Email: "pending@x.ac.nz", Password: "Abcd123!"})
		assert.ErrorIs(t, err, common.ErrNotApproved)
	})

	t.Run("admins skip vetting", func(t *testing.T) {
		_, err := creds.Authenticate(ctx, dto.LoginRequest{Email: "root@inst.ac.nz", Password: "Abcd123!"})
		assert.NoError(t, err)
	})

	t.Run("token carries id email and role", func(t *testing.T) {
		res, err := creds.Authenticate(ctx, dto.LoginRequest{Email: " OK@x.ac.nz", Password: "Abcd123!"})
		require.NoError(t, err)
		assert.Equal(t, int64(3600), res.ExpiresIn)

		p, err := f.issuer.Parse(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, authz.Principal{ID: ok.ID, Email: "ok@x.ac.nz", Role: types.RoleAlumni}, p)
	})
}

func TestChangeSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creds := f.svcs.Credentials

	phc, err := password.Hash(servicetest.FastHash, "Abcd123!")
	require.NoError(t, err)
	ident, err := f.store.Identities().Create(ctx, repository.CreateIdentityInput{
		Email:              "m@x.ac.nz",
		Name:               "M",
		PasswordHash:       phc,
		Role:               types.RoleAlumni,
		ApprovalStatus:     types.ApprovalApproved,
		MustChangePassword: true,
	})
	require.NoError(t, err)

	err = creds.ChangeSecret(ctx, ident.ID, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "Newpass1!"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	err = creds.ChangeSecret(ctx, ident.ID, dto.ChangePasswordRequest{CurrentPassword: "Abcd123!", NewPassword: "short"})
	assert.ErrorIs(t, err, common.ErrWeakCredential)

	f.clock.Advance(time.Minute)
	require.NoError(t, creds.ChangeSecret(ctx, ident.ID, dto.ChangePasswordRequest{CurrentPassword: "Abcd123!", NewPassword: "Newpass1!"}))

	got, err := f.store.Identities().GetByID(ctx, ident.ID)
	require.NoError(t, err)
	assert.False(t, got.MustChangePassword)
	require.NotNil(t, got.PasswordChangedAt)
	assert.True(t, got.PasswordChangedAt.Equal(f.clock.Now()))

	_, err = creds.Authenticate(ctx, dto.LoginRequest{Email: "m@x.ac.nz", Password: "Abcd123!"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = creds.Authenticate(ctx, dto.LoginRequest{Email: "m@x.ac.nz", Password: "Newpass1!"})
	assert.NoError(t, err)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ident := servicetest.SeedIdentity(t, f.store, "al@x.ac.nz", types.RoleAlumni, types.ApprovalApproved, "Abcd123!")
	p := authz.Principal{ID: ident.ID, Email: ident.Email, Role: ident.Role}

	me, err := f.svcs.Profile.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, ident.ID, me.ID)

	updated, err := f.svcs.Profile.UpdateProfile(ctx, p, dto.UpdateProfileRequest{
		Profile: types.Profile{Alumni: &types.AlumniProfile{Company: "Acme", Skills: []string{"go"}}},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Profile.Alumni)
	assert.Equal(t, "Acme", updated.Profile.Alumni.Company)

	_, err = f.svcs.Profile.UpdateProfile(ctx, p, dto.UpdateProfileRequest{
		Profile: types.Profile{Student: &types.StudentProfile{Degree: "BA"}},
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svcs.Profile.Me(ctx, authz.Principal{ID: "missing", Role: types.RoleStudent})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
