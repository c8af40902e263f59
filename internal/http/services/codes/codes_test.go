package codes

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/email"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/codes"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/http/services/servicetest"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store/adapters/memory"
)

// sequence devuelve los códigos en orden; el último se repite.
type sequence struct {
	mu    sync.Mutex
	codes []string
}

func (s *sequence) next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.codes[0]
	if len(s.codes) > 1 {
		s.codes = s.codes[1:]
	}
	return c, nil
}

type fixture struct {
	store *memory.Store
	clock *servicetest.Clock
	mail  *email.Recorder
	svc   CodeService
}

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"123456"}
	}
	f := &fixture{
		store: memory.New(),
		clock: servicetest.NewClock(servicetest.Epoch),
		mail:  &email.Recorder{},
	}
	f.svc = NewCodeService(Deps{
		Store:    f.store,
		Notifier: email.NewNotifier(f.mail, "mentorlink"),
		Hash:     servicetest.FastHash,
		Now:      f.clock.Now,
		Generate: (&sequence{codes: codes}).next,
	})
	return f
}

func TestIssueEmailVerification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456", "654321")

	res, err := f.svc.Issue(ctx, " New@X.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)
	require.NotNil(t, res.ExpiresAt)
	assert.True(t, res.ExpiresAt.Equal(servicetest.Epoch.Add(48*time.Hour)))

	msg, ok := f.mail.Last("new@x.ac.nz")
	require.True(t, ok)
	assert.Contains(t, msg.Text, "123456")

	// con un código vivo no se emite otro
	f.clock.Advance(time.Hour)
	_, err = f.svc.Issue(ctx, "new@x.ac.nz", types.PurposeEmailVerification)
	var issued *common.CodeAlreadyIssuedError
	require.True(t, errors.As(err, &issued))
	assert.True(t, issued.ExpiresAt.Equal(*res.ExpiresAt))
	assert.Len(t, f.mail.Messages(), 1)

	// vencido: se reemplaza
	f.clock.Advance(48 * time.Hour)
	res2, err := f.svc.Issue(ctx, "new@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)
	assert.True(t, res2.ExpiresAt.After(*res.ExpiresAt))

	row, err := f.store.Codes().Get(ctx, "new@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, "654321", row.Code)
}

func TestIssuePasswordResetDoesNotLeakAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111", "222222")
	servicetest.SeedIdentity(t, f.store, "known@x.ac.nz", types.RoleStudent, types.ApprovalApproved, "Abcd123!")

	unknown, err := f.svc.Issue(ctx, "ghost@x.ac.nz", types.PurposePasswordReset)
	require.NoError(t, err)
	known, err := f.svc.Issue(ctx, "known@x.ac.nz", types.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, unknown, known)

	_, err = f.store.Codes().Get(ctx, "ghost@x.ac.nz", types.PurposePasswordReset)
	assert.True(t, repository.IsNotFound(err))
	_, sent := f.mail.Last("ghost@x.ac.nz")
	assert.False(t, sent)

	// reset reemplaza el código vivo sin error
	_, err = f.svc.Issue(ctx, "known@x.ac.nz", types.PurposePasswordReset)
	require.NoError(t, err)
	row, err := f.store.Codes().Get(ctx, "known@x.ac.nz", types.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "222222", row.Code)
	assert.True(t, row.ExpiresAt.Equal(servicetest.Epoch.Add(15*time.Minute)))

	err = f.svc.Verify(ctx, dto.VerifyInput{Email: "known@x.ac.nz", Purpose: types.PurposePasswordReset, Code: "111111", NewPassword: "Newpass1!"})
	assert.ErrorIs(t, err, common.ErrInvalidCode)
}

func TestIssueSwallowsDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mail.Err = errors.New("smtp down")

	_, err := f.svc.Issue(ctx, "x@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)

	row, err := f.store.Codes().Get(ctx, "x@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, "123456", row.Code)
}

func TestVerifyPasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	ident := servicetest.SeedIdentity(t, f.store, "r@x.ac.nz", types.RoleStudent, types.ApprovalApproved, "Abcd123!")

	in := dto.VerifyInput{Email: "r@x.ac.nz", Purpose: types.PurposePasswordReset, Code: "123456", NewPassword: "Newpass1!"}

	t.Run("unknown account looks like a wrong code", func(t *testing.T) {
		bad := in
		bad.Email = "ghost@x.ac.nz"
		assert.ErrorIs(t, f.svc.Verify(ctx, bad), common.ErrInvalidCode)
	})

	t.Run("no code issued", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Verify(ctx, in), common.ErrInvalidCode)
	})

	_, err := f.svc.Issue(ctx, "r@x.ac.nz", types.PurposePasswordReset)
	require.NoError(t, err)

	t.Run("wrong code", func(t *testing.T) {
		bad := in
		bad.Code = "000000"
		assert.ErrorIs(t, f.svc.Verify(ctx, bad), common.ErrInvalidCode)
	})

	t.Run("weak new secret does not consume", func(t *testing.T) {
		weak := in
		weak.NewPassword = "weak"
		assert.ErrorIs(t, f.svc.Verify(ctx, weak), common.ErrWeakCredential)

		row, err := f.store.Codes().Get(ctx, "r@x.ac.nz", types.PurposePasswordReset)
		require.NoError(t, err)
		assert.Nil(t, row.UsedAt)
	})

	require.NoError(t, f.svc.Verify(ctx, in))

	got, err := f.store.Identities().GetByID(ctx, ident.ID)
	require.NoError(t, err)
	assert.True(t, password.Verify("Newpass1!", got.PasswordHash))
	assert.False(t, password.Verify("Abcd123!", got.PasswordHash))

	assert.ErrorIs(t, f.svc.Verify(ctx, in), common.ErrCodeAlreadyUsed)
}

func TestVerifyExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	servicetest.SeedIdentity(t, f.store, "r@x.ac.nz", types.RoleStudent, types.ApprovalApproved, "Abcd123!")

	_, err := f.svc.Issue(ctx, "r@x.ac.nz", types.PurposePasswordReset)
	require.NoError(t, err)

	f.clock.Advance(16 * time.Minute)
	err = f.svc.Verify(ctx, dto.VerifyInput{Email: "r@x.ac.nz", Purpose: types.PurposePasswordReset, Code: "123456", NewPassword: "Newpass1!"})
	assert.ErrorIs(t, err, common.ErrCodeExpired)
}

func TestVerifyEmailMarksIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ident := servicetest.SeedIdentity(t, f.store, "v@x.ac.nz", types.RoleAlumni, types.ApprovalPending, "Abcd123!")

	_, err := f.svc.Issue(ctx, "v@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)
	require.NoError(t, f.svc.Verify(ctx, dto.VerifyInput{Email: "V@x.ac.nz", Purpose: types.PurposeEmailVerification, Code: "123456"}))

	got, err := f.store.Identities().GetByID(ctx, ident.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	// sin identidad también se consume
	_, err = f.svc.Issue(ctx, "pre@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)
	assert.NoError(t, f.svc.Verify(ctx, dto.VerifyInput{Email: "pre@x.ac.nz", Purpose: types.PurposeEmailVerification, Code: "123456"}))
}

func TestVerifyConsumesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Issue(ctx, "c@x.ac.nz", types.PurposeEmailVerification)
	require.NoError(t, err)

	in := dto.VerifyInput{Email: "c@x.ac.nz", Purpose: types.PurposeEmailVerification, Code: "123456"}

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.svc.Verify(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.ErrorIs(t, err, common.ErrCodeAlreadyUsed)
	}
}
