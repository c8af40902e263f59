package match

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/email"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/http/services/servicetest"
	"github.com/dropDatabas3/mentorlink/internal/store/adapters/memory"
)

type fixture struct {
	store   *memory.Store
	clock   *servicetest.Clock
	mail    *email.Recorder
	svc     MatchService
	student authz.Principal
	alumni  authz.Principal
}

func principal(i *repository.Identity) authz.Principal {
	return authz.Principal{ID: i.ID, Email: i.Email, Role: i.Role}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.New(),
		clock: servicetest.NewClock(servicetest.Epoch),
		mail:  &email.Recorder{},
	}
	f.svc = NewMatchService(Deps{
		Store:    f.store,
		Notifier: email.NewNotifier(f.mail, "mentorlink"),
		Now:      f.clock.Now,
	})
	s := servicetest.SeedIdentity(t, f.store, "s@x.ac.nz", types.RoleStudent, types.ApprovalApproved, "Abcd123!")
	m := servicetest.SeedIdentity(t, f.store, "m@x.ac.nz", types.RoleAlumni, types.ApprovalApproved, "Abcd123!")
	f.student, f.alumni = principal(s), principal(m)
	return f
}

func TestAccept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := servicetest.SeedMatch(t, f.store, f.student.ID, f.alumni.ID, servicetest.Epoch)

	f.clock.Advance(time.Hour)
	out, err := f.svc.Accept(ctx, f.alumni, m.ID)
	require.NoError(t, err)
	assert.Equal(t, string(types.MatchAccepted), out.Status)
	require.NotNil(t, out.AcceptedAt)
	assert.True(t, out.AcceptedAt.Equal(servicetest.Epoch.Add(time.Hour)))
	assert.True(t, out.ConfirmedAt.Equal(servicetest.Epoch))

	msg, ok := f.mail.Last("s@x.ac.nz")
	require.True(t, ok)
	assert.NotEmpty(t, msg.Subject)

	_, err = f.svc.Accept(ctx, f.alumni, m.ID)
	assert.ErrorIs(t, err, common.ErrInvalidState)

	err = f.svc.Decline(ctx, f.alumni, m.ID)
	assert.ErrorIs(t, err, common.ErrInvalidState)

	mentees, err := f.svc.Mentees(ctx, f.alumni)
	require.NoError(t, err)
	require.Len(t, mentees.Items, 1)
	assert.Equal(t, m.ID, mentees.Items[0].ID)

	pending, err := f.svc.PendingRequests(ctx, f.alumni)
	require.NoError(t, err)
	assert.Empty(t, pending.Items)
	assert.NotNil(t, pending.Items)
}

func TestDeclineDeletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := servicetest.SeedMatch(t, f.store, f.student.ID, f.alumni.ID, servicetest.Epoch)

	require.NoError(t, f.svc.Decline(ctx, f.alumni, m.ID))

	_, err := f.store.Matches().GetByID(ctx, m.ID)
	assert.True(t, repository.IsNotFound(err))

	err = f.svc.Decline(ctx, f.alumni, m.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Accept(ctx, f.alumni, m.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// el par puede volver a emparejarse
	servicetest.SeedMatch(t, f.store, f.student.ID, f.alumni.ID, servicetest.Epoch)
}

func TestOnlyOwnerTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := servicetest.SeedMatch(t, f.store, f.student.ID, f.alumni.ID, servicetest.Epoch)
	other := principal(servicetest.SeedIdentity(t, f.store, "o@x.ac.nz", types.RoleAlumni, types.ApprovalApproved, "Abcd123!"))
	admin := authz.Principal{ID: "admin-1", Role: types.RoleAdmin}

	for _, caller := range []authz.Principal{other, f.student, admin} {
		_, err := f.svc.Accept(ctx, caller, m.ID)
		assert.ErrorIs(t, err, common.ErrForbidden, caller.Email)
		assert.ErrorIs(t, f.svc.Decline(ctx, caller, m.ID), common.ErrForbidden, caller.Email)
	}

	// NotFound gana sobre Forbidden
	_, err := f.svc.Accept(ctx, other, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := f.store.Matches().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MatchConfirmed, got.Status)
}

func TestListingsRequireRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	servicetest.SeedMatch(t, f.store, f.student.ID, f.alumni.ID, servicetest.Epoch)

	_, err := f.svc.PendingRequests(ctx, f.student)
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.Mentees(ctx, f.student)
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.MyMatches(ctx, f.alumni)
	assert.ErrorIs(t, err, common.ErrForbidden)

	mine, err := f.svc.MyMatches(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, f.alumni.ID, mine.Items[0].AlumniID)

	pending, err := f.svc.PendingRequests(ctx, f.alumni)
	require.NoError(t, err)
	assert.Len(t, pending.Items, 1)
}

type failingSender struct{}

func (failingSender) Send(to, subject, htmlBody, textBody string) error {
	return errors.New("smtp down")
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewMatchService(Deps{
		Store:    f.store,
		Notifier: email.NewNotifier(failingSender{}, "mentorlink"),
		Now:      f.clock.Now,
	})
	m := servicetest.SeedMatch(t, f.store, f.student.ID, f.alumni.ID, servicetest.Epoch)

	_, err := svc.Accept(ctx, f.alumni, m.ID)
	assert.NoError(t, err)
}

func TestConcurrentAcceptDecline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 50; i++ {
		s := servicetest.SeedIdentity(t, f.store, fmt.Sprintf("s%d@x.ac.nz", i), types.RoleStudent, types.ApprovalApproved, "Abcd123!")
		m := servicetest.SeedMatch(t, f.store, s.ID, f.alumni.ID, servicetest.Epoch)

		var acceptErr, declineErr error
		var g errgroup.Group
		g.Go(func() error {
			_, acceptErr = f.svc.Accept(ctx, f.alumni, m.ID)
			return nil
		})
		g.Go(func() error {
			declineErr = f.svc.Decline(ctx, f.alumni, m.ID)
			return nil
		})
		require.NoError(t, g.Wait())

		got, err := f.store.Matches().GetByID(ctx, m.ID)
		switch {
		case acceptErr == nil:
			require.Error(t, declineErr)
			assert.ErrorIs(t, declineErr, common.ErrInvalidState)
			require.NoError(t, err)
			assert.Equal(t, types.MatchAccepted, got.Status)
		case declineErr == nil:
			require.Error(t, acceptErr)
			assert.True(t, errors.Is(acceptErr, common.ErrNotFound) || errors.Is(acceptErr, common.ErrInvalidState), acceptErr)
			assert.True(t, repository.IsNotFound(err))
		default:
			t.Fatalf("both transitions failed: accept=%v decline=%v", acceptErr, declineErr)
		}
	}
}
