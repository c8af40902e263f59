package match

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/match"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
	"go.uber.org/zap"
)

type matchService struct {
	deps Deps
}

// NewMatchService crea el service de matches.
func NewMatchService(d Deps) MatchService {
	d.Now = d.Now.OrSystem()
	return &matchService{deps: d}
}

// load aplica NotFound → Forbidden → InvalidState.
func (s *matchService) load(ctx context.Context, caller authz.Principal, matchID string) (*repository.Match, error) {
	m, err := s.deps.Store.Matches().GetByID(ctx, matchID)
	if repository.IsNotFound(err) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup match: %w", err)
	}
	if err := authz.RequireOwner(caller.ID, m.AlumniID); err != nil {
		return nil, err
	}
	if m.Status != types.MatchConfirmed {
		return nil, common.ErrInvalidState
	}
	return m, nil
}

// staleState relee el match tras perder una transición condicional.
func (s *matchService) staleState(ctx context.Context, matchID string) error {
	_, err := s.deps.Store.Matches().GetByID(ctx, matchID)
	if repository.IsNotFound(err) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup match: %w", err)
	}
	return common.ErrInvalidState
}

func (s *matchService) Accept(ctx context.Context, caller authz.Principal, matchID string) (*dto.MatchResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("match"),
		logger.Op("Accept"),
		logger.MatchID(matchID),
		logger.UserID(caller.ID),
	)

	m, err := s.load(ctx, caller, matchID)
	if err != nil {
		return nil, err
	}

	now := s.deps.Now()
	if err := s.deps.Store.Matches().Accept(ctx, m.ID, now); err != nil {
		if repository.IsConflict(err) {
			return nil, s.staleState(ctx, m.ID)
		}
		return nil, fmt.Errorf("accept match: %w", err)
	}
	m.Status = types.MatchAccepted
	m.AcceptedAt = &now

	s.deps.Metrics.MatchEvent("accepted")
	logger.Audit(ctx).Info("match accepted",
		logger.MatchID(m.ID),
		logger.ActorID(caller.ID),
		logger.TargetID(m.StudentID),
	)
	s.notify(ctx, log, m, "match_accepted")

	out := dto.FromMatch(m)
	return &out, nil
}

func (s *matchService) Decline(ctx context.Context, caller authz.Principal, matchID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("match"),
		logger.Op("Decline"),
		logger.MatchID(matchID),
		logger.UserID(caller.ID),
	)

	m, err := s.load(ctx, caller, matchID)
	if err != nil {
		return err
	}

	if err := s.deps.Store.Matches().DeleteConfirmed(ctx, m.ID); err != nil {
		if repository.IsConflict(err) {
			return s.staleState(ctx, m.ID)
		}
		return fmt.Errorf("decline match: %w", err)
	}

	// La fila ya no existe: el audit log es el único registro del decline.
	s.deps.Metrics.MatchEvent("declined")
	logger.Audit(ctx).Info("match declined",
		logger.MatchID(m.ID),
		logger.ActorID(caller.ID),
		logger.TargetID(m.StudentID),
		zap.Float64("score", m.Score),
		zap.Time("confirmed_at", m.ConfirmedAt),
	)
	s.notify(ctx, log, m, "match_declined")
	return nil
}

// notify avisa al estudiante. Soft-fail: se loguea y sigue.
func (s *matchService) notify(ctx context.Context, log *zap.Logger, m *repository.Match, kind string) {
	if s.deps.Notifier == nil {
		return
	}
	student, err := s.deps.Store.Identities().GetByID(ctx, m.StudentID)
	if err != nil {
		log.Warn("student lookup for notification failed", logger.Err(err))
		return
	}
	alumniName := ""
	if alumni, err := s.deps.Store.Identities().GetByID(ctx, m.AlumniID); err == nil {
		alumniName = alumni.Name
	}

	if kind == "match_accepted" {
		err = s.deps.Notifier.MatchAccepted(ctx, student.Email, student.Name, alumniName)
	} else {
		err = s.deps.Notifier.MatchDeclined(ctx, student.Email, student.Name, alumniName)
	}
	if err != nil {
		s.deps.Metrics.DeliveryFailed(kind)
		log.Warn("match notification failed", logger.Err(err))
	}
}

func (s *matchService) PendingRequests(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error) {
	return s.listForAlumni(ctx, caller, types.MatchConfirmed)
}

func (s *matchService) Mentees(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error) {
	return s.listForAlumni(ctx, caller, types.MatchAccepted)
}

func (s *matchService) listForAlumni(ctx context.Context, caller authz.Principal, status types.MatchStatus) (*dto.ListResponse, error) {
	if err := authz.RequireAlumni(caller); err != nil {
		return nil, err
	}
	ms, err := s.deps.Store.Matches().ListByAlumni(ctx, caller.ID, status)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := dto.FromMatches(ms)
	return &out, nil
}

func (s *matchService) MyMatches(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error) {
	if err := authz.RequireStudent(caller); err != nil {
		return nil, err
	}
	ms, err := s.deps.Store.Matches().ListByStudent(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := dto.FromMatches(ms)
	return &out, nil
}
