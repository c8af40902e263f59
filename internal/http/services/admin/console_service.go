package admin

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	admindto "github.com/dropDatabas3/mentorlink/internal/http/dto/admin"
	authdto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	matchdto "github.com/dropDatabas3/mentorlink/internal/http/dto/match"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type consoleService struct {
	deps Deps
}

// NewConsoleService crea el service de consola admin.
func NewConsoleService(d Deps) ConsoleService {
	return &consoleService{deps: withDefaults(d)}
}

func (s *consoleService) ListPending(ctx context.Context, actor authz.Principal, role types.Role, limit, offset int) (*admindto.ListPendingResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if role != "" && !role.SelfRegistrable() {
		return nil, common.Invalid("role must be student or alumni")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	filter := repository.IdentityFilter{
		Role:   role,
		Status: types.ApprovalPending,
		Limit:  limit,
		Offset: offset,
	}
	items, err := s.deps.Store.Identities().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	total, err := s.deps.Store.Identities().Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}

	out := &admindto.ListPendingResponse{
		Items:  make([]authdto.IdentityResponse, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i := range items {
		out.Items = append(out.Items, authdto.FromIdentity(&items[i]))
	}
	return out, nil
}

func (s *consoleService) SetApprovalStatus(ctx context.Context, actor authz.Principal, identityID string, status types.ApprovalStatus) (*authdto.IdentityResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if status != types.ApprovalApproved && status != types.ApprovalRejected {
		return nil, common.Invalid("status must be approved or rejected")
	}

	target, err := s.deps.Store.Identities().GetByID(ctx, identityID)
	if repository.IsNotFound(err) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	// Los admins nacen aprobados y no se degradan.
	if target.Role == types.RoleAdmin {
		return nil, common.ErrInvalidState
	}

	updated, err := s.deps.Store.Identities().SetApproval(ctx, target.ID, status, actor.ID, s.deps.Now())
	if err != nil {
		return nil, fmt.Errorf("set approval: %w", err)
	}

	logger.Audit(ctx).Info("approval status changed",
		logger.ActorID(actor.ID),
		logger.TargetID(target.ID),
		logger.String("from", string(target.ApprovalStatus)),
		logger.String("to", string(status)),
	)

	out := authdto.FromIdentity(updated)
	return &out, nil
}

func (s *consoleService) ConfirmMatch(ctx context.Context, actor authz.Principal, in admindto.ConfirmMatchRequest) (*matchdto.MatchResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.console"),
		logger.Op("ConfirmMatch"),
		logger.ActorID(actor.ID),
	)

	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Score < 0 || in.Score > 1 {
		return nil, common.Invalid("score must be between 0 and 1")
	}

	student, err := s.approvedWithRole(ctx, in.StudentID, types.RoleStudent)
	if err != nil {
		return nil, err
	}
	alumni, err := s.approvedWithRole(ctx, in.AlumniID, types.RoleAlumni)
	if err != nil {
		return nil, err
	}

	m, err := s.deps.Store.Matches().Create(ctx, repository.CreateMatchInput{
		StudentID:   student.ID,
		AlumniID:    alumni.ID,
		Score:       in.Score,
		Reasons:     in.Reasons,
		ConfirmedAt: s.deps.Now(),
	})
	if repository.IsConflict(err) {
		return nil, common.ErrMatchExists
	}
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	s.deps.Metrics.MatchEvent("confirmed")
	logger.Audit(ctx).Info("match confirmed",
		logger.ActorID(actor.ID),
		logger.MatchID(m.ID),
	)

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.MatchConfirmed(ctx, alumni.Email, alumni.Name, student.Name); err != nil {
			s.deps.Metrics.DeliveryFailed("match_confirmed")
			log.Warn("match notification failed", logger.MatchID(m.ID), logger.Err(err))
		}
	}

	out := matchdto.FromMatch(m)
	return &out, nil
}

func (s *consoleService) approvedWithRole(ctx context.Context, id string, role types.Role) (*repository.Identity, error) {
	ident, err := s.deps.Store.Identities().GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if ident.Role != role || ident.ApprovalStatus != types.ApprovalApproved {
		return nil, common.Invalid(fmt.Sprintf("%s must be an approved %s", id, role))
	}
	return ident, nil
}

func (s *consoleService) Stats(ctx context.Context, actor authz.Principal) (*admindto.StatsResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	out := &admindto.StatsResponse{
		Identities: map[string]map[string]int{},
		Matches:    map[string]int{},
	}
	roles := []types.Role{types.RoleStudent, types.RoleAlumni, types.RoleAdmin}
	statuses := []types.ApprovalStatus{types.ApprovalPending, types.ApprovalApproved, types.ApprovalRejected}
	for _, r := range roles {
		byStatus := map[string]int{}
		for _, st := range statuses {
			n, err := s.deps.Store.Identities().Count(ctx, repository.IdentityFilter{Role: r, Status: st})
			if err != nil {
				return nil, fmt.Errorf("count identities: %w", err)
			}
			byStatus[string(st)] = n
		}
		out.Identities[string(r)] = byStatus
	}

	counts, err := s.deps.Store.Matches().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}
	for _, st := range []types.MatchStatus{types.MatchConfirmed, types.MatchAccepted} {
		out.Matches[string(st)] = counts[st]
	}
	return out, nil
}
