package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

type profileService struct {
	deps Deps
}

// NewProfileService crea el service de cuenta propia.
func NewProfileService(d Deps) ProfileService {
	d.Now = d.Now.OrSystem()
	return &profileService{deps: d}
}

func (s *profileService) Me(ctx context.Context, p authz.Principal) (*dto.IdentityResponse, error) {
	ident, err := s.deps.Store.Identities().GetByID(ctx, p.ID)
	if repository.IsNotFound(err) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	out := dto.FromIdentity(ident)
	return &out, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, p authz.Principal, in dto.UpdateProfileRequest) (*dto.IdentityResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.profile"),
		logger.Op("UpdateProfile"),
		logger.UserID(p.ID),
	)

	ident, err := s.deps.Store.Identities().GetByID(ctx, p.ID)
	if repository.IsNotFound(err) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if err := authz.RequireOwner(p.ID, ident.ID); err != nil {
		return nil, err
	}
	if !in.Profile.MatchesRole(ident.Role) {
		return nil, common.Invalid("profile does not match role")
	}

	updated, err := s.deps.Store.Identities().UpdateProfile(ctx, ident.ID, in.Profile, s.deps.Now())
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	log.Debug("profile updated")

	out := dto.FromIdentity(updated)
	return &out, nil
}
