package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	admindto "github.com/dropDatabas3/mentorlink/internal/http/dto/admin"
	authdto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	tokens "github.com/dropDatabas3/mentorlink/internal/security/token"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

type onboardingService struct {
	deps Deps
}

// NewOnboardingService crea el service de onboarding de admins.
func NewOnboardingService(d Deps) OnboardingService {
	return &onboardingService{deps: withDefaults(d)}
}

func withDefaults(d Deps) Deps {
	d.Now = d.Now.OrSystem()
	d.DomainSuffix = strings.ToLower(strings.TrimSpace(d.DomainSuffix))
	if d.InviteTTL <= 0 {
		d.InviteTTL = DefaultInviteTTL
	}
	if d.Hash == (password.Params{}) {
		d.Hash = password.Default
	}
	if d.Policy == (password.Policy{}) {
		d.Policy = password.DefaultPolicy
	}
	return d
}

func (s *onboardingService) domainAllowed(email string) bool {
	suffix := s.deps.DomainSuffix
	return suffix != "" && len(email) > len(suffix) && strings.HasSuffix(email, suffix)
}

// RegisterAdmin aplica los chequeos en orden fijo:
// dominio → política → duplicado → invitación → código → usada → expirada.
func (s *onboardingService) RegisterAdmin(ctx context.Context, in admindto.RegisterAdminRequest) (*authdto.IdentityResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.onboarding"),
		logger.Op("RegisterAdmin"),
	)

	email := types.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, common.Invalid("name and email are required")
	}

	if !s.domainAllowed(email) {
		return nil, common.ErrDomainNotAllowed
	}
	if err := common.CheckSecret(s.deps.Policy, in.Password); err != nil {
		return nil, err
	}

	_, err := s.deps.Store.Identities().GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrDuplicateIdentity
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	inv, err := s.deps.Store.Invites().GetByEmail(ctx, email)
	if repository.IsNotFound(err) {
		return nil, common.ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup invite: %w", err)
	}
	if !password.VerifyInviteCode(in.InviteCode, inv.CodeHash, inv.Code) {
		log.Debug("invite code mismatch")
		return nil, common.ErrInvalidInviteCode
	}

	now := s.deps.Now()
	if inv.UsedAt != nil {
		return nil, common.ErrInviteAlreadyUsed
	}
	if !now.Before(inv.ExpiresAt) {
		return nil, common.ErrInviteExpired
	}

	phc, err := password.Hash(s.deps.Hash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *repository.Identity
	err = s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
		// Primero la invitación: el perdedor de una carrera ve InviteAlreadyUsed.
		if err := tx.Invites().MarkUsed(ctx, email, now); err != nil {
			if repository.IsConflict(err) {
				return common.ErrInviteAlreadyUsed
			}
			return fmt.Errorf("mark invite used: %w", err)
		}
		ident, err := tx.Identities().Create(ctx, repository.CreateIdentityInput{
			Email:          email,
			Name:           name,
			PasswordHash:   phc,
			Role:           types.RoleAdmin,
			ApprovalStatus: types.ApprovalApproved,
			EmailVerified:  true,
			CreatedAt:      now,
		})
		if repository.IsConflict(err) {
			return common.ErrDuplicateIdentity
		}
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		created = ident
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.Registered(string(types.RoleAdmin))
	logger.Audit(ctx).Info("admin invite consumed",
		logger.UserID(created.ID),
		logger.Email(email),
	)

	out := authdto.FromIdentity(created)
	return &out, nil
}

func (s *onboardingService) CreateInvite(ctx context.Context, actor authz.Principal, in admindto.CreateInviteRequest) (*admindto.InviteResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.onboarding"),
		logger.Op("CreateInvite"),
		logger.ActorID(actor.ID),
	)

	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	email := types.NormalizeEmail(in.Email)
	if email == "" {
		return nil, common.Invalid("email is required")
	}
	if !s.domainAllowed(email) {
		return nil, common.ErrDomainNotAllowed
	}

	ttl := s.deps.InviteTTL
	if in.TTL != "" {
		d, err := time.ParseDuration(in.TTL)
		if err != nil || d <= 0 {
			return nil, common.Invalid("ttl must be a positive duration (ej: 24h)")
		}
		ttl = d
	}

	if _, err := s.deps.Store.Identities().GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateIdentity
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		var err error
		if code, err = tokens.GenerateOpaqueToken(12); err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
	}
	hash, err := password.HashInviteCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash invite code: %w", err)
	}

	now := s.deps.Now()
	createdBy := actor.ID
	inv, err := s.deps.Store.Invites().Put(ctx, repository.CreateInviteInput{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: now.Add(ttl),
		CreatedBy: &createdBy,
		CreatedAt: now,
	})
	if repository.IsConflict(err) {
		return nil, common.ErrInviteAlreadyUsed
	}
	if err != nil {
		return nil, fmt.Errorf("put invite: %w", err)
	}

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.SendAdminInvite(ctx, email, code, inv.ExpiresAt); err != nil {
			s.deps.Metrics.DeliveryFailed("admin_invite")
			log.Warn("invite delivery failed", logger.Err(err))
		}
	}
	logger.Audit(ctx).Info("admin invite created",
		logger.ActorID(actor.ID),
		logger.Email(email),
	)

	return &admindto.InviteResult{Email: email, Code: code, ExpiresAt: inv.ExpiresAt}, nil
}
