package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
)

type credentialService struct {
	deps Deps
}

// NewCredentialService crea el service de credenciales.
func NewCredentialService(d Deps) CredentialService {
	d.Now = d.Now.OrSystem()
	if d.Hash == (password.Params{}) {
		d.Hash = password.Default
	}
	if d.Policy == (password.Policy{}) {
		d.Policy = password.DefaultPolicy
	}
	return &credentialService{deps: d}
}

func (s *credentialService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.IdentityResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.credentials"),
		logger.Op("Register"),
	)

	email := types.NormalizeEmail(in.Email)
	role := types.ParseRole(in.Role)
	if email == "" || in.Name == "" {
		return nil, common.Invalid("name and email are required")
	}
	if !role.SelfRegistrable() {
		return nil, common.Invalid("role must be student or alumni")
	}
	if !in.Profile.MatchesRole(role) {
		return nil, common.Invalid("profile does not match role")
	}
	if err := common.CheckSecret(s.deps.Policy, in.Password); err != nil {
		return nil, err
	}

	if _, err := s.deps.Store.Identities().GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateIdentity
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	phc, err := password.Hash(s.deps.Hash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ident, err := s.deps.Store.Identities().Create(ctx, repository.CreateIdentityInput{
		Email:          email,
		Name:           in.Name,
		PasswordHash:   phc,
		Role:           role,
		ApprovalStatus: types.ApprovalPending,
		Profile:        in.Profile,
		CreatedAt:      s.deps.Now(),
	})
	if repository.IsConflict(err) {
		// otro registro ganó la carrera por el mismo email
		return nil, common.ErrDuplicateIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	s.deps.Metrics.Registered(string(role))
	log.Info("identity registered", logger.UserID(ident.ID), logger.Role(string(role)))

	out := dto.FromIdentity(ident)
	return &out, nil
}

func (s *credentialService) Authenticate(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.credentials"),
		logger.Op("Authenticate"),
	)

	email := types.NormalizeEmail(in.Email)
	ident, err := s.deps.Store.Identities().GetByEmail(ctx, email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("lookup identity: %w", err)
		}
		// mismo costo que un password incorrecto
		_ = password.VerifyDummy(in.Password)
		log.Debug("identity not found")
		s.deps.Metrics.Login("invalid_credentials")
		return nil, common.ErrInvalidCredentials
	}

	log = log.With(logger.UserID(ident.ID))

	if !password.Verify(in.Password, ident.PasswordHash) {
		log.Debug("password check failed")
		s.deps.Metrics.Login("invalid_credentials")
		return nil, common.ErrInvalidCredentials
	}

	if !ident.IsApproved() {
		log.Info("identity not approved", logger.String("approval_status", string(ident.ApprovalStatus)))
		s.deps.Metrics.Login("not_approved")
		return nil, common.ErrNotApproved
	}

	token, exp, err := s.deps.Issuer.IssueAccess(authz.Principal{
		ID:    ident.ID,
		Email: ident.Email,
		Role:  ident.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	s.deps.Metrics.Login("success")
	log.Info("login succeeded", logger.Role(string(ident.Role)))

	expiresIn := int64(exp.Sub(s.deps.Now()).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return &dto.LoginResult{
		AccessToken: token,
		ExpiresAt:   exp,
		ExpiresIn:   expiresIn,
		Role:        ident.Role,
	}, nil
}

func (s *credentialService) ChangeSecret(ctx context.Context, identityID string, in dto.ChangePasswordRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.credentials"),
		logger.Op("ChangeSecret"),
		logger.UserID(identityID),
	)

	ident, err := s.deps.Store.Identities().GetByID(ctx, identityID)
	if repository.IsNotFound(err) {
		// token válido de una identidad que ya no existe
		return common.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("lookup identity: %w", err)
	}

	if !password.Verify(in.CurrentPassword, ident.PasswordHash) {
		log.Debug("current password mismatch")
		return common.ErrInvalidCredentials
	}
	if err := common.CheckSecret(s.deps.Policy, in.NewPassword); err != nil {
		return err
	}

	phc, err := password.Hash(s.deps.Hash, in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.deps.Store.Identities().UpdatePassword(ctx, ident.ID, phc, s.deps.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return common.ErrInvalidCredentials
		}
		return fmt.Errorf("update password: %w", err)
	}

	logger.Audit(ctx).Info("password changed", logger.UserID(ident.ID))
	return nil
}
