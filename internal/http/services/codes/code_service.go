package codes

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/codes"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	tokens "github.com/dropDatabas3/mentorlink/internal/security/token"
	"github.com/dropDatabas3/mentorlink/internal/store"
	"go.uber.org/zap"
)

type codeService struct {
	deps Deps
}

// NewCodeService crea el service de códigos.
func NewCodeService(d Deps) CodeService {
	d.Now = d.Now.OrSystem()
	if d.VerifyTTL <= 0 {
		d.VerifyTTL = DefaultVerifyTTL
	}
	if d.ResetTTL <= 0 {
		d.ResetTTL = DefaultResetTTL
	}
	if d.Hash == (password.Params{}) {
		d.Hash = password.Default
	}
	if d.Policy == (password.Policy{}) {
		d.Policy = password.DefaultPolicy
	}
	if d.Generate == nil {
		d.Generate = tokens.GenerateNumericCode
	}
	return &codeService{deps: d}
}

func (s *codeService) ttl(p types.CodePurpose) time.Duration {
	if p == types.PurposePasswordReset {
		return s.deps.ResetTTL
	}
	return s.deps.VerifyTTL
}

func (s *codeService) Issue(ctx context.Context, email string, purpose types.CodePurpose) (*dto.IssueResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("codes"),
		logger.Op("Issue"),
		logger.Purpose(string(purpose)),
	)

	email = types.NormalizeEmail(email)
	if email == "" {
		return nil, common.Invalid("email is required")
	}
	if !purpose.IsValid() {
		return nil, common.Invalid("unknown purpose")
	}
	now := s.deps.Now()

	if purpose == types.PurposePasswordReset {
		// La respuesta no depende de si la cuenta existe.
		_, err := s.deps.Store.Identities().GetByEmail(ctx, email)
		if repository.IsNotFound(err) {
			log.Debug("reset requested for unknown account")
			return &dto.IssueResult{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("lookup identity: %w", err)
		}
	} else {
		cur, err := s.deps.Store.Codes().Get(ctx, email, purpose)
		if err == nil && cur.IsLive(now) {
			return nil, &common.CodeAlreadyIssuedError{ExpiresAt: cur.ExpiresAt}
		}
		if err != nil && !repository.IsNotFound(err) {
			return nil, fmt.Errorf("lookup code: %w", err)
		}
	}

	code, err := s.deps.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	ttl := s.ttl(purpose)

	row, err := s.deps.Store.Codes().Upsert(ctx, repository.UpsertCodeInput{
		Email:       email,
		Purpose:     purpose,
		Code:        code,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
		ReplaceLive: purpose == types.PurposePasswordReset,
	})
	if repository.IsConflict(err) {
		// otro Issue concurrente dejó un código vivo
		if cur, gerr := s.deps.Store.Codes().Get(ctx, email, purpose); gerr == nil {
			return nil, &common.CodeAlreadyIssuedError{ExpiresAt: cur.ExpiresAt}
		}
		return nil, &common.CodeAlreadyIssuedError{ExpiresAt: now.Add(ttl)}
	}
	if err != nil {
		return nil, fmt.Errorf("upsert code: %w", err)
	}
	s.deps.Metrics.CodeIssued(string(purpose))

	s.deliver(ctx, log, row, ttl)

	if purpose == types.PurposePasswordReset {
		return &dto.IssueResult{}, nil
	}
	exp := row.ExpiresAt
	return &dto.IssueResult{ExpiresAt: &exp}, nil
}

// deliver entrega el código. El código ya quedó persistido: un fallo de
// transporte se loguea y no se propaga.
func (s *codeService) deliver(ctx context.Context, log *zap.Logger, row *repository.VerificationCode, ttl time.Duration) {
	if s.deps.Notifier == nil {
		return
	}
	var err error
	switch row.Purpose {
	case types.PurposePasswordReset:
		err = s.deps.Notifier.SendResetCode(ctx, row.Email, row.Code, row.ExpiresAt, ttl)
	default:
		err = s.deps.Notifier.SendVerificationCode(ctx, row.Email, row.Code, row.ExpiresAt, ttl)
	}
	if err != nil {
		s.deps.Metrics.DeliveryFailed(string(row.Purpose))
		log.Warn("code delivery failed", logger.Err(err))
	}
}

func (s *codeService) Verify(ctx context.Context, in dto.VerifyInput) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("codes"),
		logger.Op("Verify"),
		logger.Purpose(string(in.Purpose)),
	)

	email := types.NormalizeEmail(in.Email)
	if email == "" || in.Code == "" {
		return common.Invalid("email and code are required")
	}
	if !in.Purpose.IsValid() {
		return common.Invalid("unknown purpose")
	}
	now := s.deps.Now()

	var ident *repository.Identity
	if in.Purpose == types.PurposePasswordReset {
		var err error
		ident, err = s.deps.Store.Identities().GetByEmail(ctx, email)
		if repository.IsNotFound(err) {
			s.deps.Metrics.CodeVerified(string(in.Purpose), "invalid")
			return common.ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("lookup identity: %w", err)
		}
	}

	cur, err := s.deps.Store.Codes().Get(ctx, email, in.Purpose)
	if err != nil && !repository.IsNotFound(err) {
		return fmt.Errorf("lookup code: %w", err)
	}
	if err := checkCode(cur, in.Code, now); err != nil {
		s.deps.Metrics.CodeVerified(string(in.Purpose), resultLabel(err))
		return err
	}

	var phc string
	if in.Purpose == types.PurposePasswordReset {
		if err := common.CheckSecret(s.deps.Policy, in.NewPassword); err != nil {
			return err
		}
		if phc, err = password.Hash(s.deps.Hash, in.NewPassword); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}

	err = s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Codes().Consume(ctx, email, in.Purpose, in.Code, now); err != nil {
			return err
		}
		if ident != nil {
			return tx.Identities().UpdatePassword(ctx, ident.ID, phc, now)
		}
		// verificación previa al registro: no hay identidad que marcar
		if err := tx.Identities().MarkEmailVerified(ctx, email, now); err != nil && !repository.IsNotFound(err) {
			return err
		}
		return nil
	})
	if repository.IsConflict(err) {
		// perdimos la carrera: releer para reportar el estado real
		latest, gerr := s.deps.Store.Codes().Get(ctx, email, in.Purpose)
		if gerr != nil && !repository.IsNotFound(gerr) {
			return fmt.Errorf("lookup code: %w", gerr)
		}
		cerr := checkCode(latest, in.Code, now)
		if cerr == nil {
			cerr = common.ErrCodeAlreadyUsed
		}
		s.deps.Metrics.CodeVerified(string(in.Purpose), resultLabel(cerr))
		return cerr
	}
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}

	s.deps.Metrics.CodeVerified(string(in.Purpose), "success")
	if ident != nil {
		logger.Audit(ctx).Info("password reset", logger.UserID(ident.ID))
	} else {
		log.Info("email verified")
	}
	return nil
}

// checkCode aplica el orden InvalidCode → CodeAlreadyUsed → CodeExpired.
// cur nil equivale a "no hay fila".
func checkCode(cur *repository.VerificationCode, code string, now time.Time) error {
	if cur == nil || subtle.ConstantTimeCompare([]byte(cur.Code), []byte(code)) != 1 {
		return common.ErrInvalidCode
	}
	if cur.UsedAt != nil {
		return common.ErrCodeAlreadyUsed
	}
	if !now.Before(cur.ExpiresAt) {
		return common.ErrCodeExpired
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, common.ErrCodeAlreadyUsed):
		return "already_used"
	case errors.Is(err, common.ErrCodeExpired):
		return "expired"
	default:
		return "invalid"
	}
}
