package codes

import (
	"net/http"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/codes"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/codes"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// resetAcceptedMessage es idéntico exista o no la cuenta.
const resetAcceptedMessage = "if the account exists, a reset code was sent"

// PasswordResetController emite y consume códigos de reset de secreto.
type PasswordResetController struct {
	service svc.CodeService
}

// NewPasswordResetController crea un nuevo controller de reset.
func NewPasswordResetController(service svc.CodeService) *PasswordResetController {
	return &PasswordResetController{service: service}
}

// Issue maneja POST /v1/codes/password-reset
func (c *PasswordResetController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordResetController.Issue"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.IssueRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if _, err := c.service.Issue(ctx, req.Email, types.PurposePasswordReset); err != nil {
		log.Debug("issue failed", logger.Err(err))
		writeCodeError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusAccepted, dto.IssueResponse{Message: resetAcceptedMessage})
}

// Verify maneja POST /v1/codes/password-reset/verify
func (c *PasswordResetController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordResetController.Verify"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ResetPasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	err := c.service.Verify(ctx, dto.VerifyInput{
		Email:       req.Email,
		Purpose:     types.PurposePasswordReset,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		log.Debug("reset failed", logger.Err(err))
		writeCodeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
