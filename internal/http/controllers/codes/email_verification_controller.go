package codes

import (
	"net/http"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/codes"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/codes"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// EmailVerificationController emite y consume códigos de verificación de email.
type EmailVerificationController struct {
	service svc.CodeService
}

// NewEmailVerificationController crea un nuevo controller de verificación de email.
func NewEmailVerificationController(service svc.CodeService) *EmailVerificationController {
	return &EmailVerificationController{service: service}
}

// Issue maneja POST /v1/codes/email-verification
func (c *EmailVerificationController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmailVerificationController.Issue"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.IssueRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Issue(ctx, req.Email, types.PurposeEmailVerification)
	if err != nil {
		log.Debug("issue failed", logger.Err(err))
		writeCodeError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusAccepted, dto.IssueResponse{
		Message:   "verification code sent",
		ExpiresAt: res.ExpiresAt,
	})
}

// Verify maneja POST /v1/codes/email-verification/verify
func (c *EmailVerificationController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmailVerificationController.Verify"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.VerifyEmailRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	err := c.service.Verify(ctx, dto.VerifyInput{
		Email:   req.Email,
		Purpose: types.PurposeEmailVerification,
		Code:    req.Code,
	})
	if err != nil {
		log.Debug("verify failed", logger.Err(err))
		writeCodeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
