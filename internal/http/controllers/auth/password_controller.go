package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// PasswordController maneja el cambio de secreto autenticado.
type PasswordController struct {
	service svc.CredentialService
}

// NewPasswordController crea un nuevo controller de cambio de secreto.
func NewPasswordController(service svc.CredentialService) *PasswordController {
	return &PasswordController{service: service}
}

// Change maneja POST /v1/auth/password/change
func (c *PasswordController) Change(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordController.Change"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.ChangeSecret(ctx, p.ID, req); err != nil {
		log.Debug("change password failed", logger.Err(err))
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials.WithDetail("la contraseña actual no coincide"))
		default:
			helpers.WriteCommonError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
