package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/auth"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.CredentialService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.CredentialService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /v1/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	result, err := c.service.Authenticate(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		Role:        string(result.Role),
	})
}

// writeLoginError no distingue email inexistente de secreto incorrecto.
func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, common.ErrNotApproved):
		httperrors.WriteError(w, httperrors.ErrNotApproved)
	default:
		helpers.WriteCommonError(w, err)
	}
}
