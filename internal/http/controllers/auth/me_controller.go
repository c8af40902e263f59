package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/auth"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// MeController maneja GET /v1/me y PUT /v1/me/profile.
type MeController struct {
	service svc.ProfileService
}

// NewMeController crea un nuevo controller de cuenta propia.
func NewMeController(service svc.ProfileService) *MeController {
	return &MeController{service: service}
}

// Me devuelve la identidad del caller. Requiere RequireAuth.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !helpers.RequireMethod(w, r, http.MethodGet) {
		return
	}

	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	out, err := c.service.Me(ctx, p)
	if err != nil {
		helpers.WriteCommonError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// UpdateProfile reemplaza el perfil del caller.
func (c *MeController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MeController.UpdateProfile"))

	if !helpers.RequireMethod(w, r, http.MethodPut) {
		return
	}

	p, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateProfileRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out, err := c.service.UpdateProfile(ctx, p, req)
	if err != nil {
		log.Debug("update profile failed", logger.Err(err))
		helpers.WriteCommonError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
