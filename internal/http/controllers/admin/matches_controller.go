package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/admin"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// MatchesController crea matches confirmed desde la consola.
type MatchesController struct {
	service svc.ConsoleService
}

// NewMatchesController crea un nuevo controller de matches admin.
func NewMatchesController(service svc.ConsoleService) *MatchesController {
	return &MatchesController{service: service}
}

// Confirm maneja POST /v1/admin/matches
func (c *MatchesController) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MatchesController.Confirm"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	actor, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.ConfirmMatchRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out, err := c.service.ConfirmMatch(ctx, actor, req)
	if err != nil {
		log.Debug("confirm match failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, out)
}
