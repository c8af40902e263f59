package admin

import (
	"net/http"

	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/admin"
)

// StatsController expone los conteos de la plataforma.
type StatsController struct {
	service svc.ConsoleService
}

// NewStatsController crea un nuevo controller de conteos.
func NewStatsController(service svc.ConsoleService) *StatsController {
	return &StatsController{service: service}
}

// Get maneja GET /v1/admin/stats
func (c *StatsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !helpers.RequireMethod(w, r, http.MethodGet) {
		return
	}

	actor, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	out, err := c.service.Stats(ctx, actor)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
