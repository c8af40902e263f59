package match

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/match"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/match"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// MatchesController maneja las transiciones y listados de matches.
type MatchesController struct {
	service svc.MatchService
}

// NewMatchesController crea un nuevo controller de matches.
func NewMatchesController(service svc.MatchService) *MatchesController {
	return &MatchesController{service: service}
}

// Accept maneja POST /v1/matches/{matchID}/accept
func (c *MatchesController) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID := chi.URLParam(r, "matchID")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MatchesController.Accept"), logger.MatchID(matchID))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	caller, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	out, err := c.service.Accept(ctx, caller, matchID)
	if err != nil {
		log.Debug("accept failed", logger.Err(err))
		writeMatchError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Decline maneja POST /v1/matches/{matchID}/decline
func (c *MatchesController) Decline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID := chi.URLParam(r, "matchID")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MatchesController.Decline"), logger.MatchID(matchID))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	caller, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	if err := c.service.Decline(ctx, caller, matchID); err != nil {
		log.Debug("decline failed", logger.Err(err))
		writeMatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Requests maneja GET /v1/matches/requests
func (c *MatchesController) Requests(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, c.service.PendingRequests)
}

// Mentees maneja GET /v1/matches/mentees
func (c *MatchesController) Mentees(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, c.service.Mentees)
}

// Mine maneja GET /v1/matches/mine
func (c *MatchesController) Mine(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, c.service.MyMatches)
}

type listFunc func(ctx context.Context, caller authz.Principal) (*dto.ListResponse, error)

func (c *MatchesController) list(w http.ResponseWriter, r *http.Request, fn listFunc) {
	ctx := r.Context()

	if !helpers.RequireMethod(w, r, http.MethodGet) {
		return
	}

	caller, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	out, err := fn(ctx, caller)
	if err != nil {
		writeMatchError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

func writeMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("match no encontrado"))
	case errors.Is(err, common.ErrInvalidState):
		httperrors.WriteError(w, httperrors.ErrInvalidState.WithDetail("el match ya no está pendiente"))
	default:
		helpers.WriteCommonError(w, err)
	}
}
