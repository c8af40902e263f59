package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	mw "github.com/dropDatabas3/mentorlink/internal/http/middlewares"
	svc "github.com/dropDatabas3/mentorlink/internal/http/services/admin"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// IdentitiesController maneja la cola de aprobación.
type IdentitiesController struct {
	service svc.ConsoleService
}

// NewIdentitiesController crea un nuevo controller de identidades.
func NewIdentitiesController(service svc.ConsoleService) *IdentitiesController {
	return &IdentitiesController{service: service}
}

// ListPending maneja GET /v1/admin/identities/pending?role=&limit=&offset=
func (c *IdentitiesController) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !helpers.RequireMethod(w, r, http.MethodGet) {
		return
	}

	actor, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	var role types.Role
	if raw := q.Get("role"); raw != "" {
		if role = types.ParseRole(raw); role == "" {
			httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("role inválido"))
			return
		}
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("limit debe ser numérico"))
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("offset debe ser numérico"))
		return
	}

	out, err := c.service.ListPending(ctx, actor, role, limit, offset)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// SetApproval maneja POST /v1/admin/identities/{identityID}/approval
func (c *IdentitiesController) SetApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IdentitiesController.SetApproval"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	actor, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.ApprovalRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "identityID")
	out, err := c.service.SetApprovalStatus(ctx, actor, id, types.ApprovalStatus(req.Status))
	if err != nil {
		log.Debug("set approval failed", logger.TargetID(id), logger.Err(err))
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
