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

// OnboardingController maneja invitaciones y el registro de admins.
type OnboardingController struct {
	service svc.OnboardingService
}

// NewOnboardingController crea un nuevo controller de onboarding.
func NewOnboardingController(service svc.OnboardingService) *OnboardingController {
	return &OnboardingController{service: service}
}

// Register maneja POST /v1/admin/register (público, gated por invitación).
func (c *OnboardingController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OnboardingController.Register"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RegisterAdminRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out, err := c.service.RegisterAdmin(ctx, req)
	if err != nil {
		log.Debug("admin register failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, out)
}

// CreateInvite maneja POST /v1/admin/invites
func (c *OnboardingController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OnboardingController.CreateInvite"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	actor, ok := mw.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.CreateInviteRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out, err := c.service.CreateInvite(ctx, actor, req)
	if err != nil {
		log.Debug("create invite failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, out)
}
