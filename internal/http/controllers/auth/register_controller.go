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

// RegisterController maneja el registro abierto de estudiantes y mentores.
type RegisterController struct {
	service svc.CredentialService
}

// NewRegisterController crea un nuevo controller de registro.
func NewRegisterController(service svc.CredentialService) *RegisterController {
	return &RegisterController{service: service}
}

// Register maneja POST /v1/auth/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	out, err := c.service.Register(ctx, req)
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		writeRegisterError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, out)
}

func writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateIdentity):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	default:
		helpers.WriteCommonError(w, err)
	}
}
