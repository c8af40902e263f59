package admin

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
)

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrDomainNotAllowed):
		httperrors.WriteError(w, httperrors.ErrDomainNotAllowed)
	case errors.Is(err, common.ErrDuplicateIdentity):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	case errors.Is(err, common.ErrInviteNotFound):
		httperrors.WriteError(w, httperrors.ErrInviteNotFound)
	case errors.Is(err, common.ErrInvalidInviteCode):
		httperrors.WriteError(w, httperrors.ErrInvalidInviteCode)
	case errors.Is(err, common.ErrInviteAlreadyUsed):
		httperrors.WriteError(w, httperrors.ErrInviteAlreadyUsed)
	case errors.Is(err, common.ErrInviteExpired):
		httperrors.WriteError(w, httperrors.ErrInviteExpired)
	case errors.Is(err, common.ErrMatchExists):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail("el par estudiante-mentor ya tiene un match"))
	default:
		helpers.WriteCommonError(w, err)
	}
}
