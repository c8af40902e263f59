package helpers

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
)

// WriteCommonError mapea los errores que cualquier service puede devolver.
// Lo que no reconoce sale como 500.
func WriteCommonError(w http.ResponseWriter, err error) {
	var ve *common.ValidationError
	var weak *common.WeakCredentialError

	switch {
	case errors.As(err, &ve):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(ve.Detail))
	case errors.Is(err, common.ErrValidation):
		httperrors.WriteError(w, httperrors.ErrValidation)
	case errors.As(err, &weak):
		httperrors.WriteError(w, httperrors.ErrWeakCredential.WithReasons(weak.Reasons))
	case errors.Is(err, common.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)
	case errors.Is(err, common.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, common.ErrInvalidState):
		httperrors.WriteError(w, httperrors.ErrInvalidState)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
