package codes

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/mentorlink/internal/http/dto/codes"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/http/helpers"
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
)

func writeCodeError(w http.ResponseWriter, err error) {
	var issued *common.CodeAlreadyIssuedError

	switch {
	case errors.As(err, &issued):
		// 409 con el vencimiento para que el cliente sepa cuándo reintentar.
		helpers.WriteJSON(w, http.StatusConflict, dto.AlreadyIssuedResponse{
			Code:      httperrors.ErrCodeAlreadyIssued.Code,
			Message:   httperrors.ErrCodeAlreadyIssued.Message,
			ExpiresAt: issued.ExpiresAt.UTC(),
		})
	case errors.Is(err, common.ErrInvalidCode):
		httperrors.WriteError(w, httperrors.ErrInvalidCode)
	case errors.Is(err, common.ErrCodeAlreadyUsed):
		httperrors.WriteError(w, httperrors.ErrCodeAlreadyUsed)
	case errors.Is(err, common.ErrCodeExpired):
		httperrors.WriteError(w, httperrors.ErrCodeExpired)
	default:
		helpers.WriteCommonError(w, err)
	}
}
