package errors

import (
	"fmt"
	"net/http"
)

// AppError es el error estándar de la capa HTTP.
type AppError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
	HTTPStatus int      `json:"-"`
	Err        error    `json:"-"` // causa original, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail devuelve una COPIA con detalle adicional.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithReasons devuelve una COPIA con la lista de motivos (ej: política de password).
func (e *AppError) WithReasons(reasons []string) *AppError {
	newErr := *e
	newErr.Reasons = append([]string(nil), reasons...)
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// ─── 400 ───

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrValidation = &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "Uno o más campos son inválidos.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidCode = &AppError{
		Code:       "INVALID_CODE",
		Message:    "El código es inválido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCodeExpired = &AppError{
		Code:       "CODE_EXPIRED",
		Message:    "El código expiró. Solicite uno nuevo.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCodeAlreadyUsed = &AppError{
		Code:       "CODE_ALREADY_USED",
		Message:    "El código ya fue utilizado.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "El cuerpo de la solicitud excede el tamaño máximo permitido.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
)

// ─── 401 ───

var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "No autorizado. Se requiere autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenExpired = &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "El token de acceso ha expirado.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "El token de acceso es inválido o está malformado.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "No se proporcionó token de autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// ─── 403 ───

var (
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "No tiene permisos para realizar esta acción.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrNotApproved = &AppError{
		Code:       "NOT_APPROVED",
		Message:    "La cuenta todavía no fue aprobada por un administrador.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrDomainNotAllowed = &AppError{
		Code:       "DOMAIN_NOT_ALLOWED",
		Message:    "El dominio del email no está habilitado para administradores.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrInvalidInviteCode = &AppError{
		Code:       "INVALID_INVITE_CODE",
		Message:    "El código de invitación es inválido.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ─── 404 ───

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no fue encontrado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrInviteNotFound = &AppError{
		Code:       "INVITE_NOT_FOUND",
		Message:    "No existe una invitación para este email.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "La ruta solicitada no existe.",
		HTTPStatus: http.StatusNotFound,
	}
)

// ─── 405 ───

var ErrMethodNotAllowed = &AppError{
	Code:       "METHOD_NOT_ALLOWED",
	Message:    "El método HTTP no está permitido para este recurso.",
	HTTPStatus: http.StatusMethodNotAllowed,
}

// ─── 409 ───

var (
	ErrEmailAlreadyInUse = &AppError{
		Code:       "EMAIL_ALREADY_IN_USE",
		Message:    "El correo electrónico ya está registrado.",
		HTTPStatus: http.StatusConflict,
	}

	ErrCodeAlreadyIssued = &AppError{
		Code:       "CODE_ALREADY_ISSUED",
		Message:    "Ya existe un código vigente para este email.",
		HTTPStatus: http.StatusConflict,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "El recurso no está en un estado que permita esta acción.",
		HTTPStatus: http.StatusConflict,
	}

	ErrInviteAlreadyUsed = &AppError{
		Code:       "INVITE_ALREADY_USED",
		Message:    "La invitación ya fue utilizada.",
		HTTPStatus: http.StatusConflict,
	}

	ErrAlreadyExists = &AppError{
		Code:       "ALREADY_EXISTS",
		Message:    "El recurso ya existe.",
		HTTPStatus: http.StatusConflict,
	}
)

// ─── 410 ───

var ErrInviteExpired = &AppError{
	Code:       "INVITE_EXPIRED",
	Message:    "La invitación expiró.",
	HTTPStatus: http.StatusGone,
}

// ─── 422 ───

var ErrWeakCredential = &AppError{
	Code:       "WEAK_CREDENTIAL",
	Message:    "La contraseña no cumple con los requisitos de seguridad.",
	HTTPStatus: http.StatusUnprocessableEntity,
}

// ─── 429 ───

var ErrRateLimitExceeded = &AppError{
	Code:       "RATE_LIMIT_EXCEEDED",
	Message:    "Ha excedido el límite de solicitudes. Intente más tarde.",
	HTTPStatus: http.StatusTooManyRequests,
}

// ─── 5xx ───

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "El servicio no está disponible temporalmente.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
