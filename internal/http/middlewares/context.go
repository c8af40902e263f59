package middlewares

import (
	"context"

	"github.com/dropDatabas3/mentorlink/internal/authz"
)

type ctxKey string

const (
	// ctxPrincipalKey guarda el Principal autenticado
	ctxPrincipalKey ctxKey = "principal"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// WithPrincipal inyecta el Principal en el contexto.
func WithPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetPrincipal obtiene el Principal del contexto.
// ok=false si la ruta no pasó por RequireAuth.
func GetPrincipal(ctx context.Context) (authz.Principal, bool) {
	p, ok := ctx.Value(ctxPrincipalKey).(authz.Principal)
	return p, ok
}

// GetUserID obtiene el ID del Principal. Cadena vacía si no hay.
func GetUserID(ctx context.Context) string {
	p, _ := GetPrincipal(ctx)
	return p.ID
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}
