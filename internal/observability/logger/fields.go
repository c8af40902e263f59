package logger

import (
	"time"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ─── Sistema ───

// Component identifica el módulo (ej: "match", "codes").
func Component(v string) zap.Field { return zap.String("component", v) }

// Op identifica la operación (ej: "MatchService.Accept").
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer identifica la capa (controller, service, repository).
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

// ─── Negocio ───

func UserID(v string) zap.Field   { return zap.String("user_id", v) }
func ActorID(v string) zap.Field  { return zap.String("actor_id", v) }
func TargetID(v string) zap.Field { return zap.String("target_id", v) }
func MatchID(v string) zap.Field  { return zap.String("match_id", v) }
func Role(v string) zap.Field     { return zap.String("role", v) }
func Purpose(v string) zap.Field  { return zap.String("purpose", v) }

// Email crea un campo con el email. Usar con cuidado en prod.
func Email(v string) zap.Field { return zap.String("email", v) }

func Count(v int) zap.Field { return zap.Int("count", v) }

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }

// Any para valores arbitrarios (ej: el valor de un panic).
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
