// Package logger expone un logger zap singleton con scoping por contexto.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("MatchService.Accept"))
//	log.Info("match accepted", logger.MatchID(id))
//
// Los eventos de auditoría (aprobaciones, invitaciones consumidas, accept/decline)
// van por Audit(ctx), que agrega el campo audit=true para poder filtrarlos.
//
// Nunca loguear passwords, códigos de verificación ni códigos de invitación.
package logger
