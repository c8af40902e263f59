// Package email entrega los mensajes transaccionales de la plataforma:
// códigos de verificación, invitaciones de admin y avisos de matches.
//
//	services ──► Notifier ──► templates (html + text)
//	                 │
//	                 ▼
//	              Sender (SMTPSender | LogSender | Recorder)
//
// El Notifier no decide qué hacer ante un fallo de envío: retorna el error
// y el service lo loguea y sigue.
package email
