package email

import (
	"context"
	"fmt"
	"time"
)

// Notifier arma y envía los mensajes de la plataforma.
type Notifier struct {
	Sender  Sender
	AppName string
}

// NewNotifier crea un Notifier. Sender nil equivale a LogSender.
func NewNotifier(s Sender, appName string) *Notifier {
	if s == nil {
		s = LogSender{}
	}
	if appName == "" {
		appName = "mentorlink"
	}
	return &Notifier{Sender: s, AppName: appName}
}

func (n *Notifier) send(to string, t template, vars any) error {
	subject, html, text, err := t.render(vars)
	if err != nil {
		return fmt.Errorf("email: render %s: %w", t.subject, err)
	}
	return n.Sender.Send(to, subject, html, text)
}

// SendVerificationCode entrega un código de verificación de email.
func (n *Notifier) SendVerificationCode(ctx context.Context, to, code string, expiresAt time.Time, ttl time.Duration) error {
	return n.send(to, tplVerify, CodeVars{AppName: n.AppName, Code: code, ExpiresAt: expiresAt, TTL: humanTTL(ttl)})
}

// SendResetCode entrega un código de reset de password.
func (n *Notifier) SendResetCode(ctx context.Context, to, code string, expiresAt time.Time, ttl time.Duration) error {
	return n.send(to, tplReset, CodeVars{AppName: n.AppName, Code: code, ExpiresAt: expiresAt, TTL: humanTTL(ttl)})
}

// SendAdminInvite entrega el código de invitación de admin.
func (n *Notifier) SendAdminInvite(ctx context.Context, to, code string, expiresAt time.Time) error {
	return n.send(to, tplInvite, InviteVars{AppName: n.AppName, Email: to, Code: code, ExpiresAt: expiresAt})
}

// MatchConfirmed avisa al mentor que tiene un pedido nuevo.
func (n *Notifier) MatchConfirmed(ctx context.Context, alumniEmail, alumniName, studentName string) error {
	return n.send(alumniEmail, tplMatchConfirmed, MatchVars{AppName: n.AppName, StudentName: studentName, AlumniName: alumniName})
}

// MatchAccepted avisa al estudiante que el mentor aceptó.
func (n *Notifier) MatchAccepted(ctx context.Context, studentEmail, studentName, alumniName string) error {
	return n.send(studentEmail, tplMatchAccepted, MatchVars{AppName: n.AppName, StudentName: studentName, AlumniName: alumniName})
}

// MatchDeclined avisa al estudiante que el mentor rechazó.
func (n *Notifier) MatchDeclined(ctx context.Context, studentEmail, studentName, alumniName string) error {
	return n.send(studentEmail, tplMatchDeclined, MatchVars{AppName: n.AppName, StudentName: studentName, AlumniName: alumniName})
}

// humanTTL: 48h -> "48 hours", 15m -> "15 minutes".
func humanTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
