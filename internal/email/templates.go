package email

import (
	"bytes"
	htmltpl "html/template"
	texttpl "text/template"
	"time"
)

// template agrupa las dos versiones de un mensaje.
type template struct {
	subject string
	html    *htmltpl.Template
	text    *texttpl.Template
}

func mustTemplate(name, subject, html, text string) template {
	return template{
		subject: subject,
		html:    htmltpl.Must(htmltpl.New(name).Parse(html)),
		text:    texttpl.Must(texttpl.New(name).Parse(text)),
	}
}

func (t template) render(vars any) (subject, html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := t.html.Execute(&hb, vars); err != nil {
		return "", "", "", err
	}
	if err := t.text.Execute(&tb, vars); err != nil {
		return "", "", "", err
	}
	return t.subject, hb.String(), tb.String(), nil
}

// CodeVars variables de los templates de código.
type CodeVars struct {
	AppName   string
	Code      string
	ExpiresAt time.Time
	TTL       string
}

// InviteVars variables del template de invitación de admin.
type InviteVars struct {
	AppName   string
	Email     string
	Code      string
	ExpiresAt time.Time
}

// MatchVars variables de los avisos de match.
type MatchVars struct {
	AppName     string
	StudentName string
	AlumniName  string
}

var (
	tplVerify = mustTemplate("verify",
		"Verify your email",
		`<p>Your {{.AppName}} verification code is <strong>{{.Code}}</strong>.</p><p>It expires in {{.TTL}}.</p>`,
		"Your {{.AppName}} verification code is {{.Code}}.\nIt expires in {{.TTL}}.\n",
	)

	tplReset = mustTemplate("reset",
		"Password reset code",
		`<p>Use <strong>{{.Code}}</strong> to reset your {{.AppName}} password.</p><p>It expires in {{.TTL}}. If you did not ask for it, ignore this email.</p>`,
		"Use {{.Code}} to reset your {{.AppName}} password.\nIt expires in {{.TTL}}. If you did not ask for it, ignore this email.\n",
	)

	tplInvite = mustTemplate("invite",
		"Administrator invitation",
		`<p>You were invited to administer {{.AppName}} as {{.Email}}.</p><p>Invitation code: <strong>{{.Code}}</strong> (valid until {{.ExpiresAt.UTC.Format "2006-01-02 15:04 MST"}}).</p>`,
		"You were invited to administer {{.AppName}} as {{.Email}}.\nInvitation code: {{.Code}} (valid until {{.ExpiresAt.UTC.Format \"2006-01-02 15:04 MST\"}}).\n",
	)

	tplMatchConfirmed = mustTemplate("match_confirmed",
		"New mentoring request",
		`<p>Hi {{.AlumniName}}, {{.StudentName}} was matched with you on {{.AppName}}. Review the request to accept or decline it.</p>`,
		"Hi {{.AlumniName}}, {{.StudentName}} was matched with you on {{.AppName}}. Review the request to accept or decline it.\n",
	)

	tplMatchAccepted = mustTemplate("match_accepted",
		"Your mentoring request was accepted",
		`<p>Hi {{.StudentName}}, {{.AlumniName}} accepted to mentor you on {{.AppName}}.</p>`,
		"Hi {{.StudentName}}, {{.AlumniName}} accepted to mentor you on {{.AppName}}.\n",
	)

	tplMatchDeclined = mustTemplate("match_declined",
		"Update on your mentoring request",
		`<p>Hi {{.StudentName}}, your match with {{.AlumniName}} on {{.AppName}} was declined. An administrator will look for another mentor.</p>`,
		"Hi {{.StudentName}}, your match with {{.AlumniName}} on {{.AppName}} was declined. An administrator will look for another mentor.\n",
	)
)
