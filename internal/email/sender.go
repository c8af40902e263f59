package email

import (
	"sync"

	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// Sender es la interfaz para enviar emails.
type Sender interface {
	// Send envía un email con contenido HTML y texto plano.
	Send(to string, subject string, htmlBody string, textBody string) error
}

// LogSender no envía nada: deja constancia del destinatario y el asunto.
// Se usa cuando no hay SMTP configurado (dev). El cuerpo no se loguea.
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody, textBody string) error {
	logger.L().Warn("smtp not configured, email dropped",
		logger.Component("email"),
		logger.String("to", to),
		logger.String("subject", subject),
	)
	return nil
}

// Message es un email capturado por Recorder.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Recorder guarda los mensajes en memoria. Err, si no es nil, se retorna en
// cada Send después de registrar el mensaje.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (r *Recorder) Send(to, subject, htmlBody, textBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return r.Err
}

// Messages retorna una copia de lo enviado.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Last retorna el último mensaje para to.
func (r *Recorder) Last(to string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].To == to {
			return r.msgs[i], true
		}
	}
	return Message{}, false
}
