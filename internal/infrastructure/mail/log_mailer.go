package mail

import (
	"context"

	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/pkg/logger"
)

var _ ports.Mailer = (*LogMailer)(nil)

// LogMailer no envía nada: registra el correo. Se usa cuando SMTP_HOST no está configurado.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el emisor de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Message) error {
	m.log.Info().
		Str("from", msg.From).
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Int("attachments", len(msg.Attachments)).
		Msg("correo (SMTP deshabilitado)")
	return nil
}
