// Package mail implementa ports.Mailer: SMTP real (gomail) y un emisor que solo registra en el log.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/pkg/config"
	"github.com/jhoicas/retail-api/pkg/logger"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía correos por SMTP. Sin usuario no autentica (MailHog, relays internos).
type SMTPMailer struct {
	dialer *gomail.Dialer
	log    *logger.Logger
}

// NewSMTPMailer construye el emisor con la configuración de correo.
func NewSMTPMailer(cfg config.MailConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log,
	}
}

// Send arma el mensaje en texto plano con sus adjuntos y lo entrega.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm, err := buildMessage(msg)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	m.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("correo entregado")
	return nil
}

func buildMessage(msg ports.Message) (*gomail.Message, error) {
	if msg.From == "" {
		return nil, errors.New("mail: remitente vacío")
	}
	if len(msg.To) == 0 {
		return nil, errors.New("mail: sin destinatarios")
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return gm, nil
}
