package ports

import "context"

// Attachment adjunto de un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message correo de texto plano.
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer puerto de salida para el envío de correo. El envío es síncrono y sin reintentos:
// el error se propaga al caso de uso.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
