package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"rental-service/pkg/config"
)

// Mailer delivers a single plain-text message. Implementations must be
// synchronous; callers treat a returned error as final and never retry.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	cfg *config.SMTPConfig
}

// NewSMTPMailer builds a mailer from the SMTP configuration
func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the message to all recipients in one SMTP transaction
func (m *SMTPMailer) Send(to []string, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(m.cfg.Addr(), auth, m.cfg.From, to, []byte(msg.String()))
}
