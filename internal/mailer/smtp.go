package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/SAP-F-2025/seminar-service/internal/config"
)

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer delivers mail through the configured SMTP provider.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}
