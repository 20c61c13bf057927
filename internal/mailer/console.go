package mailer

import (
	"context"
	"log/slog"
)

// consoleMailer logs the full message instead of delivering it. It is both
// the development default and the operational fallback channel for OTP codes
// when no SMTP provider is configured.
type consoleMailer struct {
	logger *slog.Logger
}

func NewConsoleMailer(logger *slog.Logger) Mailer {
	return &consoleMailer{logger: logger}
}

func (m *consoleMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("email (console fallback)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
