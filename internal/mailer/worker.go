package mailer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SAP-F-2025/seminar-service/internal/events"
)

// Worker drains the email queue and hands messages to the Mailer. Send
// failures are logged and swallowed; the queue's contract to publishers is
// "accepted for delivery", not "delivered".
type Worker struct {
	bus    *events.Bus
	mailer Mailer
	logger *slog.Logger
}

func NewWorker(bus *events.Bus, mailer Mailer, logger *slog.Logger) *Worker {
	return &Worker{bus: bus, mailer: mailer, logger: logger}
}

// Start subscribes to the email topic and processes messages until the
// context is cancelled or the bus closes.
func (w *Worker) Start(ctx context.Context) error {
	messages, err := w.bus.Subscribe(ctx, events.TopicEmailSend)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var email Message
			if err := json.Unmarshal(msg.Payload, &email); err != nil {
				w.logger.Error("dropping malformed email message", "error", err)
				msg.Ack()
				continue
			}

			if err := w.mailer.Send(ctx, email); err != nil {
				w.logger.Error("email delivery failed",
					"to", email.To,
					"subject", email.Subject,
					"error", err,
				)
			}
			msg.Ack()
		}
	}()

	return nil
}
