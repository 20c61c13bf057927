// Package events carries the outbound messaging: an in-process bus used as
// the fire-and-forget email queue, and a publisher for domain events consumed
// by downstream services.
package events

import (
	"context"
	"time"
)

const (
	// TopicEmailSend is the in-process outbound email queue.
	TopicEmailSend = "email.send"

	// Domain event types published for downstream consumers.
	EventUserRegistered = "user.registered"
	EventTopicReviewed  = "topic.reviewed"
	EventReportGraded   = "report.graded"
)

const eventSource = "seminar-service"

// Event is the envelope for domain events.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// EventPublisher publishes domain events. Delivery is best-effort; failures
// are logged by implementations, never propagated into request handling.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close() error
}
