package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// kafkaPublisher emits domain events to Kafka, one topic per event type.
type kafkaPublisher struct {
	publisher *kafka.Publisher
	logger    *slog.Logger
}

func NewKafkaPublisher(brokers []string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &kafkaPublisher{publisher: publisher, logger: logger}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, data any) error {
	event := Event{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Source:    eventSource,
		Timestamp: time.Now(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	if err := p.publisher.Publish(eventType, message.NewMessage(event.ID, payload)); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.publisher.Close()
}

// logPublisher is the no-broker fallback: domain events only reach the logs.
type logPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) EventPublisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(ctx context.Context, eventType string, data any) error {
	p.logger.Debug("domain event", "type", eventType, "data", data)
	return nil
}

func (p *logPublisher) Close() error { return nil }
