// Package events defines the pipeline events the API publishes after each
// successful mutation and the worker projects into the activity feed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event types double as AMQP routing keys.
const (
	TypeJobCreated          = "job.created"
	TypeJobUpdated          = "job.updated"
	TypeJobDeleted          = "job.deleted"
	TypeJobsReordered       = "jobs.reordered"
	TypeCandidateCreated    = "candidate.created"
	TypeCandidateStageMoved = "candidate.stage_changed"
	TypeCandidateNoteAdded  = "candidate.note_added"
)

// PipelineEvent is the message body published to the pipeline exchange.
type PipelineEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	JobID       string    `json:"job_id,omitempty"`
	CandidateID string    `json:"candidate_id,omitempty"`
	Message     string    `json:"message"`
	Actor       string    `json:"actor"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// New stamps a fresh event id and time.
func New(eventType, message, actor string) PipelineEvent {
	return PipelineEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Message:    message,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// Decode parses and validates a message body.
func Decode(body []byte) (PipelineEvent, error) {
	var evt PipelineEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return PipelineEvent{}, fmt.Errorf("failed to parse event JSON: %w", err)
	}
	if _, err := uuid.Parse(evt.ID); err != nil {
		return PipelineEvent{}, fmt.Errorf("invalid event id %q: %w", evt.ID, err)
	}
	if evt.Type == "" {
		return PipelineEvent{}, fmt.Errorf("event %s has no type", evt.ID)
	}
	return evt, nil
}

// Publisher delivers pipeline events.
type Publisher interface {
	Publish(ctx context.Context, evt PipelineEvent) error
}

// AMQPPublisher is the subset of the RabbitMQ client used to publish.
type AMQPPublisher interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// BrokerPublisher publishes JSON events with the event type as routing key.
type BrokerPublisher struct {
	client AMQPPublisher
	logger *slog.Logger
}

// NewBrokerPublisher creates a publisher backed by the RabbitMQ client.
func NewBrokerPublisher(client AMQPPublisher, logger *slog.Logger) *BrokerPublisher {
	return &BrokerPublisher{client: client, logger: logger}
}

// Publish implements Publisher
func (p *BrokerPublisher) Publish(ctx context.Context, evt PipelineEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.PublishWithRetry(ctx, evt.Type, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}
	p.logger.Debug("Pipeline event published",
		slog.String("event_id", evt.ID),
		slog.String("type", evt.Type),
	)
	return nil
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, PipelineEvent) error { return nil }
