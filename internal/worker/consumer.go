package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/hireboard/internal/events"
	"github.com/cuongbtq/hireboard/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer starts consuming with QoS and returns the delivery channel
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	// prefetch bounds unacknowledged deliveries per consumer
	deliveries, err := w.source.Consume(w.workerID, w.prefetchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.String("queue", w.queueName),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	return deliveries, nil
}

// errDeliveriesClosed is returned when the broker closes the delivery channel
var errDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// startMessageDispatcher decodes deliveries and hands them to the worker pool
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return nil

		case <-w.stopChan:
			w.logger.Info("Message dispatcher stopped - stopChan closed")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return errDeliveriesClosed
			}
			if !w.dispatch(ctx, delivery.Body, delivery.DeliveryTag, delivery) {
				return nil
			}
		}
	}
}

// dispatch decodes one delivery and queues it for the pool. It returns false
// when the dispatcher should stop.
func (w *Worker) dispatch(ctx context.Context, body []byte, tag uint64, ack domain.Acknowledger) bool {
	evt, err := events.Decode(body)
	if err != nil {
		w.logger.Error("Failed to decode pipeline event",
			slog.String("error", err.Error()),
			slog.String("body", string(body)),
		)
		// malformed messages are dropped (or dead-lettered), never requeued
		if nackErr := ack.Nack(false, false); nackErr != nil {
			w.logger.Error("Failed to NACK malformed message",
				slog.String("error", nackErr.Error()),
			)
		}
		return true
	}

	msg := &domain.EventMessage{
		Event:       evt,
		DeliveryTag: tag,
		Delivery:    ack,
	}

	select {
	case w.eventsChan <- msg:
		w.logger.Debug("Event dispatched to worker pool",
			slog.String("event_id", evt.ID),
			slog.Uint64("delivery_tag", tag),
		)
		return true
	case <-ctx.Done():
	case <-w.stopChan:
	}

	w.logger.Info("Message dispatcher stopped while dispatching event")
	// hand the message back so it can be reprocessed
	if nackErr := ack.Nack(false, true); nackErr != nil {
		w.logger.Error("Failed to NACK message on shutdown",
			slog.String("error", nackErr.Error()),
		)
	}
	return false
}
