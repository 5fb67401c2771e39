package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/hireboard/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
}

// workerLoop is the main processing loop for each worker goroutine
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Debug("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg := <-w.eventsChan:
			w.handle(ctx, workerName, msg)
		}
	}
}

// handle processes one event and settles its delivery
func (w *Worker) handle(ctx context.Context, workerName string, msg *domain.EventMessage) {
	err := w.processEvent(ctx, msg)
	if err != nil {
		w.logger.Error("Event processing failed",
			slog.String("worker_name", workerName),
			slog.String("event_id", msg.Event.ID),
			slog.String("error", err.Error()),
		)

		requeue := shouldRequeue(err)
		if nackErr := msg.Delivery.Nack(false, requeue); nackErr != nil {
			w.logger.Error("Failed to NACK message",
				slog.String("worker_name", workerName),
				slog.String("event_id", msg.Event.ID),
				slog.String("error", nackErr.Error()),
			)
			return
		}
		w.logger.Info("Message NACKed",
			slog.String("worker_name", workerName),
			slog.String("event_id", msg.Event.ID),
			slog.Bool("requeue", requeue),
		)
		return
	}

	if ackErr := msg.Delivery.Ack(false); ackErr != nil {
		w.logger.Error("Failed to ACK message",
			slog.String("worker_name", workerName),
			slog.String("event_id", msg.Event.ID),
			slog.String("error", ackErr.Error()),
		)
	}
}

// shouldRequeue requeues transient failures only
func shouldRequeue(err error) bool {
	if errors.Is(err, domain.ErrInvalidPayload) {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
