package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/hireboard/internal/worker/domain"
)

// processEvent writes one pipeline event to the activity feed
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	evt := msg.Event

	if evt.Message == "" {
		return fmt.Errorf("%w: event %s has no message", domain.ErrInvalidPayload, evt.ID)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	timeout := w.eventTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	eventCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	inserted, err := w.storage.InsertActivity(eventCtx, evt)
	if err != nil {
		// database failures are transient from the queue's point of view
		return domain.NewRetryableError(fmt.Errorf("failed to record event %s: %w", evt.ID, err))
	}

	if !inserted {
		w.logger.Debug("Duplicate event ignored",
			slog.String("event_id", evt.ID),
			slog.String("type", evt.Type),
		)
		return nil
	}

	w.logger.Info("Activity recorded",
		slog.String("event_id", evt.ID),
		slog.String("type", evt.Type),
		slog.String("candidate_id", evt.CandidateID),
		slog.String("job_id", evt.JobID),
	)
	return nil
}
