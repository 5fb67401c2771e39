package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/hireboard/internal/events"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// InsertActivity projects a pipeline event into the activity feed. Redelivered
// events are ignored; inserted reports whether a row was written.
func (s *Storage) InsertActivity(ctx context.Context, evt events.PipelineEvent) (inserted bool, err error) {
	query := s.db.Rebind(`
		INSERT INTO pipeline_activity (event_id, event_type, candidate_id, job_id, message, actor, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING
	`)

	res, err := s.db.ExecContext(ctx, query,
		evt.ID,
		evt.Type,
		evt.CandidateID,
		evt.JobID,
		evt.Message,
		evt.Actor,
		evt.OccurredAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert activity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert activity: %w", err)
	}

	return n > 0, nil
}
