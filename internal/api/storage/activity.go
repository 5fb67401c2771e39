package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cuongbtq/hireboard/internal/domain"
)

// ActivityFilter selects one keyset page of the activity feed.
type ActivityFilter struct {
	PageSize int
	Cursor   *ActivityCursor
}

// ActivityCursor points at the last entry of the previous page.
type ActivityCursor struct {
	OccurredAt time.Time
	EventID    string
}

// ListActivity returns entries newest first. It fetches one row more than
// PageSize so the caller can tell whether another page exists.
func (s *Storage) ListActivity(ctx context.Context, filter ActivityFilter) ([]domain.ActivityEntry, error) {
	query := `
		SELECT event_id, event_type, candidate_id, job_id, message, actor, occurred_at
		FROM pipeline_activity
		WHERE 1=1
	`
	args := []any{}

	if filter.Cursor != nil {
		query += " AND (occurred_at < ? OR (occurred_at = ? AND event_id < ?))"
		at := filter.Cursor.OccurredAt.UTC()
		args = append(args, at, at, filter.Cursor.EventID)
	}

	// Order by occurred_at DESC, event_id DESC for consistent pagination
	query += " ORDER BY occurred_at DESC, event_id DESC LIMIT ?"
	args = append(args, filter.PageSize+1)

	entries := []domain.ActivityEntry{}
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return entries, nil
}
