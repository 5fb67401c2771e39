package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Storage is the sqlx-backed source of truth for jobs, candidates and the
// activity feed. Queries are written with '?' placeholders and rebound for
// the connected driver.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		job_type    TEXT NOT NULL DEFAULT '',
		department  TEXT NOT NULL DEFAULT '',
		tags        TEXT NOT NULL DEFAULT '[]',
		status      TEXT NOT NULL,
		sort_order  INTEGER NOT NULL,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_sort_order ON jobs (sort_order)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		location   TEXT NOT NULL DEFAULT '',
		experience TEXT NOT NULL DEFAULT '',
		skills     TEXT NOT NULL DEFAULT '[]',
		stage      TEXT NOT NULL,
		job_id     TEXT NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
		applied_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_job_stage ON candidates (job_id, stage)`,
	`CREATE TABLE IF NOT EXISTS candidate_notes (
		id           TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL REFERENCES candidates (id) ON DELETE CASCADE,
		content      TEXT NOT NULL,
		created_by   TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_timeline (
		id           TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL REFERENCES candidates (id) ON DELETE CASCADE,
		event_type   TEXT NOT NULL,
		message      TEXT NOT NULL,
		created_by   TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pipeline_activity (
		event_id     TEXT PRIMARY KEY,
		event_type   TEXT NOT NULL,
		candidate_id TEXT NOT NULL DEFAULT '',
		job_id       TEXT NOT NULL DEFAULT '',
		message      TEXT NOT NULL,
		actor        TEXT NOT NULL,
		occurred_at  TIMESTAMP NOT NULL
	)`,
}

// Migrate creates the tables if they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	s.logger.Info("Database schema ready", slog.String("driver", s.db.DriverName()))
	return nil
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var result int
	if err := s.db.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

// inTx runs fn inside a transaction, rolling back unless fn succeeds.
func (s *Storage) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
