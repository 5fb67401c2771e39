package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const jobColumns = `id, title, description, location, job_type, department, tags, status, sort_order, created_at`

// ListJobs returns one page of jobs in list order.
func (s *Storage) ListJobs(ctx context.Context, q domain.JobQuery) (domain.JobPage, error) {
	page := q.Page.Normalize()

	where := " WHERE 1=1"
	args := []any{}

	if q.Status != "" {
		where += " AND status = ?"
		args = append(args, q.Status)
	}

	if strings.TrimSpace(q.Search) != "" {
		pattern := likePattern(q.Search)
		where += " AND (LOWER(title) LIKE ? OR LOWER(department) LIKE ? OR LOWER(location) LIKE ? OR LOWER(tags) LIKE ?)"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM jobs"+where), args...); err != nil {
		return domain.JobPage{}, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := "SELECT " + jobColumns + " FROM jobs" + where +
		" ORDER BY sort_order ASC, created_at ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, page.Size, page.Offset())

	jobs := []domain.Job{}
	if err := s.db.SelectContext(ctx, &jobs, s.db.Rebind(query), args...); err != nil {
		return domain.JobPage{}, fmt.Errorf("failed to list jobs: %w", err)
	}

	return domain.JobPage{
		Jobs:     jobs,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

// GetJob returns a job by id.
func (s *Storage) GetJob(ctx context.Context, id string) (domain.Job, error) {
	return getJob(ctx, s.db, id)
}

func getJob(ctx context.Context, q queryer, id string) (domain.Job, error) {
	var job domain.Job
	query := q.Rebind("SELECT " + jobColumns + " FROM jobs WHERE id = ?")
	if err := sqlx.GetContext(ctx, q, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Job{}, domain.ErrJobNotFound
		}
		return domain.Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// CreateJob inserts a job at the end of the list.
func (s *Storage) CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error) {
	if err := in.Validate(); err != nil {
		return domain.Job{}, err
	}

	job := domain.Job{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Type:        in.Type,
		Department:  in.Department,
		Tags:        in.Tags,
		Status:      in.Status,
		CreatedAt:   s.now(),
	}
	if job.Tags == nil {
		job.Tags = domain.StringList{}
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if stmt := jobOrderLock(s.db.DriverName()); stmt != "" {
			if _, err := tx.ExecContext(ctx, stmt, jobOrderLockKey); err != nil {
				return fmt.Errorf("failed to lock job order: %w", err)
			}
		}

		var maxOrder int
		if err := tx.GetContext(ctx, &maxOrder, "SELECT COALESCE(MAX(sort_order), -1) FROM jobs"); err != nil {
			return fmt.Errorf("failed to read job order: %w", err)
		}
		job.Order = maxOrder + 1

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO jobs (`+jobColumns+`)
			VALUES (:id, :title, :description, :location, :job_type, :department, :tags, :status, :sort_order, :created_at)
		`, job)
		if err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Job{}, err
	}

	return job, nil
}

// jobOrderLockKey names the advisory lock that serializes order assignment.
const jobOrderLockKey = 7301

// jobOrderLock returns the statement that serializes concurrent creates
// between reading MAX(sort_order) and inserting. SQLite already runs one
// writer at a time.
func jobOrderLock(driver string) string {
	if driver == "postgres" {
		return "SELECT pg_advisory_xact_lock($1)"
	}
	return ""
}

// UpdateJob applies a partial update.
func (s *Storage) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	if err := patch.Validate(); err != nil {
		return domain.Job{}, err
	}

	var job domain.Job
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		job, err = getJob(ctx, tx, id)
		if err != nil {
			return err
		}

		patch.Apply(&job)

		_, err = tx.NamedExecContext(ctx, `
			UPDATE jobs
			SET title = :title,
			    description = :description,
			    location = :location,
			    job_type = :job_type,
			    department = :department,
			    tags = :tags,
			    status = :status
			WHERE id = :id
		`, job)
		if err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Job{}, err
	}

	return job, nil
}

// DeleteJob removes a job and, through the foreign key, its candidates.
func (s *Storage) DeleteJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM jobs WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// ReorderJobs persists a new order for the given ids. The ids keep the set
// of order slots they occupied before, so reordering one page of a filtered
// list never collides with jobs outside it.
func (s *Storage) ReorderJobs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no job ids given", domain.ErrInvalidOrder)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate job id %s", domain.ErrInvalidOrder, id)
		}
		seen[id] = struct{}{}
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sqlx.In("SELECT id, sort_order FROM jobs WHERE id IN (?)", ids)
		if err != nil {
			return fmt.Errorf("failed to build reorder query: %w", err)
		}

		var current []struct {
			ID    string `db:"id"`
			Order int    `db:"sort_order"`
		}
		if err := tx.SelectContext(ctx, &current, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to load job order: %w", err)
		}
		if len(current) != len(ids) {
			return fmt.Errorf("%w: %d of %d job ids exist", domain.ErrInvalidOrder, len(current), len(ids))
		}

		slots := make([]int, len(current))
		for i, row := range current {
			slots[i] = row.Order
		}
		sort.Ints(slots)

		update := tx.Rebind("UPDATE jobs SET sort_order = ? WHERE id = ?")
		for i, id := range ids {
			if _, err := tx.ExecContext(ctx, update, slots[i], id); err != nil {
				return fmt.Errorf("failed to reorder job %s: %w", id, err)
			}
		}
		return nil
	})
}
