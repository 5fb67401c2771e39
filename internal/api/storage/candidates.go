package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const candidateColumns = `id, name, email, phone, location, experience, skills, stage, job_id, applied_at`

// ListCandidates returns one page of candidates, newest applications first.
// Notes and timelines are not loaded.
func (s *Storage) ListCandidates(ctx context.Context, q domain.CandidateQuery) (domain.CandidatePage, error) {
	page := q.Page.Normalize()

	where := " WHERE 1=1"
	args := []any{}

	if q.Stage != "" {
		where += " AND stage = ?"
		args = append(args, q.Stage)
	}
	if q.JobID != "" {
		where += " AND job_id = ?"
		args = append(args, q.JobID)
	}
	if strings.TrimSpace(q.Search) != "" {
		pattern := likePattern(q.Search)
		where += " AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(skills) LIKE ?)"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM candidates"+where), args...); err != nil {
		return domain.CandidatePage{}, fmt.Errorf("failed to count candidates: %w", err)
	}

	query := "SELECT " + candidateColumns + " FROM candidates" + where +
		" ORDER BY applied_at DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, page.Size, page.Offset())

	candidates := []domain.Candidate{}
	if err := s.db.SelectContext(ctx, &candidates, s.db.Rebind(query), args...); err != nil {
		return domain.CandidatePage{}, fmt.Errorf("failed to list candidates: %w", err)
	}
	for i := range candidates {
		candidates[i].Notes = []domain.Note{}
		candidates[i].Timeline = []domain.TimelineEvent{}
	}

	return domain.CandidatePage{
		Candidates: candidates,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
	}, nil
}

// GetCandidate returns a candidate with its notes and timeline, oldest first.
func (s *Storage) GetCandidate(ctx context.Context, id string) (domain.Candidate, error) {
	var c domain.Candidate
	query := s.db.Rebind("SELECT " + candidateColumns + " FROM candidates WHERE id = ?")
	if err := s.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Candidate{}, domain.ErrCandidateNotFound
		}
		return domain.Candidate{}, fmt.Errorf("failed to get candidate: %w", err)
	}

	c.Notes = []domain.Note{}
	if err := s.db.SelectContext(ctx, &c.Notes, s.db.Rebind(`
		SELECT id, content, created_by, created_at
		FROM candidate_notes
		WHERE candidate_id = ?
		ORDER BY created_at ASC, id ASC
	`), id); err != nil {
		return domain.Candidate{}, fmt.Errorf("failed to load candidate notes: %w", err)
	}

	c.Timeline = []domain.TimelineEvent{}
	if err := s.db.SelectContext(ctx, &c.Timeline, s.db.Rebind(`
		SELECT id, event_type, message, created_by, created_at
		FROM candidate_timeline
		WHERE candidate_id = ?
		ORDER BY created_at ASC, id ASC
	`), id); err != nil {
		return domain.Candidate{}, fmt.Errorf("failed to load candidate timeline: %w", err)
	}

	return c, nil
}

// CreateCandidate adds an applicant in the applied stage and opens their
// timeline.
func (s *Storage) CreateCandidate(ctx context.Context, in domain.CandidateInput) (domain.Candidate, error) {
	if err := in.Validate(); err != nil {
		return domain.Candidate{}, err
	}

	now := s.now()
	c := domain.Candidate{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Location:   in.Location,
		Experience: in.Experience,
		Skills:     in.Skills,
		Stage:      domain.StageApplied,
		JobID:      in.JobID,
		Notes:      []domain.Note{},
		AppliedAt:  now,
	}
	if c.Skills == nil {
		c.Skills = domain.StringList{}
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		job, err := getJob(ctx, tx, in.JobID)
		if err != nil {
			return err
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO candidates (`+candidateColumns+`)
			VALUES (:id, :name, :email, :phone, :location, :experience, :skills, :stage, :job_id, :applied_at)
		`, c)
		if err != nil {
			return fmt.Errorf("failed to create candidate: %w", err)
		}

		event := domain.TimelineEvent{
			ID:        uuid.NewString(),
			Type:      string(domain.StageApplied),
			Message:   "Applied for " + job.Title,
			CreatedBy: actorOrDefault(in.CreatedBy),
			CreatedAt: now,
		}
		if err := insertTimelineEvent(ctx, tx, c.ID, event); err != nil {
			return err
		}
		c.Timeline = []domain.TimelineEvent{event}
		return nil
	})
	if err != nil {
		return domain.Candidate{}, err
	}

	return c, nil
}

// UpdateCandidateStage moves a candidate and appends the transition to the
// timeline in one transaction. The move only applies while the stored stage
// still equals change.PreviousStage; otherwise ErrStageConflict is returned.
func (s *Storage) UpdateCandidateStage(ctx context.Context, change domain.StageChange) (domain.Candidate, error) {
	if err := change.Validate(); err != nil {
		return domain.Candidate{}, err
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE candidates SET stage = ? WHERE id = ? AND stage = ?"),
			change.NewStage, change.CandidateID, change.PreviousStage,
		)
		if err != nil {
			return fmt.Errorf("failed to update candidate stage: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update candidate stage: %w", err)
		}
		if n == 0 {
			exists, err := candidateExists(ctx, tx, change.CandidateID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.ErrCandidateNotFound
			}
			return domain.ErrStageConflict
		}

		return insertTimelineEvent(ctx, tx, change.CandidateID, domain.TimelineEvent{
			ID:        uuid.NewString(),
			Type:      string(change.NewStage),
			Message:   change.TimelineMessage(),
			CreatedBy: actorOrDefault(change.CreatedBy),
			CreatedAt: s.now(),
		})
	})
	if err != nil {
		return domain.Candidate{}, err
	}

	return s.GetCandidate(ctx, change.CandidateID)
}

// AddNote appends a note and a note_added timeline event.
func (s *Storage) AddNote(ctx context.Context, candidateID string, in domain.NoteInput) (domain.Candidate, error) {
	if err := in.Validate(); err != nil {
		return domain.Candidate{}, err
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := candidateExists(ctx, tx, candidateID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrCandidateNotFound
		}

		now := s.now()
		actor := actorOrDefault(in.CreatedBy)
		note := domain.Note{
			ID:        uuid.NewString(),
			Content:   strings.TrimSpace(in.Content),
			CreatedBy: actor,
			CreatedAt: now,
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO candidate_notes (id, candidate_id, content, created_by, created_at)
			VALUES (?, ?, ?, ?, ?)
		`), note.ID, candidateID, note.Content, note.CreatedBy, note.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}

		return insertTimelineEvent(ctx, tx, candidateID, domain.TimelineEvent{
			ID:        uuid.NewString(),
			Type:      domain.TimelineNoteAdded,
			Message:   "Note added",
			CreatedBy: actor,
			CreatedAt: now,
		})
	})
	if err != nil {
		return domain.Candidate{}, err
	}

	return s.GetCandidate(ctx, candidateID)
}

func candidateExists(ctx context.Context, q queryer, id string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind("SELECT COUNT(*) FROM candidates WHERE id = ?"), id); err != nil {
		return false, fmt.Errorf("failed to check candidate: %w", err)
	}
	return n > 0, nil
}

func insertTimelineEvent(ctx context.Context, q queryer, candidateID string, e domain.TimelineEvent) error {
	_, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO candidate_timeline (id, candidate_id, event_type, message, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), e.ID, candidateID, e.Type, e.Message, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append timeline event: %w", err)
	}
	return nil
}

func actorOrDefault(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return domain.DefaultActor
	}
	return actor
}
