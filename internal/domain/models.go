package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Job is a job posting. Order is the client-visible position in the jobs list.
type Job struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Location    string     `json:"location" db:"location"`
	Type        string     `json:"type" db:"job_type"`
	Department  string     `json:"department" db:"department"`
	Tags        StringList `json:"tags" db:"tags"`
	Status      JobStatus  `json:"status" db:"status"`
	Order       int        `json:"order" db:"sort_order"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Candidate is an applicant for a job. Notes and Timeline are append-only.
type Candidate struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Email      string          `json:"email" db:"email"`
	Phone      string          `json:"phone" db:"phone"`
	Location   string          `json:"location" db:"location"`
	Experience string          `json:"experience" db:"experience"`
	Skills     StringList      `json:"skills" db:"skills"`
	Stage      Stage           `json:"stage" db:"stage"`
	JobID      string          `json:"job_id" db:"job_id"`
	Notes      []Note          `json:"notes" db:"-"`
	Timeline   []TimelineEvent `json:"timeline" db:"-"`
	AppliedAt  time.Time       `json:"applied_at" db:"applied_at"`
}

// Note is a free-text remark attached to a candidate.
type Note struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Timeline event types besides the stage names.
const (
	TimelineNoteAdded = "note_added"
)

// TimelineEvent is an audit entry on a candidate. Type is the new stage for
// stage changes, or TimelineNoteAdded.
type TimelineEvent struct {
	ID        string    `json:"id" db:"id"`
	Type      string    `json:"type" db:"event_type"`
	Message   string    `json:"message" db:"message"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ActivityEntry is one row of the cross-candidate pipeline activity feed.
type ActivityEntry struct {
	EventID     string    `json:"event_id" db:"event_id"`
	Type        string    `json:"type" db:"event_type"`
	CandidateID string    `json:"candidate_id,omitempty" db:"candidate_id"`
	JobID       string    `json:"job_id,omitempty" db:"job_id"`
	Message     string    `json:"message" db:"message"`
	Actor       string    `json:"actor" db:"actor"`
	OccurredAt  time.Time `json:"occurred_at" db:"occurred_at"`
}

// StringList is a list column stored as JSON text, portable across
// PostgreSQL and SQLite.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	*l = out
	return nil
}

// ParseTags splits a comma-separated tag field, trimming blanks.
func ParseTags(raw string) StringList {
	tags := StringList{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
