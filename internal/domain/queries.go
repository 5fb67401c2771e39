package domain

import "strings"

// DefaultActor is recorded as the author when a request names none.
const DefaultActor = "HR Team"

// Default and maximum page sizes for list queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// JobQuery filters the jobs list. Empty Status means all.
type JobQuery struct {
	Search string
	Status JobStatus
	Page   Page
}

// JobPage is one page of jobs ordered by Order.
type JobPage struct {
	Jobs     []Job `json:"jobs"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// JobInput carries the fields of a new job.
type JobInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Type        string     `json:"type"`
	Department  string     `json:"department"`
	Tags        StringList `json:"tags"`
	Status      JobStatus  `json:"status"`
}

// Validate checks required fields and defaults the status to active.
func (in *JobInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return NewValidationError("title", "Job title is required.")
	}
	if in.Status == "" {
		in.Status = JobStatusActive
	}
	if !in.Status.Valid() {
		return NewValidationError("status", "must be one of active, draft, archived")
	}
	return nil
}

// JobPatch is a partial job update; nil fields are left unchanged.
type JobPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Location    *string     `json:"location,omitempty"`
	Type        *string     `json:"type,omitempty"`
	Department  *string     `json:"department,omitempty"`
	Tags        *StringList `json:"tags,omitempty"`
	Status      *JobStatus  `json:"status,omitempty"`
}

// Validate rejects a blank title or an unknown status.
func (p *JobPatch) Validate() error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return NewValidationError("title", "Job title is required.")
		}
		p.Title = &title
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status", "must be one of active, draft, archived")
	}
	return nil
}

// Apply copies the set fields onto job.
func (p JobPatch) Apply(job *Job) {
	if p.Title != nil {
		job.Title = *p.Title
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.Location != nil {
		job.Location = *p.Location
	}
	if p.Type != nil {
		job.Type = *p.Type
	}
	if p.Department != nil {
		job.Department = *p.Department
	}
	if p.Tags != nil {
		job.Tags = append(StringList{}, (*p.Tags)...)
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
}

// CandidateQuery filters the candidates list. Empty Stage/JobID mean all.
type CandidateQuery struct {
	Search string
	Stage  Stage
	JobID  string
	Page   Page
}

// CandidatePage is one page of candidates.
type CandidatePage struct {
	Candidates []Candidate `json:"candidates"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// CandidateInput carries the fields of a new applicant.
type CandidateInput struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Location   string     `json:"location"`
	Experience string     `json:"experience"`
	Skills     StringList `json:"skills"`
	JobID      string     `json:"job_id"`
	CreatedBy  string     `json:"created_by"`
}

// Validate checks required fields.
func (in *CandidateInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return NewValidationError("name", "Candidate name is required.")
	}
	if in.Email == "" {
		return NewValidationError("email", "Candidate email is required.")
	}
	if in.JobID == "" {
		return NewValidationError("job_id", "Job is required.")
	}
	return nil
}

// StageChange moves a candidate between pipeline stages and records the
// transition on the timeline in the same update.
type StageChange struct {
	CandidateID        string `json:"candidate_id"`
	CandidateName      string `json:"candidate_name,omitempty"`
	PreviousStage      Stage  `json:"previous_stage"`
	NewStage           Stage  `json:"new_stage"`
	PreviousStageTitle string `json:"previous_stage_title"`
	NewStageTitle      string `json:"new_stage_title"`
	CreatedBy          string `json:"created_by,omitempty"`
}

// Validate rejects unknown stages and no-op moves.
func (c StageChange) Validate() error {
	if !c.PreviousStage.Valid() {
		return NewValidationError("previous_stage", ErrInvalidStage.Error())
	}
	if !c.NewStage.Valid() {
		return NewValidationError("new_stage", ErrInvalidStage.Error())
	}
	if c.PreviousStage == c.NewStage {
		return NewValidationError("new_stage", "must differ from previous_stage")
	}
	return nil
}

// TimelineMessage is the timeline text for the move, using the supplied
// stage titles when present.
func (c StageChange) TimelineMessage() string {
	from, to := c.PreviousStageTitle, c.NewStageTitle
	if from == "" {
		from = c.PreviousStage.Label()
	}
	if to == "" {
		to = c.NewStage.Label()
	}
	return "Moved from " + from + " to " + to
}

// NoteInput carries a new note.
type NoteInput struct {
	Content   string `json:"content"`
	CreatedBy string `json:"created_by"`
}

// Validate rejects blank content.
func (in *NoteInput) Validate() error {
	if strings.TrimSpace(in.Content) == "" {
		return NewValidationError("content", "Note content is required.")
	}
	return nil
}
