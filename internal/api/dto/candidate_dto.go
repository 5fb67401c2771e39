package dto

import "github.com/cuongbtq/hireboard/internal/domain"

// ListCandidatesRequest binds GET /api/v1/candidates query parameters
type ListCandidatesRequest struct {
	Search   string `form:"search"`
	Stage    string `form:"stage" binding:"omitempty,oneof=applied screen tech offer hired rejected"`
	JobID    string `form:"job_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToQuery converts the request into a storage query
func (r ListCandidatesRequest) ToQuery() domain.CandidateQuery {
	return domain.CandidateQuery{
		Search: r.Search,
		Stage:  domain.Stage(r.Stage),
		JobID:  r.JobID,
		Page:   domain.Page{Number: r.Page, Size: r.PageSize},
	}
}

// CreateCandidateRequest is the body of POST /api/v1/candidates
type CreateCandidateRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Phone      string   `json:"phone"`
	Location   string   `json:"location"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	JobID      string   `json:"job_id" binding:"required"`
	CreatedBy  string   `json:"created_by"`
}

// ToInput converts the request into a domain input
func (r CreateCandidateRequest) ToInput() domain.CandidateInput {
	return domain.CandidateInput{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Location:   r.Location,
		Experience: r.Experience,
		Skills:     domain.StringList(r.Skills),
		JobID:      r.JobID,
		CreatedBy:  r.CreatedBy,
	}
}

// UpdateStageRequest is the body of PATCH /api/v1/candidates/:candidate_id/stage
type UpdateStageRequest struct {
	PreviousStage      string `json:"previous_stage" binding:"required,oneof=applied screen tech offer hired rejected"`
	NewStage           string `json:"new_stage" binding:"required,oneof=applied screen tech offer hired rejected,nefield=PreviousStage"`
	PreviousStageTitle string `json:"previous_stage_title"`
	NewStageTitle      string `json:"new_stage_title"`
	CandidateName      string `json:"candidate_name"`
	CreatedBy          string `json:"created_by"`
}

// ToChange converts the request into a domain stage change
func (r UpdateStageRequest) ToChange(candidateID string) domain.StageChange {
	return domain.StageChange{
		CandidateID:        candidateID,
		CandidateName:      r.CandidateName,
		PreviousStage:      domain.Stage(r.PreviousStage),
		NewStage:           domain.Stage(r.NewStage),
		PreviousStageTitle: r.PreviousStageTitle,
		NewStageTitle:      r.NewStageTitle,
		CreatedBy:          r.CreatedBy,
	}
}

// AddNoteRequest is the body of POST /api/v1/candidates/:candidate_id/notes
type AddNoteRequest struct {
	Content   string `json:"content" binding:"required"`
	CreatedBy string `json:"created_by"`
}

// ToInput converts the request into a domain input
func (r AddNoteRequest) ToInput() domain.NoteInput {
	return domain.NoteInput{Content: r.Content, CreatedBy: r.CreatedBy}
}
