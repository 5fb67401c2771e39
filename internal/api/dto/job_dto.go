package dto

import "github.com/cuongbtq/hireboard/internal/domain"

// ListJobsRequest binds GET /api/v1/jobs query parameters
type ListJobsRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active draft archived"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToQuery converts the request into a storage query
func (r ListJobsRequest) ToQuery() domain.JobQuery {
	return domain.JobQuery{
		Search: r.Search,
		Status: domain.JobStatus(r.Status),
		Page:   domain.Page{Number: r.Page, Size: r.PageSize},
	}
}

// CreateJobRequest is the body of POST /api/v1/jobs. Title is checked by the
// domain so the client sees the same message it shows locally.
type CreateJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Department  string   `json:"department"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status" binding:"omitempty,oneof=active draft archived"`
}

// ToInput converts the request into a domain input
func (r CreateJobRequest) ToInput() domain.JobInput {
	return domain.JobInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Type:        r.Type,
		Department:  r.Department,
		Tags:        domain.StringList(r.Tags),
		Status:      domain.JobStatus(r.Status),
	}
}

// UpdateJobRequest is the body of PATCH /api/v1/jobs/:job_id
type UpdateJobRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Type        *string   `json:"type"`
	Department  *string   `json:"department"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status" binding:"omitempty,oneof=active draft archived"`
}

// ToPatch converts the request into a domain patch
func (r UpdateJobRequest) ToPatch() domain.JobPatch {
	patch := domain.JobPatch{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Type:        r.Type,
		Department:  r.Department,
	}
	if r.Tags != nil {
		tags := domain.StringList(*r.Tags)
		patch.Tags = &tags
	}
	if r.Status != nil {
		status := domain.JobStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// ReorderJobsRequest is the body of PUT /api/v1/jobs/order
type ReorderJobsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
