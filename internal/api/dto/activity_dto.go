package dto

import "github.com/cuongbtq/hireboard/internal/domain"

// ListActivityRequest binds GET /api/v1/activity query parameters
type ListActivityRequest struct {
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Cursor   string `form:"cursor"`
}

// ListActivityResponse is one page of the activity feed
type ListActivityResponse struct {
	Entries    []domain.ActivityEntry `json:"entries"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}
