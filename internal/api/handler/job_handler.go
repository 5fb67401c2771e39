package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/hireboard/internal/api/dto"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/cuongbtq/hireboard/internal/events"
	"github.com/gin-gonic/gin"
)

// ListJobs handles GET /api/v1/jobs
// Lists jobs in board order with optional search, status filter and paging
func (h *JobHandler) ListJobs(c *gin.Context) {
	h.logger.Info("ListJobs called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid query parameters")
		return
	}

	page, err := h.storage.ListJobs(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.respondError(c, err, "Failed to list jobs")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("GetJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	job, err := h.storage.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// CreateJob handles POST /api/v1/jobs
// Creates a job at the end of the list
func (h *JobHandler) CreateJob(c *gin.Context) {
	h.logger.Info("CreateJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return
	}

	job, err := h.storage.CreateJob(c.Request.Context(), req.ToInput())
	if err != nil {
		h.respondError(c, err, "Failed to create job")
		return
	}

	evt := events.New(events.TypeJobCreated, fmt.Sprintf("Job %q created", job.Title), domain.DefaultActor)
	evt.JobID = job.ID
	h.publish(c.Request.Context(), evt)

	c.JSON(http.StatusCreated, job)
}

// UpdateJob handles PATCH /api/v1/jobs/:job_id
// Applies a partial update; archiving is a status change
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("UpdateJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return
	}

	job, err := h.storage.UpdateJob(c.Request.Context(), jobID, req.ToPatch())
	if err != nil {
		h.respondError(c, err, "Failed to update job")
		return
	}

	evt := events.New(events.TypeJobUpdated, fmt.Sprintf("Job %q updated (%s)", job.Title, job.Status), domain.DefaultActor)
	evt.JobID = job.ID
	h.publish(c.Request.Context(), evt)

	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /api/v1/jobs/:job_id
// Deletes the job together with its candidates
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("DeleteJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	if err := h.storage.DeleteJob(c.Request.Context(), jobID); err != nil {
		h.respondError(c, err, "Failed to delete job")
		return
	}

	evt := events.New(events.TypeJobDeleted, "Job deleted", domain.DefaultActor)
	evt.JobID = jobID
	h.publish(c.Request.Context(), evt)

	c.Status(http.StatusNoContent)
}

// ReorderJobs handles PUT /api/v1/jobs/order
// Persists a new order for the submitted job ids in one transaction
func (h *JobHandler) ReorderJobs(c *gin.Context) {
	h.logger.Info("ReorderJobs called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.ReorderJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return
	}

	if err := h.storage.ReorderJobs(c.Request.Context(), req.IDs); err != nil {
		h.respondError(c, err, "Failed to reorder jobs")
		return
	}

	h.publish(c.Request.Context(), events.New(events.TypeJobsReordered,
		fmt.Sprintf("%d jobs reordered", len(req.IDs)), domain.DefaultActor))

	c.JSON(http.StatusOK, gin.H{"ids": req.IDs})
}
