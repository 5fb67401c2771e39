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

// ListCandidates handles GET /api/v1/candidates
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	h.logger.Info("ListCandidates called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListCandidatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid query parameters")
		return
	}

	page, err := h.storage.ListCandidates(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.respondError(c, err, "Failed to list candidates")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetCandidate handles GET /api/v1/candidates/:candidate_id
// Returns the candidate with notes and timeline
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	candidateID := c.Param("candidate_id")

	h.logger.Info("GetCandidate called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("candidate_id", candidateID),
	)

	candidate, err := h.storage.GetCandidate(c.Request.Context(), candidateID)
	if err != nil {
		h.respondError(c, err, "Failed to get candidate")
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// CreateCandidate handles POST /api/v1/candidates
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	h.logger.Info("CreateCandidate called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return
	}

	candidate, err := h.storage.CreateCandidate(c.Request.Context(), req.ToInput())
	if err != nil {
		h.respondError(c, err, "Failed to create candidate")
		return
	}

	evt := events.New(events.TypeCandidateCreated,
		fmt.Sprintf("%s applied", candidate.Name), candidate.Timeline[0].CreatedBy)
	evt.JobID = candidate.JobID
	evt.CandidateID = candidate.ID
	h.publish(c.Request.Context(), evt)

	c.JSON(http.StatusCreated, candidate)
}

// UpdateStage handles PATCH /api/v1/candidates/:candidate_id/stage
// Moves the candidate and appends the transition to the timeline atomically.
// Responds 409 when previous_stage no longer matches the stored stage.
func (h *CandidateHandler) UpdateStage(c *gin.Context) {
	candidateID := c.Param("candidate_id")

	h.logger.Info("UpdateStage called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("candidate_id", candidateID),
	)

	var req dto.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return
	}

	change := req.ToChange(candidateID)
	candidate, err := h.storage.UpdateCandidateStage(c.Request.Context(), change)
	if err != nil {
		h.respondError(c, err, "Failed to update candidate stage")
		return
	}

	last := candidate.Timeline[len(candidate.Timeline)-1]
	evt := events.New(events.TypeCandidateStageMoved,
		fmt.Sprintf("%s: %s", candidate.Name, change.TimelineMessage()), last.CreatedBy)
	evt.JobID = candidate.JobID
	evt.CandidateID = candidate.ID
	h.publish(c.Request.Context(), evt)

	c.JSON(http.StatusOK, candidate)
}

// AddNote handles POST /api/v1/candidates/:candidate_id/notes
func (h *CandidateHandler) AddNote(c *gin.Context) {
	candidateID := c.Param("candidate_id")

	h.logger.Info("AddNote called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("candidate_id", candidateID),
	)

	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid request body")
		return
	}

	candidate, err := h.storage.AddNote(c.Request.Context(), candidateID, req.ToInput())
	if err != nil {
		h.respondError(c, err, "Failed to add note")
		return
	}

	actor := domain.DefaultActor
	if n := len(candidate.Notes); n > 0 {
		actor = candidate.Notes[n-1].CreatedBy
	}
	evt := events.New(events.TypeCandidateNoteAdded, fmt.Sprintf("Note added to %s", candidate.Name), actor)
	evt.JobID = candidate.JobID
	evt.CandidateID = candidate.ID
	h.publish(c.Request.Context(), evt)

	c.JSON(http.StatusCreated, candidate)
}
