package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/hireboard/internal/api/dto"
	"github.com/cuongbtq/hireboard/internal/api/storage"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/gin-gonic/gin"
)

// ListActivity handles GET /api/v1/activity
// Lists pipeline activity newest first with keyset pagination
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	h.logger.Info("ListActivity called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid query parameters")
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = domain.DefaultPageSize
	}

	cursor, err := DecodeActivityCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	h.logger.Debug("Decoded cursor", slog.Any("cursor", cursor))

	entries, err := h.storage.ListActivity(c.Request.Context(), storage.ActivityFilter{
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		h.respondError(c, err, "Failed to list activity")
		return
	}

	// one extra row signals another page
	hasMore := len(entries) > req.PageSize
	if hasMore {
		entries = entries[:req.PageSize]
	}

	var nextCursor string
	if hasMore {
		last := entries[len(entries)-1]
		nextCursor = EncodeActivityCursor(&storage.ActivityCursor{
			OccurredAt: last.OccurredAt,
			EventID:    last.EventID,
		})
	}

	c.JSON(http.StatusOK, dto.ListActivityResponse{
		Entries:    entries,
		NextCursor: nextCursor,
	})
}
