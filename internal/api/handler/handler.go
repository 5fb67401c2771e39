package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/hireboard/internal/api/storage"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/cuongbtq/hireboard/internal/events"
	"github.com/gin-gonic/gin"
)

// Store is the persistence the handlers need; *storage.Storage implements it.
type Store interface {
	ListJobs(ctx context.Context, q domain.JobQuery) (domain.JobPage, error)
	GetJob(ctx context.Context, id string) (domain.Job, error)
	CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	ReorderJobs(ctx context.Context, ids []string) error

	ListCandidates(ctx context.Context, q domain.CandidateQuery) (domain.CandidatePage, error)
	GetCandidate(ctx context.Context, id string) (domain.Candidate, error)
	CreateCandidate(ctx context.Context, in domain.CandidateInput) (domain.Candidate, error)
	UpdateCandidateStage(ctx context.Context, change domain.StageChange) (domain.Candidate, error)
	AddNote(ctx context.Context, candidateID string, in domain.NoteInput) (domain.Candidate, error)

	ListActivity(ctx context.Context, filter storage.ActivityFilter) ([]domain.ActivityEntry, error)
	Ping(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Storage   Store
	Publisher events.Publisher
}

// base carries what every handler shares
type base struct {
	logger    *slog.Logger
	storage   Store
	publisher events.Publisher
}

func newBase(deps *Dependencies) base {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return base{
		logger:    deps.Logger,
		storage:   deps.Storage,
		publisher: publisher,
	}
}

// publish sends a pipeline event. Failures are logged and never fail the
// request: the database write has already committed.
func (b base) publish(ctx context.Context, evt events.PipelineEvent) {
	if err := b.publisher.Publish(ctx, evt); err != nil {
		b.logger.Warn("Failed to publish pipeline event",
			slog.String("event_id", evt.ID),
			slog.String("type", evt.Type),
			slog.String("error", err.Error()),
		)
	}
}

// respondError maps domain errors to status codes. Anything unrecognised is
// logged and reported as fallback with a 500.
func (b base) respondError(c *gin.Context, err error, fallback string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ve.Message,
			"field": ve.Field,
		})
	case errors.Is(err, domain.ErrJobNotFound), errors.Is(err, domain.ErrCandidateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStageConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		b.logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (b base) bindError(c *gin.Context, err error, msg string) {
	b.logger.Error(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// JobHandler handles job-related HTTP requests
type JobHandler struct{ base }

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{base: newBase(deps)}
}

// CandidateHandler handles candidate-related HTTP requests
type CandidateHandler struct{ base }

// NewCandidateHandler creates a new CandidateHandler instance
func NewCandidateHandler(deps *Dependencies) *CandidateHandler {
	return &CandidateHandler{base: newBase(deps)}
}

// ActivityHandler serves the pipeline activity feed
type ActivityHandler struct{ base }

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(deps *Dependencies) *ActivityHandler {
	return &ActivityHandler{base: newBase(deps)}
}
