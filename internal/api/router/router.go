package router

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/hireboard/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if err := deps.Storage.Ping(c.Request.Context()); err != nil {
			deps.Logger.Error("Health check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "hireboard-api",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "hireboard-api",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	candidateHandler := handler.NewCandidateHandler(deps)
	activityHandler := handler.NewActivityHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			// GET /api/v1/jobs - List jobs in board order
			jobs.GET("", jobHandler.ListJobs)

			// POST /api/v1/jobs - Create a job
			jobs.POST("", jobHandler.CreateJob)

			// PUT /api/v1/jobs/order - Persist a new job order
			jobs.PUT("/order", jobHandler.ReorderJobs)

			// GET /api/v1/jobs/:job_id - Get job details
			jobs.GET("/:job_id", jobHandler.GetJob)

			// PATCH /api/v1/jobs/:job_id - Update or archive a job
			jobs.PATCH("/:job_id", jobHandler.UpdateJob)

			// DELETE /api/v1/jobs/:job_id - Delete a job
			jobs.DELETE("/:job_id", jobHandler.DeleteJob)
		}

		candidates := v1.Group("/candidates")
		{
			// GET /api/v1/candidates - List candidates
			candidates.GET("", candidateHandler.ListCandidates)

			// POST /api/v1/candidates - Add an applicant
			candidates.POST("", candidateHandler.CreateCandidate)

			// GET /api/v1/candidates/:candidate_id - Candidate with notes and timeline
			candidates.GET("/:candidate_id", candidateHandler.GetCandidate)

			// PATCH /api/v1/candidates/:candidate_id/stage - Move between stages
			candidates.PATCH("/:candidate_id/stage", candidateHandler.UpdateStage)

			// POST /api/v1/candidates/:candidate_id/notes - Add a note
			candidates.POST("/:candidate_id/notes", candidateHandler.AddNote)
		}

		// GET /api/v1/activity - Pipeline activity feed
		v1.GET("/activity", activityHandler.ListActivity)
	}

	return r
}
