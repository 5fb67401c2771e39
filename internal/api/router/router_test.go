package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cuongbtq/hireboard/internal/api/handler"
	"github.com/cuongbtq/hireboard/internal/api/storage"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/cuongbtq/hireboard/internal/events"
	"github.com/cuongbtq/hireboard/shared/logger"
	"github.com/cuongbtq/hireboard/shared/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PipelineEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testServer struct {
	engine    *gin.Engine
	storage   *storage.Storage
	publisher *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNop().Logger
	store := storage.NewStorage(db, log)
	require.NoError(t, store.Migrate(context.Background()))

	pub := &recordingPublisher{}
	engine := SetupRouter(&handler.Dependencies{
		Logger:    log,
		Storage:   store,
		Publisher: pub,
	})

	return &testServer{engine: engine, storage: store, publisher: pub}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testServer) createJob(t *testing.T, title string) domain.Job {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/jobs", map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.Job](t, w)
}

func (s *testServer) createCandidate(t *testing.T, jobID, name string) domain.Candidate {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/candidates", map[string]any{
		"name":   name,
		"email":  "candidate@example.com",
		"job_id": jobID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.Candidate](t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestJobsEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("create validates title", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/jobs", map[string]any{"title": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Job title is required.", decode[map[string]any](t, w)["error"])
	})

	t.Run("create rejects unknown status", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/jobs", map[string]any{"title": "X", "status": "paused"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	a := s.createJob(t, "A")
	b := s.createJob(t, "B")
	c := s.createJob(t, "C")

	t.Run("list returns board order", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/jobs?page=1&page_size=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[domain.JobPage](t, w)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.PageSize)
		require.Len(t, page.Jobs, 2)
		assert.Equal(t, a.ID, page.Jobs[0].ID)
		assert.Equal(t, b.ID, page.Jobs[1].ID)
	})

	t.Run("list rejects bad page size", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/jobs?page_size=1000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reorder", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/jobs/order", map[string]any{"ids": []string{c.ID, a.ID, b.ID}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		page := decode[domain.JobPage](t, s.do(t, http.MethodGet, "/api/v1/jobs", nil))
		require.Len(t, page.Jobs, 3)
		assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{page.Jobs[0].ID, page.Jobs[1].ID, page.Jobs[2].ID})
	})

	t.Run("reorder with unknown id is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/jobs/order", map[string]any{"ids": []string{a.ID, "missing"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reorder with empty body is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/jobs/order", map[string]any{"ids": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("archive via patch", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/jobs/"+a.ID, map[string]any{"status": "archived"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.JobStatusArchived, decode[domain.Job](t, w).Status)

		w = s.do(t, http.MethodGet, "/api/v1/jobs?status=archived", nil)
		assert.Equal(t, 1, decode[domain.JobPage](t, w).Total)
	})

	t.Run("get and delete", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/jobs/"+b.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "B", decode[domain.Job](t, w).Title)

		w = s.do(t, http.MethodDelete, "/api/v1/jobs/"+b.ID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, "/api/v1/jobs/"+b.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodDelete, "/api/v1/jobs/"+b.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	assert.Equal(t, []string{
		events.TypeJobCreated,
		events.TypeJobCreated,
		events.TypeJobCreated,
		events.TypeJobsReordered,
		events.TypeJobUpdated,
		events.TypeJobDeleted,
	}, s.publisher.types())
}

func TestCandidateEndpoints(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob(t, "Backend Engineer")
	cand := s.createCandidate(t, job.ID, "Jane Doe")

	assert.Equal(t, domain.StageApplied, cand.Stage)

	t.Run("create requires a known job", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/candidates", map[string]any{
			"name": "X", "email": "x@example.com", "job_id": "missing",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("create rejects bad email", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/candidates", map[string]any{
			"name": "X", "email": "nope", "job_id": job.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list by job and stage", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/candidates?job_id="+job.ID+"&stage=applied", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decode[domain.CandidatePage](t, w).Total)

		w = s.do(t, http.MethodGet, "/api/v1/candidates?stage=unknown", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("move stage", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/candidates/"+cand.ID+"/stage", map[string]any{
			"previous_stage":       "applied",
			"new_stage":            "tech",
			"previous_stage_title": "Applied",
			"new_stage_title":      "Technical",
			"candidate_name":       "Jane Doe",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		moved := decode[domain.Candidate](t, w)
		assert.Equal(t, domain.StageTech, moved.Stage)
		require.Len(t, moved.Timeline, 2)
		assert.Equal(t, "Moved from Applied to Technical", moved.Timeline[1].Message)
	})

	t.Run("stale previous stage conflicts", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/candidates/"+cand.ID+"/stage", map[string]any{
			"previous_stage": "applied",
			"new_stage":      "offer",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("same stage is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/candidates/"+cand.ID+"/stage", map[string]any{
			"previous_stage": "tech",
			"new_stage":      "tech",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/candidates/missing/stage", map[string]any{
			"previous_stage": "applied",
			"new_stage":      "offer",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("add note", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/candidates/"+cand.ID+"/notes", map[string]any{
			"content":    "Great culture fit",
			"created_by": "Alex",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		got := decode[domain.Candidate](t, w)
		require.Len(t, got.Notes, 1)
		assert.Equal(t, "Alex", got.Notes[0].CreatedBy)
		assert.Equal(t, domain.TimelineNoteAdded, got.Timeline[len(got.Timeline)-1].Type)

		w = s.do(t, http.MethodPost, "/api/v1/candidates/"+cand.ID+"/notes", map[string]any{"content": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get candidate", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/candidates/"+cand.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[domain.Candidate](t, w)
		assert.Len(t, got.Timeline, 3)

		w = s.do(t, http.MethodGet, "/api/v1/candidates/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	s := newTestServer(t)
	s.publisher.err = errors.New("broker down")

	job := s.createJob(t, "Backend Engineer")
	assert.NotEmpty(t, job.ID)
	assert.Len(t, s.publisher.types(), 1)
}

func TestActivityEndpoint(t *testing.T) {
	s := newTestServer(t)

	t.Run("empty feed", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/activity", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"entries":[]}`, w.Body.String())
	})

	t.Run("invalid cursor", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/activity?cursor=%21%21", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMiddleware(t *testing.T) {
	s := newTestServer(t)

	t.Run("assigns a request id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/health", nil)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("echoes the caller's request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		w := s.do(t, http.MethodOptions, "/api/v1/jobs", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
