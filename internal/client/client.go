// Package client is the HTTP client for the hireboard API. It implements
// board.Remote.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cuongbtq/hireboard/internal/board"
	"github.com/cuongbtq/hireboard/internal/domain"
)

const apiPrefix = "api/v1"

var _ board.Remote = (*Client)(nil)

// Client talks to the hireboard API over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// New creates a client with sane defaults.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
		Logger:     logger,
	}
}

// APIError wraps non-2xx responses. It unwraps to the matching domain error
// when the status identifies one.
type APIError struct {
	StatusCode int
	Body       string
	Message    string
	Field      string

	err error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// newAPIError decodes the gin error body and maps the status back to a
// domain error. notFound is the sentinel for a 404 on this resource.
func newAPIError(status int, body []byte, notFound error) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var payload struct {
		Error   string `json:"error"`
		Field   string `json:"field"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.Field = payload.Field
	}

	switch status {
	case http.StatusNotFound:
		apiErr.err = notFound
	case http.StatusConflict:
		apiErr.err = domain.ErrStageConflict
	case http.StatusBadRequest:
		apiErr.err = badRequestError(apiErr.Message, apiErr.Field)
	}
	return apiErr
}

func badRequestError(message, field string) error {
	if field != "" {
		return &domain.ValidationError{Field: field, Message: message}
	}
	for _, sentinel := range []error{domain.ErrInvalidOrder, domain.ErrInvalidStage, domain.ErrInvalidStatus} {
		if strings.HasPrefix(message, sentinel.Error()) {
			return sentinel
		}
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Health checks the API health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "health", nil, nil, nil, nil)
}

// FetchJobs lists jobs for a filter and page.
func (c *Client) FetchJobs(ctx context.Context, q domain.JobQuery) (domain.JobPage, error) {
	params := url.Values{}
	setIfNotEmpty(params, "search", q.Search)
	setIfNotEmpty(params, "status", string(q.Status))
	setPage(params, q.Page)

	var resp domain.JobPage
	err := c.do(ctx, http.MethodGet, apiPath("jobs"), params, nil, &resp, domain.ErrJobNotFound)
	return resp, err
}

// FetchJob returns a job by id.
func (c *Client) FetchJob(ctx context.Context, id string) (domain.Job, error) {
	var resp domain.Job
	err := c.do(ctx, http.MethodGet, apiPath("jobs", id), nil, nil, &resp, domain.ErrJobNotFound)
	return resp, err
}

// CreateJob creates a job.
func (c *Client) CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error) {
	var resp domain.Job
	err := c.do(ctx, http.MethodPost, apiPath("jobs"), nil, in, &resp, domain.ErrJobNotFound)
	return resp, err
}

// UpdateJob applies a partial update to a job.
func (c *Client) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	var resp domain.Job
	err := c.do(ctx, http.MethodPatch, apiPath("jobs", id), nil, patch, &resp, domain.ErrJobNotFound)
	return resp, err
}

// DeleteJob deletes a job.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPath("jobs", id), nil, nil, nil, domain.ErrJobNotFound)
}

// ReorderJobs persists a new order for the given jobs.
func (c *Client) ReorderJobs(ctx context.Context, ids []string) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, http.MethodPut, apiPath("jobs", "order"), nil, body, nil, domain.ErrJobNotFound)
}

// FetchCandidates lists candidates for a filter and page.
func (c *Client) FetchCandidates(ctx context.Context, q domain.CandidateQuery) (domain.CandidatePage, error) {
	params := url.Values{}
	setIfNotEmpty(params, "search", q.Search)
	setIfNotEmpty(params, "stage", string(q.Stage))
	setIfNotEmpty(params, "job_id", q.JobID)
	setPage(params, q.Page)

	var resp domain.CandidatePage
	err := c.do(ctx, http.MethodGet, apiPath("candidates"), params, nil, &resp, domain.ErrCandidateNotFound)
	return resp, err
}

// FetchCandidate returns a candidate with notes and timeline.
func (c *Client) FetchCandidate(ctx context.Context, id string) (domain.Candidate, error) {
	var resp domain.Candidate
	err := c.do(ctx, http.MethodGet, apiPath("candidates", id), nil, nil, &resp, domain.ErrCandidateNotFound)
	return resp, err
}

// CreateCandidate registers a new applicant.
func (c *Client) CreateCandidate(ctx context.Context, in domain.CandidateInput) (domain.Candidate, error) {
	var resp domain.Candidate
	err := c.do(ctx, http.MethodPost, apiPath("candidates"), nil, in, &resp, domain.ErrJobNotFound)
	return resp, err
}

// UpdateCandidateStage moves a candidate and records the transition.
func (c *Client) UpdateCandidateStage(ctx context.Context, change domain.StageChange) (domain.Candidate, error) {
	var resp domain.Candidate
	err := c.do(ctx, http.MethodPatch, apiPath("candidates", change.CandidateID, "stage"), nil, change, &resp, domain.ErrCandidateNotFound)
	return resp, err
}

// AddCandidateNote appends a note to a candidate.
func (c *Client) AddCandidateNote(ctx context.Context, id string, in domain.NoteInput) (domain.Candidate, error) {
	var resp domain.Candidate
	err := c.do(ctx, http.MethodPost, apiPath("candidates", id, "notes"), nil, in, &resp, domain.ErrCandidateNotFound)
	return resp, err
}

// ActivityPage is one page of the pipeline activity feed.
type ActivityPage struct {
	Entries    []domain.ActivityEntry `json:"entries"`
	NextCursor string                 `json:"next_cursor"`
}

// ListActivity returns pipeline activity newest first. Pass the previous
// page's NextCursor to continue.
func (c *Client) ListActivity(ctx context.Context, pageSize int, cursor string) (ActivityPage, error) {
	params := url.Values{}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	setIfNotEmpty(params, "cursor", cursor)

	var resp ActivityPage
	err := c.do(ctx, http.MethodGet, apiPath("activity"), params, nil, &resp, nil)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any, out any, notFound error) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	target := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	logger.Debug("API call",
		slog.String("method", method),
		slog.String("path", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, b, notFound)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func apiPath(parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, apiPrefix)
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}

func setIfNotEmpty(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func setPage(params url.Values, p domain.Page) {
	if p.Number > 0 {
		params.Set("page", strconv.Itoa(p.Number))
	}
	if p.Size > 0 {
		params.Set("page_size", strconv.Itoa(p.Size))
	}
}
