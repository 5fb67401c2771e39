package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/google/uuid"
)

// Config holds coordinator dependencies
type Config struct {
	Store    *Store
	Remote   Remote
	Notifier Notifier
	Logger   *slog.Logger

	// Actor is recorded as the author of timeline events and notes.
	Actor string

	Now   func() time.Time
	NewID func() string
}

// Coordinator applies user intents to the store optimistically and
// reconciles them against the remote source of truth.
//
// Writes to the jobs list (fetches, reorders, resyncs) and to the candidates
// list are sequenced: a response only lands if no newer request on the same
// list was issued after it. Store listeners must not call back into the
// coordinator synchronously.
type Coordinator struct {
	store    *Store
	remote   Remote
	notifier Notifier
	logger   *slog.Logger
	actor    string
	now      func() time.Time
	newID    func() string

	jobsSeq       sequencer
	candidatesSeq sequencer
}

// NewCoordinator creates a new coordinator
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Remote == nil {
		return nil, fmt.Errorf("remote is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{Logger: cfg.Logger}
	}
	if cfg.Actor == "" {
		cfg.Actor = domain.DefaultActor
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Coordinator{
		store:    cfg.Store,
		remote:   cfg.Remote,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		actor:    cfg.Actor,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}, nil
}

// Store returns the store the coordinator writes to.
func (c *Coordinator) Store() *Store {
	return c.store
}

// LoadJobs fetches the jobs page for the current filter and page.
func (c *Coordinator) LoadJobs(ctx context.Context) error {
	return c.reloadJobs(ctx, nil)
}

// SetJobFilter changes the jobs filter, returns to the first page and reloads.
func (c *Coordinator) SetJobFilter(ctx context.Context, f JobFilter) error {
	return c.reloadJobs(ctx, JobFilterChanged{Filter: f})
}

// SetJobPage moves to another jobs page and reloads.
func (c *Coordinator) SetJobPage(ctx context.Context, page int) error {
	return c.reloadJobs(ctx, JobPageChanged{Page: domain.Page{Number: page}})
}

func (c *Coordinator) reloadJobs(ctx context.Context, prepare Action) error {
	var (
		query   domain.JobQuery
		prepErr error
	)
	ticket, ok := c.jobsSeq.begin(func() bool {
		if prepare != nil {
			if prepErr = c.store.Dispatch(prepare); prepErr != nil {
				return false
			}
		}
		c.dispatch(JobsRequested{})
		query = jobQuery(c.store.Snapshot())
		return true
	})
	if !ok {
		return prepErr
	}

	if err := c.fetchJobs(ctx, ticket, query); err != nil {
		if errors.Is(err, ErrSuperseded) {
			return err
		}
		c.fail(err)
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}
	return nil
}

// fetchJobs loads a jobs page under ticket. It returns ErrSuperseded without
// touching state when a newer jobs request was issued meanwhile.
func (c *Coordinator) fetchJobs(ctx context.Context, ticket uint64, query domain.JobQuery) error {
	page, err := c.remote.FetchJobs(ctx, query)
	if err != nil {
		if !c.jobsSeq.commit(ticket, func() { c.dispatch(JobsLoadFailed{Err: err}) }) {
			c.logger.Debug("Dropped stale jobs response", slog.Uint64("ticket", ticket))
			return ErrSuperseded
		}
		c.logger.Error("Failed to fetch jobs", slog.String("error", err.Error()))
		return err
	}

	var applyErr error
	if !c.jobsSeq.commit(ticket, func() { applyErr = c.store.Dispatch(JobsLoaded{Page: page}) }) {
		c.logger.Debug("Dropped stale jobs response", slog.Uint64("ticket", ticket))
		return ErrSuperseded
	}
	return applyErr
}

// ReorderJobs moves the job at source to destination. The new order is
// applied locally before the remote call. If the remote rejects it, one
// failure toast is shown and the list is re-fetched from the remote.
//
// A nil destination or one equal to source returns ErrNoopReorder without
// any remote call or toast. If a newer jobs request is issued while this one
// is in flight, its outcome never touches the list and ErrSuperseded is
// returned. A rejected reorder still shows its failure toast in that case but
// skips the resync.
func (c *Coordinator) ReorderJobs(ctx context.Context, source int, destination *int) error {
	var (
		ids      []string
		applyErr error
	)
	ticket, ok := c.jobsSeq.begin(func() bool {
		next, moved := Reorder(c.store.Snapshot().JobOrder, source, destination)
		if !moved {
			return false
		}
		if applyErr = c.store.Dispatch(JobsReordered{IDs: next}); applyErr != nil {
			return false
		}
		ids = next
		return true
	})
	if applyErr != nil {
		return fmt.Errorf("failed to apply job order: %w", applyErr)
	}
	if !ok {
		return ErrNoopReorder
	}

	c.logger.Debug("Reordering jobs", slog.Uint64("ticket", ticket), slog.Any("ids", ids))

	err := c.remote.ReorderJobs(ctx, ids)
	if err == nil {
		committed := c.jobsSeq.commit(ticket, func() {
			c.notifier.Notify(Toast{
				Title:       "Jobs reordered",
				Description: "Job order has been updated successfully.",
			})
		})
		if !committed {
			c.logger.Debug("Dropped stale reorder response", slog.Uint64("ticket", ticket))
			return ErrSuperseded
		}
		return nil
	}

	failed := Toast{
		Title:       "Reorder failed",
		Description: errorMessage(err, "Failed to reorder jobs"),
		Variant:     VariantDestructive,
	}
	c.logger.Error("Failed to reorder jobs", slog.Uint64("ticket", ticket), slog.String("error", err.Error()))

	var query domain.JobQuery
	resync, ok := c.jobsSeq.renew(ticket, func() {
		c.notifier.Notify(failed)
		c.dispatch(JobsRequested{})
		query = jobQuery(c.store.Snapshot())
	})
	if !ok {
		// the newer request owns the list, so only the toast remains
		c.notifier.Notify(failed)
		return fmt.Errorf("failed to reorder jobs: %w (%w)", err, ErrSuperseded)
	}

	// the failure toast already covers this resync
	if rerr := c.fetchJobs(ctx, resync, query); rerr != nil && !errors.Is(rerr, ErrSuperseded) {
		c.logger.Error("Failed to resync jobs after reorder", slog.String("error", rerr.Error()))
	}

	return fmt.Errorf("failed to reorder jobs: %w", err)
}

// LoadJob fetches a single job into the store.
func (c *Coordinator) LoadJob(ctx context.Context, id string) (domain.Job, error) {
	job, err := c.remote.FetchJob(ctx, id)
	if err != nil {
		c.logger.Error("Failed to fetch job", slog.String("job_id", id), slog.String("error", err.Error()))
		c.fail(err)
		return domain.Job{}, fmt.Errorf("failed to fetch job: %w", err)
	}
	if err := c.store.Dispatch(JobUpserted{Job: job}); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// CreateJob validates and creates a job, then reloads the jobs list. A blank
// title never reaches the remote.
func (c *Coordinator) CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error) {
	if err := in.Validate(); err != nil {
		c.fail(err)
		return domain.Job{}, err
	}

	job, err := c.remote.CreateJob(ctx, in)
	if err != nil {
		c.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.fail(err)
		return domain.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	c.dispatch(JobUpserted{Job: job})
	c.notifier.Notify(Toast{
		Title:       "Job created",
		Description: "New job has been created successfully.",
	})

	if err := c.LoadJobs(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		c.logger.Warn("Failed to refresh jobs after create", slog.String("error", err.Error()))
	}
	return job, nil
}

// UpdateJob applies a partial update to a job.
func (c *Coordinator) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	if err := patch.Validate(); err != nil {
		c.fail(err)
		return domain.Job{}, err
	}

	job, err := c.remote.UpdateJob(ctx, id, patch)
	if err != nil {
		c.logger.Error("Failed to update job", slog.String("job_id", id), slog.String("error", err.Error()))
		c.fail(err)
		return domain.Job{}, fmt.Errorf("failed to update job: %w", err)
	}

	c.storeJob(job)
	c.notifier.Notify(Toast{
		Title:       "Job updated",
		Description: "Job has been updated successfully.",
	})
	return job, nil
}

// ToggleArchive archives an active or draft job, or restores an archived one
// to active.
func (c *Coordinator) ToggleArchive(ctx context.Context, id string) (domain.Job, error) {
	current, ok := c.store.Snapshot().Jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}

	status := domain.JobStatusArchived
	verb := "archived"
	if current.Status == domain.JobStatusArchived {
		status = domain.JobStatusActive
		verb = "unarchived"
	}

	job, err := c.remote.UpdateJob(ctx, id, domain.JobPatch{Status: &status})
	if err != nil {
		c.logger.Error("Failed to toggle job archive", slog.String("job_id", id), slog.String("error", err.Error()))
		c.fail(err)
		return domain.Job{}, fmt.Errorf("failed to update job: %w", err)
	}

	c.storeJob(job)
	c.notifier.Notify(Toast{
		Title:       "Job " + verb,
		Description: "Job has been " + verb + " successfully.",
	})
	return job, nil
}

// DeleteJob deletes a job and drops it and its candidates from the store.
func (c *Coordinator) DeleteJob(ctx context.Context, id string) error {
	if err := c.remote.DeleteJob(ctx, id); err != nil {
		c.logger.Error("Failed to delete job", slog.String("job_id", id), slog.String("error", err.Error()))
		c.fail(err)
		return fmt.Errorf("failed to delete job: %w", err)
	}

	c.dispatch(JobRemoved{ID: id, Cascade: true})
	c.notifier.Notify(Toast{
		Title:       "Job deleted",
		Description: "Job has been deleted successfully.",
	})
	return nil
}

// storeJob keeps the loaded page consistent with the active status filter.
func (c *Coordinator) storeJob(job domain.Job) {
	filter := c.store.Snapshot().JobFilter
	if filter.Status != "" && job.Status != filter.Status {
		c.dispatch(JobRemoved{ID: job.ID})
		return
	}
	c.dispatch(JobUpserted{Job: job})
}

// LoadCandidates fetches the candidates page for the current filter and page.
func (c *Coordinator) LoadCandidates(ctx context.Context) error {
	return c.reloadCandidates(ctx)
}

// SetCandidateFilter changes the candidates filter, returns to the first page
// and reloads.
func (c *Coordinator) SetCandidateFilter(ctx context.Context, f CandidateFilter) error {
	return c.reloadCandidates(ctx, CandidateFilterChanged{Filter: f})
}

// SetCandidatePage moves to another candidates page and reloads.
func (c *Coordinator) SetCandidatePage(ctx context.Context, page int) error {
	return c.reloadCandidates(ctx, CandidatePageChanged{Page: domain.Page{Number: page}})
}

// LoadBoard loads a job and all of its candidates for the kanban view.
func (c *Coordinator) LoadBoard(ctx context.Context, jobID string) error {
	if _, err := c.LoadJob(ctx, jobID); err != nil {
		return err
	}
	return c.reloadCandidates(ctx,
		CandidateFilterChanged{Filter: CandidateFilter{JobID: jobID}},
		CandidatePageChanged{Page: domain.Page{Number: 1, Size: domain.MaxPageSize}},
	)
}

func (c *Coordinator) reloadCandidates(ctx context.Context, prepare ...Action) error {
	var (
		query   domain.CandidateQuery
		prepErr error
	)
	ticket, ok := c.candidatesSeq.begin(func() bool {
		for _, a := range prepare {
			if prepErr = c.store.Dispatch(a); prepErr != nil {
				return false
			}
		}
		c.dispatch(CandidatesRequested{})
		query = candidateQuery(c.store.Snapshot())
		return true
	})
	if !ok {
		return prepErr
	}

	page, err := c.remote.FetchCandidates(ctx, query)
	if err != nil {
		if !c.candidatesSeq.commit(ticket, func() { c.dispatch(CandidatesLoadFailed{Err: err}) }) {
			c.logger.Debug("Dropped stale candidates response", slog.Uint64("ticket", ticket))
			return ErrSuperseded
		}
		c.logger.Error("Failed to fetch candidates", slog.String("error", err.Error()))
		c.fail(err)
		return fmt.Errorf("failed to fetch candidates: %w", err)
	}

	var applyErr error
	if !c.candidatesSeq.commit(ticket, func() { applyErr = c.store.Dispatch(CandidatesLoaded{Page: page}) }) {
		c.logger.Debug("Dropped stale candidates response", slog.Uint64("ticket", ticket))
		return ErrSuperseded
	}
	return applyErr
}

// LoadCandidate fetches a candidate with notes and timeline into the store.
func (c *Coordinator) LoadCandidate(ctx context.Context, id string) (domain.Candidate, error) {
	c.dispatch(CandidateRequested{})

	candidate, err := c.remote.FetchCandidate(ctx, id)
	if err != nil {
		c.dispatch(CandidateLoadFailed{})
		c.logger.Error("Failed to fetch candidate", slog.String("candidate_id", id), slog.String("error", err.Error()))
		c.fail(err)
		return domain.Candidate{}, fmt.Errorf("failed to fetch candidate: %w", err)
	}

	if err := c.store.Dispatch(CandidateUpserted{Candidate: candidate}); err != nil {
		c.dispatch(CandidateLoadFailed{})
		return domain.Candidate{}, err
	}
	return candidate, nil
}

// MoveCandidate moves a candidate from one stage to another. The stage and
// one timeline entry are applied together locally, then sent to the remote
// in a single call. If the remote rejects the move, the candidate is
// restored to its state before the move.
//
// Moves are not sequenced against each other; one move per candidate is
// expected in flight. A move does supersede any candidates list fetch still
// in flight.
func (c *Coordinator) MoveCandidate(ctx context.Context, id string, from, to domain.Stage) (domain.Candidate, error) {
	if from == to {
		return domain.Candidate{}, ErrNoopTransition
	}
	if !from.Valid() {
		return domain.Candidate{}, fmt.Errorf("%w: %q", domain.ErrInvalidStage, from)
	}
	if !to.Valid() {
		return domain.Candidate{}, fmt.Errorf("%w: %q", domain.ErrInvalidStage, to)
	}

	var (
		previous domain.Candidate
		change   domain.StageChange
		applyErr error
	)
	c.candidatesSeq.begin(func() bool {
		var ok bool
		previous, ok = c.store.Snapshot().Candidates[id]
		if !ok {
			applyErr = domain.ErrCandidateNotFound
			return false
		}

		change = domain.StageChange{
			CandidateID:        id,
			CandidateName:      previous.Name,
			PreviousStage:      from,
			NewStage:           to,
			PreviousStageTitle: from.Label(),
			NewStageTitle:      to.Label(),
			CreatedBy:          c.actor,
		}
		applyErr = c.store.Dispatch(CandidateStageChanged{
			CandidateID: id,
			From:        from,
			To:          to,
			Event: domain.TimelineEvent{
				ID:        c.newID(),
				Type:      string(to),
				Message:   change.TimelineMessage(),
				CreatedBy: c.actor,
				CreatedAt: c.now().UTC(),
			},
		})
		return applyErr == nil
	})
	if applyErr != nil {
		return domain.Candidate{}, applyErr
	}

	updated, err := c.remote.UpdateCandidateStage(ctx, change)
	if err != nil {
		c.dispatch(CandidateUpserted{Candidate: previous})
		c.logger.Error("Failed to move candidate",
			slog.String("candidate_id", id),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
			slog.String("error", err.Error()),
		)
		c.notifier.Notify(Toast{
			Title:       "Move failed",
			Description: errorMessage(err, "Failed to move candidate"),
			Variant:     VariantDestructive,
		})
		return domain.Candidate{}, fmt.Errorf("failed to move candidate: %w", err)
	}

	c.dispatch(CandidateUpserted{Candidate: updated})
	c.notifier.Notify(Toast{
		Title:       "Candidate moved",
		Description: fmt.Sprintf("%s moved from %s to %s", previous.Name, change.PreviousStageTitle, change.NewStageTitle),
	})
	return updated, nil
}

// AddNote appends a note to a candidate. Blank content never reaches the
// remote.
func (c *Coordinator) AddNote(ctx context.Context, candidateID, content string) (domain.Candidate, error) {
	in := domain.NoteInput{Content: content, CreatedBy: c.actor}
	if err := in.Validate(); err != nil {
		c.fail(err)
		return domain.Candidate{}, err
	}

	candidate, err := c.remote.AddCandidateNote(ctx, candidateID, in)
	if err != nil {
		c.logger.Error("Failed to add note", slog.String("candidate_id", candidateID), slog.String("error", err.Error()))
		c.fail(err)
		return domain.Candidate{}, fmt.Errorf("failed to add note: %w", err)
	}

	c.dispatch(CandidateUpserted{Candidate: candidate})
	c.notifier.Notify(Toast{
		Title:       "Note added",
		Description: "Note has been added to candidate profile.",
	})
	return candidate, nil
}

// dispatch applies an action that cannot be rejected by valid state.
func (c *Coordinator) dispatch(a Action) {
	if err := c.store.Dispatch(a); err != nil {
		c.logger.Error("Dispatch rejected", slog.String("action", fmt.Sprintf("%T", a)), slog.String("error", err.Error()))
	}
}

func (c *Coordinator) fail(err error) {
	c.notifier.Notify(Toast{
		Title:       "Error",
		Description: errorMessage(err, "Something went wrong."),
		Variant:     VariantDestructive,
	})
}

func errorMessage(err error, fallback string) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

func jobQuery(s State) domain.JobQuery {
	return domain.JobQuery{
		Search: s.JobFilter.Search,
		Status: s.JobFilter.Status,
		Page:   s.JobPage,
	}
}

func candidateQuery(s State) domain.CandidateQuery {
	return domain.CandidateQuery{
		Search: s.CandidateFilter.Search,
		Stage:  s.CandidateFilter.Stage,
		JobID:  s.CandidateFilter.JobID,
		Page:   s.CandidatePage,
	}
}
