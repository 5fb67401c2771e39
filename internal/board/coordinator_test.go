package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/cuongbtq/hireboard/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote serves canned responses. Unset hooks return zero values.
type fakeRemote struct {
	mu sync.Mutex

	fetchJobs       func(ctx context.Context, q domain.JobQuery) (domain.JobPage, error)
	fetchJob        func(ctx context.Context, id string) (domain.Job, error)
	createJob       func(ctx context.Context, in domain.JobInput) (domain.Job, error)
	updateJob       func(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error)
	deleteJob       func(ctx context.Context, id string) error
	reorderJobs     func(ctx context.Context, ids []string) error
	fetchCandidates func(ctx context.Context, q domain.CandidateQuery) (domain.CandidatePage, error)
	fetchCandidate  func(ctx context.Context, id string) (domain.Candidate, error)
	updateStage     func(ctx context.Context, change domain.StageChange) (domain.Candidate, error)
	addNote         func(ctx context.Context, id string, in domain.NoteInput) (domain.Candidate, error)

	calls map[string]int
}

func (f *fakeRemote) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeRemote) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) FetchJobs(ctx context.Context, q domain.JobQuery) (domain.JobPage, error) {
	f.record("FetchJobs")
	if f.fetchJobs == nil {
		return domain.JobPage{}, nil
	}
	return f.fetchJobs(ctx, q)
}

func (f *fakeRemote) FetchJob(ctx context.Context, id string) (domain.Job, error) {
	f.record("FetchJob")
	if f.fetchJob == nil {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return f.fetchJob(ctx, id)
}

func (f *fakeRemote) CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error) {
	f.record("CreateJob")
	if f.createJob == nil {
		return domain.Job{}, nil
	}
	return f.createJob(ctx, in)
}

func (f *fakeRemote) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	f.record("UpdateJob")
	if f.updateJob == nil {
		return domain.Job{}, nil
	}
	return f.updateJob(ctx, id, patch)
}

func (f *fakeRemote) DeleteJob(ctx context.Context, id string) error {
	f.record("DeleteJob")
	if f.deleteJob == nil {
		return nil
	}
	return f.deleteJob(ctx, id)
}

func (f *fakeRemote) ReorderJobs(ctx context.Context, ids []string) error {
	f.record("ReorderJobs")
	if f.reorderJobs == nil {
		return nil
	}
	return f.reorderJobs(ctx, ids)
}

func (f *fakeRemote) FetchCandidates(ctx context.Context, q domain.CandidateQuery) (domain.CandidatePage, error) {
	f.record("FetchCandidates")
	if f.fetchCandidates == nil {
		return domain.CandidatePage{}, nil
	}
	return f.fetchCandidates(ctx, q)
}

func (f *fakeRemote) FetchCandidate(ctx context.Context, id string) (domain.Candidate, error) {
	f.record("FetchCandidate")
	if f.fetchCandidate == nil {
		return domain.Candidate{}, domain.ErrCandidateNotFound
	}
	return f.fetchCandidate(ctx, id)
}

func (f *fakeRemote) UpdateCandidateStage(ctx context.Context, change domain.StageChange) (domain.Candidate, error) {
	f.record("UpdateCandidateStage")
	if f.updateStage == nil {
		return domain.Candidate{}, nil
	}
	return f.updateStage(ctx, change)
}

func (f *fakeRemote) AddCandidateNote(ctx context.Context, id string, in domain.NoteInput) (domain.Candidate, error) {
	f.record("AddCandidateNote")
	if f.addNote == nil {
		return domain.Candidate{}, nil
	}
	return f.addNote(ctx, id, in)
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestCoordinator(t *testing.T, remote *fakeRemote) (*Coordinator, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	c, err := NewCoordinator(Config{
		Store:    NewStore(NewState(10)),
		Remote:   remote,
		Notifier: rec,
		Logger:   logger.NewNop().Logger,
		Now:      func() time.Time { return fixedNow },
		NewID:    func() string { return "evt-1" },
	})
	require.NoError(t, err)
	return c, rec
}

func titles(toasts []Toast) []string {
	out := make([]string, len(toasts))
	for i, t := range toasts {
		out[i] = t.Title
	}
	return out
}

func TestNewCoordinator_RequiresDependencies(t *testing.T) {
	_, err := NewCoordinator(Config{Remote: &fakeRemote{}})
	assert.Error(t, err)

	_, err = NewCoordinator(Config{Store: NewStore(State{})})
	assert.Error(t, err)
}

func TestLoadJobs(t *testing.T) {
	var got domain.JobQuery
	remote := &fakeRemote{
		fetchJobs: func(_ context.Context, q domain.JobQuery) (domain.JobPage, error) {
			got = q
			return loadedJobs("a", "b"), nil
		},
	}
	c, rec := newTestCoordinator(t, remote)

	require.NoError(t, c.SetJobFilter(context.Background(), JobFilter{Search: "eng", Status: domain.JobStatusActive}))

	assert.Equal(t, domain.JobQuery{Search: "eng", Status: domain.JobStatusActive, Page: domain.Page{Number: 1, Size: 10}}, got)
	s := c.Store().Snapshot()
	assert.Equal(t, []string{"a", "b"}, s.JobOrder)
	assert.False(t, s.Loading.Jobs)
	assert.Empty(t, rec.Toasts())

	require.NoError(t, c.SetJobPage(context.Background(), 2))
	assert.Equal(t, 2, got.Page.Number)
}

func TestLoadJobs_FailureNotifies(t *testing.T) {
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return domain.JobPage{}, errors.New("connection refused")
		},
	}
	c, rec := newTestCoordinator(t, remote)

	err := c.LoadJobs(context.Background())
	require.Error(t, err)

	s := c.Store().Snapshot()
	assert.Equal(t, "connection refused", s.JobsError)
	assert.False(t, s.Loading.Jobs)
	require.Len(t, rec.Toasts(), 1)
	assert.Equal(t, Toast{Title: "Error", Description: "connection refused", Variant: VariantDestructive}, rec.Toasts()[0])
}

func TestReorderJobs_Success(t *testing.T) {
	var sent []string
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("A", "B", "C", "D"), nil
		},
		reorderJobs: func(_ context.Context, ids []string) error {
			sent = ids
			return nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	require.NoError(t, c.ReorderJobs(context.Background(), 0, intPtr(2)))

	assert.Equal(t, []string{"B", "C", "A", "D"}, sent)
	s := c.Store().Snapshot()
	assert.Equal(t, []string{"B", "C", "A", "D"}, s.JobOrder)
	assert.Equal(t, 2, s.Jobs["A"].Order)
	assert.Equal(t, []Toast{{Title: "Jobs reordered", Description: "Job order has been updated successfully."}}, rec.Toasts())
	assert.Equal(t, 1, remote.count("FetchJobs"))
}

func TestReorderJobs_Noop(t *testing.T) {
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("A", "B", "C"), nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))
	version := c.Store().Version()

	assert.ErrorIs(t, c.ReorderJobs(context.Background(), 1, nil), ErrNoopReorder)
	assert.ErrorIs(t, c.ReorderJobs(context.Background(), 1, intPtr(1)), ErrNoopReorder)

	assert.Zero(t, remote.count("ReorderJobs"))
	assert.Empty(t, rec.Toasts())
	assert.Equal(t, version, c.Store().Version())
}

func TestReorderJobs_FailureResyncs(t *testing.T) {
	fetches := 0
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			fetches++
			if fetches == 1 {
				return loadedJobs("A", "B", "C", "D"), nil
			}
			return loadedJobs("D", "C", "B", "A"), nil
		},
		reorderJobs: func(context.Context, []string) error {
			return errors.New("server unavailable")
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	err := c.ReorderJobs(context.Background(), 0, intPtr(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server unavailable")

	assert.Equal(t, []string{"D", "C", "B", "A"}, c.Store().Snapshot().JobOrder)
	assert.Equal(t, 2, remote.count("FetchJobs"))
	assert.Equal(t, []Toast{{Title: "Reorder failed", Description: "server unavailable", Variant: VariantDestructive}}, rec.Toasts())
}

func TestReorderJobs_FailedResyncStillNotifiesOnce(t *testing.T) {
	fetches := 0
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			fetches++
			if fetches == 1 {
				return loadedJobs("A", "B"), nil
			}
			return domain.JobPage{}, errors.New("still down")
		},
		reorderJobs: func(context.Context, []string) error {
			return errors.New("server unavailable")
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	require.Error(t, c.ReorderJobs(context.Background(), 1, intPtr(0)))

	assert.Equal(t, []string{"Reorder failed"}, titles(rec.Toasts()))
	assert.Equal(t, "still down", c.Store().Snapshot().JobsError)
}

func TestReorderJobs_SupersedesInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetches := 0
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			fetches++
			if fetches == 1 {
				return loadedJobs("A", "B", "C"), nil
			}
			close(started)
			<-release
			return loadedJobs("A", "B", "C"), nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	done := make(chan error, 1)
	go func() { done <- c.LoadJobs(context.Background()) }()
	<-started

	require.NoError(t, c.ReorderJobs(context.Background(), 2, intPtr(0)))
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	s := c.Store().Snapshot()
	assert.Equal(t, []string{"C", "A", "B"}, s.JobOrder)
	assert.False(t, s.Loading.Jobs)
	assert.Equal(t, []string{"Jobs reordered"}, titles(rec.Toasts()))
}

func TestReorderJobs_FailureSupersededByFetchStillToasts(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("A", "B", "C"), nil
		},
		reorderJobs: func(context.Context, []string) error {
			close(started)
			<-release
			return errors.New("server unavailable")
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	done := make(chan error, 1)
	go func() { done <- c.ReorderJobs(context.Background(), 0, intPtr(2)) }()
	<-started

	require.NoError(t, c.LoadJobs(context.Background()))
	close(release)

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Contains(t, err.Error(), "server unavailable")

	assert.Equal(t, []string{"A", "B", "C"}, c.Store().Snapshot().JobOrder)
	assert.Equal(t, 2, remote.count("FetchJobs"), "the newer fetch owns the list, no resync")

	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Reorder failed", toasts[0].Title)
	assert.Equal(t, VariantDestructive, toasts[0].Variant)
}

func TestReorderJobs_OverlappingReordersLatestWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	reorders := 0
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("A", "B", "C", "D"), nil
		},
		reorderJobs: func(context.Context, []string) error {
			reorders++
			if reorders == 1 {
				close(started)
				<-release
				return errors.New("timeout")
			}
			return nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	first := make(chan error, 1)
	go func() { first <- c.ReorderJobs(context.Background(), 0, intPtr(3)) }()
	<-started

	// B,C,D,A -> D,B,C,A
	require.NoError(t, c.ReorderJobs(context.Background(), 2, intPtr(0)))
	close(release)

	assert.ErrorIs(t, <-first, ErrSuperseded)
	assert.Equal(t, []string{"D", "B", "C", "A"}, c.Store().Snapshot().JobOrder)
	assert.Equal(t, 1, remote.count("FetchJobs"), "a superseded failure must not resync")
	assert.Equal(t, []string{"Jobs reordered", "Reorder failed"}, titles(rec.Toasts()))
}

func seedCandidate(t *testing.T, c *Coordinator, candidate domain.Candidate) {
	t.Helper()
	require.NoError(t, c.Store().Dispatch(CandidatesLoaded{Page: domain.CandidatePage{
		Candidates: []domain.Candidate{candidate},
		Total:      1,
	}}))
}

func TestMoveCandidate_AppliedToTech(t *testing.T) {
	applied := domain.Candidate{
		ID: "c1", Name: "Jane Doe", JobID: "j1", Stage: domain.StageApplied,
		Timeline: []domain.TimelineEvent{{ID: "t0", Type: "applied", Message: "Applied for Backend Engineer"}},
	}

	var (
		sent     domain.StageChange
		midState domain.Candidate
		c        *Coordinator
	)
	remote := &fakeRemote{
		updateStage: func(_ context.Context, change domain.StageChange) (domain.Candidate, error) {
			sent = change
			midState = c.Store().Snapshot().Candidates["c1"]

			server := applied
			server.Stage = change.NewStage
			server.Timeline = append([]domain.TimelineEvent{}, applied.Timeline...)
			server.Timeline = append(server.Timeline, domain.TimelineEvent{ID: "srv-1", Type: "tech", Message: change.TimelineMessage(), CreatedBy: change.CreatedBy})
			return server, nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	seedCandidate(t, c, applied)

	got, err := c.MoveCandidate(context.Background(), "c1", domain.StageApplied, domain.StageTech)
	require.NoError(t, err)

	assert.Equal(t, domain.StageApplied, sent.PreviousStage)
	assert.Equal(t, domain.StageTech, sent.NewStage)
	assert.Equal(t, "Applied", sent.PreviousStageTitle)
	assert.Equal(t, "Technical", sent.NewStageTitle)
	assert.Equal(t, "Jane Doe", sent.CandidateName)
	assert.Equal(t, domain.DefaultActor, sent.CreatedBy)

	// optimistic state seen while the remote call is in flight
	assert.Equal(t, domain.StageTech, midState.Stage)
	require.Len(t, midState.Timeline, 2)
	assert.Equal(t, domain.TimelineEvent{
		ID:        "evt-1",
		Type:      "tech",
		Message:   "Moved from Applied to Technical",
		CreatedBy: domain.DefaultActor,
		CreatedAt: fixedNow,
	}, midState.Timeline[1])

	// the server copy replaces the optimistic one
	stored := c.Store().Snapshot().Candidates["c1"]
	assert.Equal(t, got, stored)
	require.Len(t, stored.Timeline, 2)
	assert.Equal(t, "srv-1", stored.Timeline[1].ID)

	assert.Equal(t, []Toast{{Title: "Candidate moved", Description: "Jane Doe moved from Applied to Technical"}}, rec.Toasts())
}

func TestMoveCandidate_Rejected(t *testing.T) {
	candidate := domain.Candidate{ID: "c1", Name: "Jane", Stage: domain.StageScreen}

	tests := []struct {
		name    string
		id      string
		from    domain.Stage
		to      domain.Stage
		wantErr error
	}{
		{name: "same stage", id: "c1", from: domain.StageScreen, to: domain.StageScreen, wantErr: ErrNoopTransition},
		{name: "invalid target", id: "c1", from: domain.StageScreen, to: "interview", wantErr: domain.ErrInvalidStage},
		{name: "invalid source", id: "c1", from: "", to: domain.StageOffer, wantErr: domain.ErrInvalidStage},
		{name: "unknown candidate", id: "c9", from: domain.StageScreen, to: domain.StageOffer, wantErr: domain.ErrCandidateNotFound},
		{name: "stale source stage", id: "c1", from: domain.StageApplied, to: domain.StageOffer, wantErr: domain.ErrStageConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{}
			c, rec := newTestCoordinator(t, remote)
			seedCandidate(t, c, candidate)
			version := c.Store().Version()

			_, err := c.MoveCandidate(context.Background(), tt.id, tt.from, tt.to)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, version, c.Store().Version(), "no dispatch")
			assert.Zero(t, remote.count("UpdateCandidateStage"))
			assert.Empty(t, rec.Toasts())
		})
	}
}

func TestMoveCandidate_FailureRestoresSnapshot(t *testing.T) {
	before := domain.Candidate{
		ID: "c1", Name: "Jane", Stage: domain.StageOffer,
		Timeline: []domain.TimelineEvent{{ID: "t0", Type: "applied"}},
	}
	remote := &fakeRemote{
		updateStage: func(context.Context, domain.StageChange) (domain.Candidate, error) {
			return domain.Candidate{}, domain.ErrStageConflict
		},
	}
	c, rec := newTestCoordinator(t, remote)
	seedCandidate(t, c, before)

	_, err := c.MoveCandidate(context.Background(), "c1", domain.StageOffer, domain.StageHired)
	assert.ErrorIs(t, err, domain.ErrStageConflict)

	assert.Equal(t, before, c.Store().Snapshot().Candidates["c1"])
	assert.Equal(t, []Toast{{Title: "Move failed", Description: domain.ErrStageConflict.Error(), Variant: VariantDestructive}}, rec.Toasts())
}

func TestMoveCandidate_SupersedesCandidatesFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	remote := &fakeRemote{
		fetchCandidates: func(context.Context, domain.CandidateQuery) (domain.CandidatePage, error) {
			close(started)
			<-release
			return domain.CandidatePage{Candidates: []domain.Candidate{{ID: "c1", Name: "Jane", Stage: domain.StageApplied}}, Total: 1}, nil
		},
		updateStage: func(_ context.Context, change domain.StageChange) (domain.Candidate, error) {
			return domain.Candidate{ID: "c1", Name: "Jane", Stage: change.NewStage}, nil
		},
	}
	c, _ := newTestCoordinator(t, remote)
	seedCandidate(t, c, domain.Candidate{ID: "c1", Name: "Jane", Stage: domain.StageApplied})

	done := make(chan error, 1)
	go func() { done <- c.LoadCandidates(context.Background()) }()
	<-started

	_, err := c.MoveCandidate(context.Background(), "c1", domain.StageApplied, domain.StageScreen)
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, domain.StageScreen, c.Store().Snapshot().Candidates["c1"].Stage)
}

func TestCreateJob(t *testing.T) {
	t.Run("blank title never reaches the remote", func(t *testing.T) {
		remote := &fakeRemote{}
		c, rec := newTestCoordinator(t, remote)

		_, err := c.CreateJob(context.Background(), domain.JobInput{Title: "  "})
		assert.True(t, domain.IsValidation(err))
		assert.Zero(t, remote.count("CreateJob"))
		assert.Equal(t, []Toast{{Title: "Error", Description: "Job title is required.", Variant: VariantDestructive}}, rec.Toasts())
	})

	t.Run("success reloads the list", func(t *testing.T) {
		var created domain.JobInput
		remote := &fakeRemote{
			createJob: func(_ context.Context, in domain.JobInput) (domain.Job, error) {
				created = in
				return domain.Job{ID: "new", Title: in.Title, Status: in.Status}, nil
			},
			fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
				return loadedJobs("a", "new"), nil
			},
		}
		c, rec := newTestCoordinator(t, remote)

		job, err := c.CreateJob(context.Background(), domain.JobInput{Title: " Platform Engineer "})
		require.NoError(t, err)

		assert.Equal(t, "new", job.ID)
		assert.Equal(t, "Platform Engineer", created.Title)
		assert.Equal(t, domain.JobStatusActive, created.Status)
		assert.Equal(t, 1, remote.count("FetchJobs"))
		assert.Equal(t, []string{"a", "new"}, c.Store().Snapshot().JobOrder)
		assert.Equal(t, []Toast{{Title: "Job created", Description: "New job has been created successfully."}}, rec.Toasts())
	})

	t.Run("remote failure only notifies", func(t *testing.T) {
		remote := &fakeRemote{
			createJob: func(context.Context, domain.JobInput) (domain.Job, error) {
				return domain.Job{}, errors.New("boom")
			},
		}
		c, rec := newTestCoordinator(t, remote)

		_, err := c.CreateJob(context.Background(), domain.JobInput{Title: "X"})
		require.Error(t, err)
		assert.Zero(t, remote.count("FetchJobs"))
		assert.Equal(t, []Toast{{Title: "Error", Description: "boom", Variant: VariantDestructive}}, rec.Toasts())
	})
}

func TestUpdateJob(t *testing.T) {
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("a"), nil
		},
		updateJob: func(_ context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
			return domain.Job{ID: id, Title: *patch.Title, Status: domain.JobStatusActive}, nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))

	blank := ""
	_, err := c.UpdateJob(context.Background(), "a", domain.JobPatch{Title: &blank})
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, remote.count("UpdateJob"))

	title := "Renamed"
	_, err = c.UpdateJob(context.Background(), "a", domain.JobPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", c.Store().Snapshot().Jobs["a"].Title)
	assert.Equal(t, []string{"Error", "Job updated"}, titles(rec.Toasts()))
}

func TestToggleArchive(t *testing.T) {
	var sentStatus domain.JobStatus
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("a", "b"), nil
		},
		updateJob: func(_ context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
			sentStatus = *patch.Status
			return domain.Job{ID: id, Status: *patch.Status}, nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.SetJobFilter(context.Background(), JobFilter{Status: domain.JobStatusActive}))

	_, err := c.ToggleArchive(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusArchived, sentStatus)
	assert.Equal(t, []string{"b"}, c.Store().Snapshot().JobOrder, "archived job leaves the active list")
	assert.Equal(t, []Toast{{Title: "Job archived", Description: "Job has been archived successfully."}}, rec.Toasts())

	_, err = c.ToggleArchive(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestToggleArchive_Unarchive(t *testing.T) {
	remote := &fakeRemote{
		fetchJob: func(_ context.Context, id string) (domain.Job, error) {
			return domain.Job{ID: id, Status: domain.JobStatusArchived}, nil
		},
		updateJob: func(_ context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
			return domain.Job{ID: id, Status: *patch.Status}, nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	_, err := c.LoadJob(context.Background(), "a")
	require.NoError(t, err)

	job, err := c.ToggleArchive(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, []string{"Job unarchived"}, titles(rec.Toasts()))
}

func TestDeleteJob(t *testing.T) {
	remote := &fakeRemote{
		fetchJobs: func(context.Context, domain.JobQuery) (domain.JobPage, error) {
			return loadedJobs("a", "b"), nil
		},
	}
	c, rec := newTestCoordinator(t, remote)
	require.NoError(t, c.LoadJobs(context.Background()))
	seedCandidate(t, c, domain.Candidate{ID: "c1", JobID: "a", Stage: domain.StageApplied})

	require.NoError(t, c.DeleteJob(context.Background(), "a"))

	s := c.Store().Snapshot()
	assert.Equal(t, []string{"b"}, s.JobOrder)
	assert.Empty(t, s.Candidates)
	assert.Equal(t, []Toast{{Title: "Job deleted", Description: "Job has been deleted successfully."}}, rec.Toasts())

	remote.deleteJob = func(context.Context, string) error { return domain.ErrJobNotFound }
	rec.Reset()
	assert.ErrorIs(t, c.DeleteJob(context.Background(), "b"), domain.ErrJobNotFound)
	assert.Equal(t, []string{"b"}, c.Store().Snapshot().JobOrder)
	assert.Equal(t, []string{"Error"}, titles(rec.Toasts()))
}

func TestAddNote(t *testing.T) {
	var sent domain.NoteInput
	remote := &fakeRemote{
		addNote: func(_ context.Context, id string, in domain.NoteInput) (domain.Candidate, error) {
			sent = in
			return domain.Candidate{
				ID: id, Stage: domain.StageScreen,
				Notes: []domain.Note{{ID: "n1", Content: in.Content, CreatedBy: in.CreatedBy}},
			}, nil
		},
	}
	c, rec := newTestCoordinator(t, remote)

	_, err := c.AddNote(context.Background(), "c1", "   ")
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, remote.count("AddCandidateNote"))

	_, err = c.AddNote(context.Background(), "c1", "Great system design answers")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultActor, sent.CreatedBy)
	assert.Len(t, c.Store().Snapshot().Candidates["c1"].Notes, 1)
	assert.Equal(t, []Toast{
		{Title: "Error", Description: "Note content is required.", Variant: VariantDestructive},
		{Title: "Note added", Description: "Note has been added to candidate profile."},
	}, rec.Toasts())
}

func TestLoadBoard(t *testing.T) {
	var query domain.CandidateQuery
	remote := &fakeRemote{
		fetchJob: func(_ context.Context, id string) (domain.Job, error) {
			return domain.Job{ID: id, Title: "Backend", Status: domain.JobStatusActive}, nil
		},
		fetchCandidates: func(_ context.Context, q domain.CandidateQuery) (domain.CandidatePage, error) {
			query = q
			return domain.CandidatePage{Candidates: []domain.Candidate{
				{ID: "c1", JobID: "j1", Stage: domain.StageApplied},
				{ID: "c2", JobID: "j1", Stage: domain.StageHired},
			}, Total: 2}, nil
		},
	}
	c, _ := newTestCoordinator(t, remote)

	require.NoError(t, c.LoadBoard(context.Background(), "j1"))

	assert.Equal(t, "j1", query.JobID)
	assert.Equal(t, domain.Page{Number: 1, Size: domain.MaxPageSize}, query.Page)

	s := c.Store().Snapshot()
	assert.Equal(t, "Backend", s.Jobs["j1"].Title)
	columns := CandidatesByStage(s, "j1")
	assert.Equal(t, []string{"c1"}, ids(columns[domain.StageApplied]))
	assert.Equal(t, []string{"c2"}, ids(columns[domain.StageHired]))
}

func TestLoadCandidate(t *testing.T) {
	remote := &fakeRemote{}
	c, rec := newTestCoordinator(t, remote)

	_, err := c.LoadCandidate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	assert.False(t, c.Store().Snapshot().Loading.Candidate)
	assert.Equal(t, []string{"Error"}, titles(rec.Toasts()))

	remote.fetchCandidate = func(_ context.Context, id string) (domain.Candidate, error) {
		return domain.Candidate{ID: id, Stage: domain.StageOffer}, nil
	}
	got, err := c.LoadCandidate(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, got, c.Store().Snapshot().Candidates["c1"])
}
