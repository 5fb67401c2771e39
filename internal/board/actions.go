package board

import (
	"fmt"
	"sort"

	"github.com/cuongbtq/hireboard/internal/domain"
)

// Action is a state transition. Actions validate before mutating, so a
// rejected action leaves the state untouched.
type Action interface {
	apply(s *State) error
}

// JobsRequested marks the jobs list as loading.
type JobsRequested struct{}

func (JobsRequested) apply(s *State) error {
	s.Loading.Jobs = true
	return nil
}

// JobsLoaded replaces the jobs list with a freshly fetched page.
type JobsLoaded struct {
	Page domain.JobPage
}

func (a JobsLoaded) apply(s *State) error {
	s.Jobs = make(map[string]domain.Job, len(a.Page.Jobs))
	s.JobOrder = make([]string, 0, len(a.Page.Jobs))
	for _, j := range a.Page.Jobs {
		s.Jobs[j.ID] = cloneJob(j)
		s.JobOrder = append(s.JobOrder, j.ID)
	}
	s.JobTotal = a.Page.Total
	if a.Page.Page > 0 {
		s.JobPage.Number = a.Page.Page
	}
	if a.Page.PageSize > 0 {
		s.JobPage.Size = a.Page.PageSize
	}
	s.JobsError = ""
	s.Loading.Jobs = false
	return nil
}

// JobsLoadFailed records a failed jobs fetch.
type JobsLoadFailed struct {
	Err error
}

func (a JobsLoadFailed) apply(s *State) error {
	s.Loading.Jobs = false
	if a.Err != nil {
		s.JobsError = a.Err.Error()
	}
	return nil
}

// JobsReordered applies a new display order to the loaded jobs. IDs must be a
// permutation of the current order. The jobs keep the set of Order values
// they already held, reassigned in the new sequence.
type JobsReordered struct {
	IDs []string
}

func (a JobsReordered) apply(s *State) error {
	if len(a.IDs) != len(s.JobOrder) {
		return fmt.Errorf("%w: %d ids for %d loaded jobs", domain.ErrInvalidOrder, len(a.IDs), len(s.JobOrder))
	}

	slots := make([]int, 0, len(a.IDs))
	seen := make(map[string]struct{}, len(a.IDs))
	for _, id := range a.IDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate job id %s", domain.ErrInvalidOrder, id)
		}
		seen[id] = struct{}{}

		j, ok := s.Jobs[id]
		if !ok {
			return fmt.Errorf("%w: job %s is not loaded", domain.ErrInvalidOrder, id)
		}
		slots = append(slots, j.Order)
	}
	sort.Ints(slots)

	for i, id := range a.IDs {
		j := s.Jobs[id]
		j.Order = slots[i]
		s.Jobs[id] = j
	}
	s.JobOrder = append([]string{}, a.IDs...)
	// a reorder supersedes any fetch still in flight
	s.Loading.Jobs = false
	return nil
}

// JobUpserted stores a job. A job that is not on the loaded page is cached
// for detail views without joining the display order.
type JobUpserted struct {
	Job domain.Job
}

func (a JobUpserted) apply(s *State) error {
	if !a.Job.Status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, a.Job.Status)
	}
	s.Jobs[a.Job.ID] = cloneJob(a.Job)
	return nil
}

// JobRemoved drops a job from the loaded state. Cascade also drops its loaded
// candidates, as deleting a job does on the server.
type JobRemoved struct {
	ID      string
	Cascade bool
}

func (a JobRemoved) apply(s *State) error {
	delete(s.Jobs, a.ID)
	before := len(s.JobOrder)
	s.JobOrder = without(s.JobOrder, a.ID)
	if len(s.JobOrder) < before && s.JobTotal > 0 {
		s.JobTotal--
	}

	if !a.Cascade {
		return nil
	}
	for id, c := range s.Candidates {
		if c.JobID == a.ID {
			delete(s.Candidates, id)
			s.CandidateOrder = without(s.CandidateOrder, id)
		}
	}
	return nil
}

// JobFilterChanged sets the jobs filter and returns to the first page.
type JobFilterChanged struct {
	Filter JobFilter
}

func (a JobFilterChanged) apply(s *State) error {
	if a.Filter.Status != "" && !a.Filter.Status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, a.Filter.Status)
	}
	s.JobFilter = a.Filter
	s.JobPage.Number = 1
	return nil
}

// JobPageChanged moves the jobs list to another page. A zero Size keeps the
// current page size.
type JobPageChanged struct {
	Page domain.Page
}

func (a JobPageChanged) apply(s *State) error {
	if a.Page.Size == 0 {
		a.Page.Size = s.JobPage.Size
	}
	s.JobPage = a.Page.Normalize()
	return nil
}

// CandidatesRequested marks the candidates list as loading.
type CandidatesRequested struct{}

func (CandidatesRequested) apply(s *State) error {
	s.Loading.Candidates = true
	return nil
}

// CandidatesLoaded replaces the candidates list with a freshly fetched page.
// Candidates loaded individually with their notes and timeline are kept.
type CandidatesLoaded struct {
	Page domain.CandidatePage
}

func (a CandidatesLoaded) apply(s *State) error {
	for _, c := range a.Page.Candidates {
		if !c.Stage.Valid() {
			return fmt.Errorf("%w: candidate %s has stage %q", domain.ErrInvalidStage, c.ID, c.Stage)
		}
	}

	s.CandidateOrder = make([]string, 0, len(a.Page.Candidates))
	for _, c := range a.Page.Candidates {
		if prev, ok := s.Candidates[c.ID]; ok && len(c.Timeline) == 0 {
			c.Notes = prev.Notes
			c.Timeline = prev.Timeline
		}
		s.Candidates[c.ID] = cloneCandidate(c)
		s.CandidateOrder = append(s.CandidateOrder, c.ID)
	}
	s.CandidateTotal = a.Page.Total
	if a.Page.Page > 0 {
		s.CandidatePage.Number = a.Page.Page
	}
	if a.Page.PageSize > 0 {
		s.CandidatePage.Size = a.Page.PageSize
	}
	s.CandidatesError = ""
	s.Loading.Candidates = false
	return nil
}

// CandidatesLoadFailed records a failed candidates fetch.
type CandidatesLoadFailed struct {
	Err error
}

func (a CandidatesLoadFailed) apply(s *State) error {
	s.Loading.Candidates = false
	if a.Err != nil {
		s.CandidatesError = a.Err.Error()
	}
	return nil
}

// CandidateRequested marks a single candidate fetch as in flight.
type CandidateRequested struct{}

func (CandidateRequested) apply(s *State) error {
	s.Loading.Candidate = true
	return nil
}

// CandidateUpserted replaces a candidate wholesale. It is used both to store
// the server's copy and to restore a pre-move snapshot.
type CandidateUpserted struct {
	Candidate domain.Candidate
}

func (a CandidateUpserted) apply(s *State) error {
	if !a.Candidate.Stage.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStage, a.Candidate.Stage)
	}
	s.Candidates[a.Candidate.ID] = cloneCandidate(a.Candidate)
	s.Loading.Candidate = false
	return nil
}

// CandidateLoadFailed clears the single candidate loading flag.
type CandidateLoadFailed struct{}

func (CandidateLoadFailed) apply(s *State) error {
	s.Loading.Candidate = false
	return nil
}

// CandidateStageChanged moves a candidate and appends the transition to its
// timeline in one step. It is rejected unless the stored stage equals From.
type CandidateStageChanged struct {
	CandidateID string
	From        domain.Stage
	To          domain.Stage
	Event       domain.TimelineEvent
}

func (a CandidateStageChanged) apply(s *State) error {
	if !a.From.Valid() || !a.To.Valid() {
		return domain.ErrInvalidStage
	}
	if a.From == a.To {
		return ErrNoopTransition
	}

	c, ok := s.Candidates[a.CandidateID]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	if c.Stage != a.From {
		return domain.ErrStageConflict
	}

	c = cloneCandidate(c)
	c.Stage = a.To
	c.Timeline = append(c.Timeline, a.Event)
	s.Candidates[a.CandidateID] = c
	s.Loading.Candidates = false
	return nil
}

// CandidateFilterChanged sets the candidates filter and returns to the first
// page.
type CandidateFilterChanged struct {
	Filter CandidateFilter
}

func (a CandidateFilterChanged) apply(s *State) error {
	if a.Filter.Stage != "" && !a.Filter.Stage.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStage, a.Filter.Stage)
	}
	s.CandidateFilter = a.Filter
	s.CandidatePage.Number = 1
	return nil
}

// CandidatePageChanged moves the candidates list to another page. A zero Size
// keeps the current page size.
type CandidatePageChanged struct {
	Page domain.Page
}

func (a CandidatePageChanged) apply(s *State) error {
	if a.Page.Size == 0 {
		a.Page.Size = s.CandidatePage.Size
	}
	s.CandidatePage = a.Page.Normalize()
	return nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
