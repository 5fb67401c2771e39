// Package board holds the client-side state of the hiring board and the
// coordinator that applies user intents optimistically against a remote
// source of truth.
package board

import "github.com/cuongbtq/hireboard/internal/domain"

// JobFilter narrows the jobs list. Empty Status means all statuses.
type JobFilter struct {
	Search string
	Status domain.JobStatus
}

// CandidateFilter narrows the candidates list.
type CandidateFilter struct {
	Search string
	Stage  domain.Stage
	JobID  string
}

// Loading flags are set while a fetch for that slice is in flight.
type Loading struct {
	Jobs       bool
	Candidates bool
	Candidate  bool
}

// State is the normalized client state. Jobs and Candidates are keyed by id;
// JobOrder and CandidateOrder hold the ids of the currently loaded page in
// display order.
type State struct {
	Jobs      map[string]domain.Job
	JobOrder  []string
	JobTotal  int
	JobFilter JobFilter
	JobPage   domain.Page
	JobsError string

	Candidates      map[string]domain.Candidate
	CandidateOrder  []string
	CandidateTotal  int
	CandidateFilter CandidateFilter
	CandidatePage   domain.Page
	CandidatesError string

	Loading Loading
}

// NewState returns an empty state on the first page with the given page size.
func NewState(pageSize int) State {
	page := domain.Page{Number: 1, Size: pageSize}.Normalize()
	return State{
		Jobs:           map[string]domain.Job{},
		JobOrder:       []string{},
		JobPage:        page,
		Candidates:     map[string]domain.Candidate{},
		CandidateOrder: []string{},
		CandidatePage:  page,
	}
}

// Clone returns a deep copy that shares no slices or maps with s.
func (s State) Clone() State {
	out := s

	out.Jobs = make(map[string]domain.Job, len(s.Jobs))
	for id, j := range s.Jobs {
		out.Jobs[id] = cloneJob(j)
	}
	out.JobOrder = append([]string{}, s.JobOrder...)

	out.Candidates = make(map[string]domain.Candidate, len(s.Candidates))
	for id, c := range s.Candidates {
		out.Candidates[id] = cloneCandidate(c)
	}
	out.CandidateOrder = append([]string{}, s.CandidateOrder...)

	return out
}

func cloneJob(j domain.Job) domain.Job {
	if j.Tags != nil {
		j.Tags = append(domain.StringList{}, j.Tags...)
	}
	return j
}

func cloneCandidate(c domain.Candidate) domain.Candidate {
	if c.Skills != nil {
		c.Skills = append(domain.StringList{}, c.Skills...)
	}
	if c.Notes != nil {
		c.Notes = append([]domain.Note{}, c.Notes...)
	}
	if c.Timeline != nil {
		c.Timeline = append([]domain.TimelineEvent{}, c.Timeline...)
	}
	return c
}
