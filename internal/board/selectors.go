package board

import (
	"github.com/cuongbtq/hireboard/internal/domain"
)

// JobsInOrder returns the loaded jobs in display order.
func JobsInOrder(s State) []domain.Job {
	jobs := make([]domain.Job, 0, len(s.JobOrder))
	for _, id := range s.JobOrder {
		if j, ok := s.Jobs[id]; ok {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// CandidatesInOrder returns the loaded candidates page in display order.
func CandidatesInOrder(s State) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(s.CandidateOrder))
	for _, id := range s.CandidateOrder {
		if c, ok := s.Candidates[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// CandidateByID returns a loaded candidate, including ones fetched for a
// detail view that are not on the current page.
func CandidateByID(s State, id string) (domain.Candidate, bool) {
	c, ok := s.Candidates[id]
	return c, ok
}

// GroupByStage buckets candidates into the six pipeline columns, keeping the
// input order within each column. Every stage has an entry, possibly empty.
func GroupByStage(candidates []domain.Candidate) map[domain.Stage][]domain.Candidate {
	columns := make(map[domain.Stage][]domain.Candidate, len(domain.Stages))
	for _, stage := range domain.Stages {
		columns[stage] = []domain.Candidate{}
	}
	for _, c := range candidates {
		if _, ok := columns[c.Stage]; ok {
			columns[c.Stage] = append(columns[c.Stage], c)
		}
	}
	return columns
}

// CandidatesByStage is the kanban view of one job's loaded candidates.
func CandidatesByStage(s State, jobID string) map[domain.Stage][]domain.Candidate {
	var forJob []domain.Candidate
	for _, c := range CandidatesInOrder(s) {
		if c.JobID == jobID {
			forJob = append(forJob, c)
		}
	}
	return GroupByStage(forJob)
}

// Window describes one page of a paginated list: which items it shows
// (1-based, inclusive) and whether neighbours exist.
type Window struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	First      int
	Last       int
	HasPrev    bool
	HasNext    bool
}

// PageWindow computes the window for page of size over total items. Pages
// past the end are clamped to the last page. An empty list has zero pages
// and reports page 1 with First and Last zero.
func PageWindow(total, page, size int) Window {
	p := domain.Page{Number: page, Size: size}.Normalize()
	if total < 0 {
		total = 0
	}

	totalPages := (total + p.Size - 1) / p.Size
	if totalPages == 0 {
		return Window{Page: 1, PageSize: p.Size, TotalPages: 0}
	}
	if p.Number > totalPages {
		p.Number = totalPages
	}

	first := (p.Number-1)*p.Size + 1
	last := min(p.Number*p.Size, total)

	return Window{
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: totalPages,
		First:      first,
		Last:       last,
		HasPrev:    p.Number > 1,
		HasNext:    p.Number < totalPages,
	}
}
