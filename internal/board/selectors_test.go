package board

import (
	"testing"

	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByStage(t *testing.T) {
	candidates := []domain.Candidate{
		{ID: "c1", Stage: domain.StageApplied},
		{ID: "c2", Stage: domain.StageTech},
		{ID: "c3", Stage: domain.StageApplied},
	}

	columns := GroupByStage(candidates)

	require.Len(t, columns, len(domain.Stages))
	for _, stage := range domain.Stages {
		assert.NotNil(t, columns[stage], "stage %s should have a column", stage)
	}
	assert.Equal(t, []string{"c1", "c3"}, ids(columns[domain.StageApplied]))
	assert.Equal(t, []string{"c2"}, ids(columns[domain.StageTech]))
	assert.Empty(t, columns[domain.StageHired])
}

func TestCandidatesByStage(t *testing.T) {
	s := NewState(10)
	for _, c := range []domain.Candidate{
		{ID: "c1", JobID: "j1", Stage: domain.StageOffer},
		{ID: "c2", JobID: "j2", Stage: domain.StageOffer},
		{ID: "c3", JobID: "j1", Stage: domain.StageScreen},
	} {
		s.Candidates[c.ID] = c
		s.CandidateOrder = append(s.CandidateOrder, c.ID)
	}

	columns := CandidatesByStage(s, "j1")
	assert.Equal(t, []string{"c1"}, ids(columns[domain.StageOffer]))
	assert.Equal(t, []string{"c3"}, ids(columns[domain.StageScreen]))
}

func TestJobsInOrder(t *testing.T) {
	s := NewState(10)
	s.Jobs["a"] = domain.Job{ID: "a", Order: 1}
	s.Jobs["b"] = domain.Job{ID: "b", Order: 0}
	s.Jobs["cached"] = domain.Job{ID: "cached"}
	s.JobOrder = []string{"b", "a"}

	jobs := JobsInOrder(s)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].ID)
	assert.Equal(t, "a", jobs[1].ID)
}

func TestCandidateByID(t *testing.T) {
	s := NewState(10)
	s.Candidates["c1"] = domain.Candidate{ID: "c1", Name: "Ada", Stage: domain.StageScreen}

	c, ok := CandidateByID(s, "c1")
	require.True(t, ok)
	assert.Equal(t, "Ada", c.Name)

	_, ok = CandidateByID(s, "missing")
	assert.False(t, ok)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name              string
		total, page, size int
		want              Window
	}{
		{
			name: "empty", total: 0, page: 1, size: 10,
			want: Window{Page: 1, PageSize: 10},
		},
		{
			name: "first of three", total: 25, page: 1, size: 10,
			want: Window{Page: 1, PageSize: 10, Total: 25, TotalPages: 3, First: 1, Last: 10, HasNext: true},
		},
		{
			name: "partial last page", total: 25, page: 3, size: 10,
			want: Window{Page: 3, PageSize: 10, Total: 25, TotalPages: 3, First: 21, Last: 25, HasPrev: true},
		},
		{
			name: "past the end clamps", total: 25, page: 9, size: 10,
			want: Window{Page: 3, PageSize: 10, Total: 25, TotalPages: 3, First: 21, Last: 25, HasPrev: true},
		},
		{
			name: "default size", total: 5, page: 0, size: 0,
			want: Window{Page: 1, PageSize: domain.DefaultPageSize, Total: 5, TotalPages: 1, First: 1, Last: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.total, tt.page, tt.size))
		})
	}
}

func ids(candidates []domain.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}
