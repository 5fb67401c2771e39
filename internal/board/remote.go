package board

import (
	"context"

	"github.com/cuongbtq/hireboard/internal/domain"
)

// Remote is the source of truth the coordinator reconciles against. Every
// call either resolves or returns an error; none are retried.
type Remote interface {
	FetchJobs(ctx context.Context, q domain.JobQuery) (domain.JobPage, error)
	FetchJob(ctx context.Context, id string) (domain.Job, error)
	CreateJob(ctx context.Context, in domain.JobInput) (domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	ReorderJobs(ctx context.Context, ids []string) error

	FetchCandidates(ctx context.Context, q domain.CandidateQuery) (domain.CandidatePage, error)
	FetchCandidate(ctx context.Context, id string) (domain.Candidate, error)
	UpdateCandidateStage(ctx context.Context, change domain.StageChange) (domain.Candidate, error)
	AddCandidateNote(ctx context.Context, id string, in domain.NoteInput) (domain.Candidate, error)
}
