package domain

import "fmt"

// Stage is a candidate's position in the hiring pipeline.
type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages lists the pipeline columns in board order.
var Stages = []Stage{
	StageApplied,
	StageScreen,
	StageTech,
	StageOffer,
	StageHired,
	StageRejected,
}

var stageLabels = map[Stage]string{
	StageApplied:  "Applied",
	StageScreen:   "Screening",
	StageTech:     "Technical",
	StageOffer:    "Offer",
	StageHired:    "Hired",
	StageRejected: "Rejected",
}

// Valid reports whether s is one of the six pipeline stages.
func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the column title shown for the stage. Unknown stages fall
// back to their raw value.
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStage validates a raw stage value.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, raw)
	}
	return s, nil
}

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusDraft    JobStatus = "draft"
	JobStatusArchived JobStatus = "archived"
)

// Valid reports whether s is one of the three job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusDraft, JobStatusArchived:
		return true
	}
	return false
}

// ParseJobStatus validates a raw status value.
func ParseJobStatus(raw string) (JobStatus, error) {
	s := JobStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
