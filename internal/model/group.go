package model

import "time"

// GroupTiming describes how the member stopwatches of a group relate in time.
type GroupTiming string

const (
	TimingParallel     GroupTiming = "parallel"
	TimingSequential   GroupTiming = "sequential"
	TimingIndependent  GroupTiming = "independent"
	TimingSynchronized GroupTiming = "synchronized"
	TimingOverlapping  GroupTiming = "overlapping"
)

// Valid reports whether the timing tag belongs to the closed set.
func (t GroupTiming) Valid() bool {
	switch t {
	case TimingParallel, TimingSequential, TimingIndependent, TimingSynchronized, TimingOverlapping:
		return true
	}
	return false
}

// GroupEvaluation describes how member results should be judged by consumers.
type GroupEvaluation string

const (
	EvaluationComparative  GroupEvaluation = "comparative"
	EvaluationCumulative   GroupEvaluation = "cumulative"
	EvaluationThreshold    GroupEvaluation = "threshold"
	EvaluationProportional GroupEvaluation = "proportional"
	EvaluationTrending     GroupEvaluation = "trending"
	EvaluationIndependent  GroupEvaluation = "independent"
)

// Valid reports whether the evaluation tag belongs to the closed set.
func (e GroupEvaluation) Valid() bool {
	switch e {
	case EvaluationComparative, EvaluationCumulative, EvaluationThreshold,
		EvaluationProportional, EvaluationTrending, EvaluationIndependent:
		return true
	}
	return false
}

// Group carries descriptive timing and evaluation traits for a set of
// stopwatches. The traits are pure metadata; interpretation is left to
// whoever consumes the member measurements.
type Group struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Name        string            `json:"name"`
	Timing      GroupTiming       `json:"timing"`
	Evaluations []GroupEvaluation `json:"evaluations"`
	MemberIDs   []string          `json:"memberIds"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
