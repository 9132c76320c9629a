// Package pipeline wires the five processing stages into one sequential run.
// A run is a pure function of (raw tables, configuration) to (attributed
// dataset, diagnostic report, aggregate summary); nothing survives between
// runs.
package pipeline

import "time"

// StageStatus represents the current status of a stage.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// Stage identifiers, in execution order.
const (
	StageSchemaNormalize  = "schema_normalize"
	StageExclusionFilter  = "exclusion_filter"
	StageClassification   = "classification"
	StagePolicyExclusion  = "policy_exclusion"
	StageReferenceMapping = "reference_mapping"
	StageAggregation      = "aggregation"
)

// StageState is the runtime record of one stage execution. Timing lives here
// and in the logs only; the diagnostic report stays byte-deterministic.
type StageState struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// NewStageState creates a stage state in pending status.
func NewStageState(id, name string) *StageState {
	return &StageState{ID: id, Name: name, Status: StageStatusPending}
}

// Start marks the stage as active and sets the start time.
func (s *StageState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
}

// Complete marks the stage as completed and sets the end time.
func (s *StageState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
}

// Fail marks the stage as failed with the given error.
func (s *StageState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	if err != nil {
		s.Message = err.Error()
	}
}

// Duration returns the duration of the stage execution.
func (s *StageState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}
