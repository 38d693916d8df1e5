// Package reporting tracks and renders the progress of the bootstrap steps.
package reporting

import (
	"time"
)

// StepState represents the current state of a bootstrap step.
type StepState string

const (
	StatePending   StepState = "Pending"
	StateRunning   StepState = "Running"
	StateSucceeded StepState = "Succeeded"
	StateFailed    StepState = "Failed"
	StateSkipped   StepState = "Skipped"
)

// StepUpdate describes a state transition of one bootstrap step.
type StepUpdate struct {
	Step      string
	State     StepState
	Err       error
	Duration  time.Duration
	Timestamp time.Time
}

// Reporter receives step state transitions from the orchestrator.
type Reporter interface {
	Report(update StepUpdate)
}
