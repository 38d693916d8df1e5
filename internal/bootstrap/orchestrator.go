// Package bootstrap sequences the environment bootstrap and test
// orchestration: dependency resolution, runtime installs, virtual display
// startup, test execution and coverage reporting.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rigctl/internal/reporting"
	"rigctl/internal/runner"
)

// Step is a single unit of the bootstrap sequence. Steps run strictly in
// order; the first failure aborts everything after it.
type Step interface {
	Name() string
	Run(ctx context.Context) error
}

type funcStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (s *funcStep) Name() string                  { return s.name }
func (s *funcStep) Run(ctx context.Context) error { return s.fn(ctx) }

// NewStep adapts a function to the Step interface.
func NewStep(name string, fn func(ctx context.Context) error) Step {
	return &funcStep{name: name, fn: fn}
}

// Orchestrator runs the bootstrap steps sequentially. There are no retries,
// no partial-success semantics and no rollback: a failed step leaves
// whatever earlier steps produced in place and marks the rest skipped.
type Orchestrator struct {
	steps    []Step
	reporter reporting.Reporter
}

// New creates an orchestrator over the given step list.
func New(steps []Step, reporter reporting.Reporter) *Orchestrator {
	return &Orchestrator{
		steps:    steps,
		reporter: reporter,
	}
}

// StepNames returns the names of the steps in execution order.
func (o *Orchestrator) StepNames() []string {
	names := make([]string, len(o.steps))
	for i, step := range o.steps {
		names[i] = step.Name()
	}
	return names
}

// Run executes the steps in order. The returned error is the failing step's
// error wrapped with the step name, so callers can both read a labeled
// failure reason and unwrap the underlying cause (in particular the test
// runner's *runner.ExitError).
func (o *Orchestrator) Run(ctx context.Context) error {
	for i, step := range o.steps {
		if err := ctx.Err(); err != nil {
			o.markSkipped(o.steps[i:])
			return err
		}

		o.report(reporting.StepUpdate{Step: step.Name(), State: reporting.StateRunning})
		start := time.Now()

		if err := step.Run(ctx); err != nil {
			o.report(reporting.StepUpdate{
				Step:     step.Name(),
				State:    reporting.StateFailed,
				Err:      err,
				Duration: time.Since(start),
			})
			o.markSkipped(o.steps[i+1:])
			return fmt.Errorf("step %q: %w", step.Name(), err)
		}

		o.report(reporting.StepUpdate{
			Step:     step.Name(),
			State:    reporting.StateSucceeded,
			Duration: time.Since(start),
		})
	}
	return nil
}

func (o *Orchestrator) markSkipped(steps []Step) {
	for _, step := range steps {
		o.report(reporting.StepUpdate{Step: step.Name(), State: reporting.StateSkipped})
	}
}

func (o *Orchestrator) report(update reporting.StepUpdate) {
	if o.reporter != nil {
		o.reporter.Report(update)
	}
}

// ExitCode maps a bootstrap error to the process exit status. When the test
// runner itself failed, its exit code is propagated unchanged; any other
// failure maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}
	return 1
}
