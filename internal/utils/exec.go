package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

// CommandSpec describes a single external command invocation.
type CommandSpec struct {
	Name string
	Args []string
	Dir  string

	// Env is overlaid on the parent process environment. Values here win
	// over inherited variables of the same name.
	Env map[string]string
}

// CommandResult captures the outcome of a completed command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts external process invocation so orchestration logic
// can be tested without spawning real processes.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (CommandResult, error)
}

// ExecRunner is the CommandRunner implementation backed by os/exec.
type ExecRunner struct{}

// Run executes the command described by spec, blocking until it exits.
// It captures and returns the standard output and standard error. On a
// non-zero exit the returned error includes the command's stderr for better
// diagnostics, and CommandResult.ExitCode carries the child's exit code.
func (ExecRunner) Run(ctx context.Context, spec CommandSpec) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = MergedEnv(spec.Env)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()

	result := CommandResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		// Include the command's stderr in the error message for better diagnostics
		return result, fmt.Errorf("failed to execute '%s %v': %w. Stderr: %s", spec.Name, spec.Args, runErr, result.Stderr)
	}
	return result, nil
}

// MergedEnv combines the parent environment with the overlay map, with
// overlay entries appended last so they take precedence. Overlay keys are
// sorted for deterministic output.
func MergedEnv(overlay map[string]string) []string {
	env := os.Environ()
	if len(overlay) == 0 {
		return env
	}
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, overlay[k]))
	}
	return env
}
