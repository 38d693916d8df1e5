// Package runner invokes the externally supplied test script and surfaces
// its exit code to the caller unchanged.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"rigctl/internal/config"
	"rigctl/internal/utils"
	"rigctl/pkg/logging"
)

// ExitError carries the test script's exit code so the orchestrator can
// propagate it as the process exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("test runner exited with code %d", e.Code)
}

// TestRunner runs the configured test script with coverage instrumentation.
type TestRunner struct {
	cfg config.RunnerConfig
}

// New creates a test runner for the given configuration.
func New(cfg config.RunnerConfig) *TestRunner {
	return &TestRunner{cfg: cfg}
}

// Run executes the test script with the coverage flag appended, overlaying
// env on the inherited environment. The script's output is streamed line by
// line into the log. A non-zero exit is returned as *ExitError; any other
// failure to run the script at all is returned as a regular error.
func (r *TestRunner) Run(ctx context.Context, env map[string]string) error {
	args := append([]string{}, r.cfg.Args...)
	if r.cfg.CoverageFlag != "" {
		args = append(args, r.cfg.CoverageFlag)
	}

	cmd := exec.CommandContext(ctx, r.cfg.Script, args...)
	cmd.Env = utils.MergedEnv(env)

	stdoutPipe, pipeErr := cmd.StdoutPipe()
	if pipeErr != nil {
		return fmt.Errorf("stdout pipe for test runner: %w", pipeErr)
	}
	stderrPipe, pipeErr := cmd.StderrPipe()
	if pipeErr != nil {
		stdoutPipe.Close()
		return fmt.Errorf("stderr pipe for test runner: %w", pipeErr)
	}

	logging.Info("TestRunner", "Running %s %v", r.cfg.Script, args)
	if err := cmd.Start(); err != nil {
		stdoutPipe.Close()
		stderrPipe.Close()
		return fmt.Errorf("failed to start test runner '%s': %w", r.cfg.Script, err)
	}

	// Both pipes must be drained before Wait; stream them concurrently so
	// neither side can fill its buffer and stall the child.
	g := new(errgroup.Group)
	g.Go(func() error { return streamLines(stdoutPipe, "STDOUT") })
	g.Go(func() error { return streamLines(stderrPipe, "STDERR") })
	if err := g.Wait(); err != nil {
		logging.Warn("TestRunner", "Error streaming test runner output: %v", err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("test runner failed: %w", err)
	}
	return nil
}

func streamLines(pipe io.Reader, label string) error {
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		logging.Info("TestRunner", "[%s] %s", label, scanner.Text())
	}
	return scanner.Err()
}
