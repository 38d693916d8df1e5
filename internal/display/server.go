// Package display manages the virtual display server that satisfies the GUI
// toolkit's requirement for an active display connection in headless CI.
package display

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"rigctl/internal/config"
	"rigctl/pkg/logging"
)

const (
	defaultReadyTimeout = 30 * time.Second
	defaultPollInterval = 250 * time.Millisecond
	stopTimeout         = 5 * time.Second
)

// ReadyProbe reports whether the display identified by number accepts
// connections. The default probe checks for the X11 socket; tests inject
// their own.
type ReadyProbe func(number int) bool

// DefaultSocketProbe checks for the display server's unix socket under
// /tmp/.X11-unix, which appears once the server is accepting connections.
func DefaultSocketProbe(number int) bool {
	_, err := os.Stat(filepath.Join("/tmp/.X11-unix", fmt.Sprintf("X%d", number)))
	return err == nil
}

// Server starts and supervises a single virtual display server process.
type Server struct {
	cfg   config.DisplayConfig
	probe ReadyProbe

	mu       sync.Mutex
	cmd      *exec.Cmd
	pid      int
	stopChan chan struct{}
	done     chan struct{}
	exited   atomic.Bool
	exitErr  error
}

// NewServer creates a display server manager using the default socket probe.
func NewServer(cfg config.DisplayConfig) *Server {
	return NewServerWithProbe(cfg, DefaultSocketProbe)
}

// NewServerWithProbe creates a display server manager with a custom
// readiness probe.
func NewServerWithProbe(cfg config.DisplayConfig, probe ReadyProbe) *Server {
	if probe == nil {
		probe = DefaultSocketProbe
	}
	return &Server{
		cfg:   cfg,
		probe: probe,
	}
}

// DisplayValue returns the display identifier in the form ":<number>",
// suitable for the DISPLAY environment variable.
func (s *Server) DisplayValue() string {
	return fmt.Sprintf(":%d", s.cfg.Number)
}

// Start launches the display server process bound to the configured display
// number. It returns as soon as the process is running; readiness is a
// separate concern handled by WaitReady.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("display server already started")
	}

	args := []string{s.DisplayValue()}
	if s.cfg.ScreenSpec != "" {
		args = append(args, "-screen", "0", s.cfg.ScreenSpec)
	}

	cmd := exec.Command(s.cfg.Command, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Env = os.Environ()

	stdoutPipe, pipeErr := cmd.StdoutPipe()
	if pipeErr != nil {
		return fmt.Errorf("stdout pipe for display server: %w", pipeErr)
	}
	stderrPipe, pipeErr := cmd.StderrPipe()
	if pipeErr != nil {
		stdoutPipe.Close()
		return fmt.Errorf("stderr pipe for display server: %w", pipeErr)
	}

	if err := cmd.Start(); err != nil {
		stdoutPipe.Close()
		stderrPipe.Close()
		return fmt.Errorf("failed to start display server '%s %v': %w", s.cfg.Command, args, err)
	}

	s.cmd = cmd
	s.pid = cmd.Process.Pid
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	logging.Info("Display", "Started %s on %s (PID: %d)", s.cfg.Command, s.DisplayValue(), s.pid)

	// Display servers chatter on both pipes; forward everything at debug.
	go func() {
		scanner := bufio.NewScanner(stdoutPipe)
		for scanner.Scan() {
			logging.Debug("Display", "[%s STDOUT] %s", s.cfg.Command, scanner.Text())
		}
	}()
	go func() {
		scanner := bufio.NewScanner(stderrPipe)
		for scanner.Scan() {
			logging.Debug("Display", "[%s STDERR] %s", s.cfg.Command, scanner.Text())
		}
	}()

	go s.supervise(cmd)

	return nil
}

// supervise waits for the child and records its exit so WaitReady can
// distinguish "not ready yet" from "already dead".
func (s *Server) supervise(cmd *exec.Cmd) {
	defer close(s.done)

	processDone := make(chan error, 1)
	go func() { processDone <- cmd.Wait() }()

	select {
	case err := <-processDone:
		s.exitErr = err
		s.exited.Store(true)
		if err != nil {
			logging.Warn("Display", "Display server (PID: %d) exited with error: %v", s.pid, err)
		} else {
			logging.Info("Display", "Display server (PID: %d) exited", s.pid)
		}

	case <-s.stopChan:
		// Kill the whole process group; Xvfb forks helpers that would
		// otherwise outlive it.
		if err := syscall.Kill(-s.pid, syscall.SIGTERM); err != nil {
			logging.Warn("Display", "Failed to signal display server (PID: %d): %v", s.pid, err)
		}
		select {
		case err := <-processDone:
			s.exitErr = err
		case <-time.After(stopTimeout):
			logging.Warn("Display", "Display server (PID: %d) did not exit after SIGTERM, killing", s.pid)
			_ = syscall.Kill(-s.pid, syscall.SIGKILL)
			<-processDone
		}
		s.exited.Store(true)
		logging.Info("Display", "Stopped display server (PID: %d)", s.pid)
	}
}

// WaitReady polls the readiness probe until the display accepts connections,
// the configured timeout elapses, the process dies, or ctx is canceled.
// Polling replaces the fixed post-start sleep this sequence historically
// used; a slow-starting server is waited for, a dead one fails fast.
func (s *Server) WaitReady(ctx context.Context) error {
	timeout := s.cfg.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if s.exited.Load() {
			if s.exitErr != nil {
				return fmt.Errorf("display server exited before becoming ready: %w", s.exitErr)
			}
			return fmt.Errorf("display server exited before becoming ready")
		}
		if s.probe(s.cfg.Number) {
			logging.Info("Display", "Display %s is ready", s.DisplayValue())
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("display %s not ready after %s", s.DisplayValue(), timeout)
		case <-ticker.C:
		}
	}
}

// Stop terminates the display server and waits for the supervision
// goroutine to finish. Calling Stop on a server that never started, or
// twice, is a no-op.
func (s *Server) Stop() {
	s.mu.Lock()
	stopChan := s.stopChan
	done := s.done
	s.stopChan = nil
	s.mu.Unlock()

	if stopChan == nil {
		return
	}
	close(stopChan)
	<-done
}
