package display

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigctl/internal/config"
)

// writeFakeServer creates an executable script standing in for the display
// server binary. It accepts any arguments.
func writeFakeServer(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-display-server")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestDisplayValue(t *testing.T) {
	server := NewServer(config.DisplayConfig{Number: 99})
	assert.Equal(t, ":99", server.DisplayValue())
}

func TestWaitReady_ProbeSucceedsAfterDelay(t *testing.T) {
	var polls atomic.Int32
	server := NewServerWithProbe(config.DisplayConfig{
		Number:       99,
		ReadyTimeout: 2 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}, func(number int) bool {
		assert.Equal(t, 99, number)
		return polls.Add(1) >= 4
	})

	err := server.WaitReady(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, polls.Load(), int32(4))
}

func TestWaitReady_TimesOutWhenStartupExceedsDeadline(t *testing.T) {
	// A server whose startup takes longer than the configured deadline must
	// surface a readiness failure rather than proceed to the test runner.
	server := NewServerWithProbe(config.DisplayConfig{
		Number:       99,
		ReadyTimeout: 50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}, func(int) bool { return false })

	err := server.WaitReady(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready after")
}

func TestWaitReady_ContextCanceled(t *testing.T) {
	server := NewServerWithProbe(config.DisplayConfig{
		Number:       99,
		ReadyTimeout: 5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}, func(int) bool { return false })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := server.WaitReady(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitReady_ServerDiedBeforeReady(t *testing.T) {
	cmd := writeFakeServer(t, "exit 1")
	server := NewServerWithProbe(config.DisplayConfig{
		Number:       99,
		Command:      cmd,
		ReadyTimeout: 5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}, func(int) bool { return false })

	require.NoError(t, server.Start(context.Background()))
	defer server.Stop()

	err := server.WaitReady(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited before becoming ready")
}

func TestStartAndStop(t *testing.T) {
	cmd := writeFakeServer(t, "sleep 60")
	server := NewServerWithProbe(config.DisplayConfig{
		Number:       99,
		Command:      cmd,
		ScreenSpec:   "1280x1024x24",
		ReadyTimeout: 5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}, func(int) bool { return true })

	require.NoError(t, server.Start(context.Background()))
	require.NoError(t, server.WaitReady(context.Background()))

	// Stop must terminate the process and return promptly
	done := make(chan struct{})
	go func() {
		server.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Stop did not return in time")
	}

	// A second Stop is a no-op
	server.Stop()
}

func TestStart_Twice(t *testing.T) {
	cmd := writeFakeServer(t, "sleep 60")
	server := NewServerWithProbe(config.DisplayConfig{
		Number:  99,
		Command: cmd,
	}, func(int) bool { return true })

	require.NoError(t, server.Start(context.Background()))
	defer server.Stop()

	err := server.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestStart_MissingExecutable(t *testing.T) {
	server := NewServer(config.DisplayConfig{
		Number:  99,
		Command: "definitely-not-a-real-display-server",
	})
	err := server.Start(context.Background())
	require.Error(t, err)
}

func TestDefaultSocketProbe_MissingSocket(t *testing.T) {
	// Display 32765 is never going to exist on a test machine
	assert.False(t, DefaultSocketProbe(32765))
}
