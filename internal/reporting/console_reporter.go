package reporting

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"rigctl/pkg/logging"
)

var (
	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	skippedStyle   = lipgloss.NewStyle().Faint(true)
	stepNameStyle  = lipgloss.NewStyle().Bold(true)
)

// ConsoleReporter logs step transitions via pkg/logging and keeps the
// latest state of each step for the end-of-run summary.
type ConsoleReporter struct {
	mu     sync.Mutex
	order  []string
	latest map[string]StepUpdate
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		latest: make(map[string]StepUpdate),
	}
}

// Report processes a StepUpdate by logging it and recording it for Summary.
func (c *ConsoleReporter) Report(update StepUpdate) {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}

	c.mu.Lock()
	if _, seen := c.latest[update.Step]; !seen {
		c.order = append(c.order, update.Step)
	}
	c.latest[update.Step] = update
	c.mu.Unlock()

	switch update.State {
	case StateRunning:
		logging.Info("Bootstrap", "Step %q started", update.Step)
	case StateSucceeded:
		logging.Info("Bootstrap", "Step %q succeeded in %s", update.Step, update.Duration.Round(time.Millisecond))
	case StateFailed:
		logging.Error("Bootstrap", update.Err, "Step %q failed after %s", update.Step, update.Duration.Round(time.Millisecond))
	case StateSkipped:
		logging.Info("Bootstrap", "Step %q skipped", update.Step)
	}
}

// StepState returns the latest recorded state for a step name.
func (c *ConsoleReporter) StepState(step string) (StepState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update, ok := c.latest[step]
	if !ok {
		return "", false
	}
	return update.State, true
}

// Summary renders a one-line-per-step report of the whole run.
func (c *ConsoleReporter) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	b.WriteString(stepNameStyle.Render("Bootstrap summary"))
	b.WriteString("\n")
	for _, name := range c.order {
		update := c.latest[name]
		switch update.State {
		case StateSucceeded:
			b.WriteString(succeededStyle.Render(fmt.Sprintf("  ✓ %s (%s)", name, update.Duration.Round(time.Millisecond))))
		case StateFailed:
			b.WriteString(failedStyle.Render(fmt.Sprintf("  ✗ %s: %v", name, update.Err)))
		case StateSkipped:
			b.WriteString(skippedStyle.Render(fmt.Sprintf("  - %s (skipped)", name)))
		default:
			b.WriteString(fmt.Sprintf("  ? %s (%s)", name, update.State))
		}
		b.WriteString("\n")
	}
	return b.String()
}
