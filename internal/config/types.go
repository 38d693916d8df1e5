package config

import (
	"fmt"
	"time"
)

// RigConfig is the top-level configuration structure for rigctl.
type RigConfig struct {
	// ReposRoot is the writable root directory under which all external
	// dependency repositories are materialized. Overridable via the
	// RIGCTL_REPOS_ROOT environment variable so CI runs can be isolated.
	ReposRoot string `yaml:"reposRoot,omitempty"`

	Dependencies []DependencyDefinition `yaml:"dependencies,omitempty"`
	Display      DisplayConfig          `yaml:"display,omitempty"`
	Toolkit      ToolkitConfig          `yaml:"toolkit,omitempty"`
	Runner       RunnerConfig           `yaml:"runner,omitempty"`
	Coverage     CoverageConfig         `yaml:"coverage,omitempty"`
}

// DependencyDefinition describes one external source dependency to resolve
// before the test suite runs. Each dependency is resolved exactly once per
// run, as a shallow snapshot of the named branch.
type DependencyDefinition struct {
	Name   string `yaml:"name"`             // Unique name, e.g. "toolkit-core"
	URL    string `yaml:"url"`              // Clone URL
	Branch string `yaml:"branch"`           // Branch to snapshot
	Path   string `yaml:"path,omitempty"`   // Destination relative to ReposRoot (defaults to Name)
	Depth  int    `yaml:"depth,omitempty"`  // Clone depth (defaults to 1)

	// Revision optionally pins the dependency to an exact commit. Branch
	// snapshots alone are not reproducible across runs; setting Revision
	// fetches and checks out that commit after the shallow clone.
	Revision string `yaml:"revision,omitempty"`
}

// DisplayConfig describes the virtual display server required by the GUI
// toolkit binding even when no visible window is produced.
type DisplayConfig struct {
	Number     int    `yaml:"number,omitempty"`     // Display number, e.g. 99 for ":99"
	Command    string `yaml:"command,omitempty"`    // Server executable, e.g. "Xvfb"
	ScreenSpec string `yaml:"screenSpec,omitempty"` // Screen geometry, e.g. "1280x1024x24"

	// ReadyTimeout bounds how long the bootstrap waits for the display
	// socket to appear; PollInterval is the probe cadence.
	ReadyTimeout time.Duration `yaml:"readyTimeout,omitempty"`
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`
}

// ToolkitConfig describes the GUI-toolkit binding installation and the
// offscreen rendering settings handed to the test runner's environment.
type ToolkitConfig struct {
	Interpreter       string `yaml:"interpreter,omitempty"`       // e.g. "python3" or "python3.9"
	BindingPackage    string `yaml:"bindingPackage,omitempty"`    // e.g. "PySide2" or "PySide2==5.15.2"
	WheelIndexURL     string `yaml:"wheelIndexURL,omitempty"`     // Prebuilt wheel index the binding install is restricted to
	PostInstallScript string `yaml:"postInstallScript,omitempty"` // Optional binding post-install script
	RequirementsFrom  string `yaml:"requirementsFrom,omitempty"`  // Dependency name providing the manifest
	RequirementsFile  string `yaml:"requirementsFile,omitempty"`  // Manifest path relative to that dependency

	// OffscreenVar / OffscreenValue force the toolkit into offscreen
	// rendering. Kept even with a virtual display running: some toolkit
	// versions still probe for a real X connection otherwise.
	OffscreenVar   string `yaml:"offscreenVar,omitempty"`
	OffscreenValue string `yaml:"offscreenValue,omitempty"`
}

// RunnerConfig describes the externally supplied test runner script.
type RunnerConfig struct {
	Script       string   `yaml:"script"`                 // Test runner path, e.g. "./tests/run_tests.sh"
	Args         []string `yaml:"args,omitempty"`         // Extra arguments passed before the coverage flag
	CoverageFlag string   `yaml:"coverageFlag,omitempty"` // Flag requesting coverage instrumentation
}

// CoverageConfig describes the coverage-reporting upload that runs only
// after a successful test run.
type CoverageConfig struct {
	Enabled       bool     `yaml:"enabled,omitempty"`
	UploadCommand []string `yaml:"uploadCommand,omitempty"` // e.g. ["codecov"]
}

// Validate checks that the configuration is complete enough to run the
// bootstrap sequence.
func (c *RigConfig) Validate() error {
	if c.ReposRoot == "" {
		return fmt.Errorf("reposRoot must be set")
	}
	seen := make(map[string]bool, len(c.Dependencies))
	for _, dep := range c.Dependencies {
		if dep.Name == "" {
			return fmt.Errorf("dependency with url %q has no name", dep.URL)
		}
		if seen[dep.Name] {
			return fmt.Errorf("duplicate dependency name %q", dep.Name)
		}
		seen[dep.Name] = true
		if dep.URL == "" {
			return fmt.Errorf("dependency %q has no url", dep.Name)
		}
		if dep.Branch == "" {
			return fmt.Errorf("dependency %q has no branch", dep.Name)
		}
	}
	if c.Toolkit.RequirementsFrom != "" && !seen[c.Toolkit.RequirementsFrom] {
		return fmt.Errorf("toolkit.requirementsFrom references unknown dependency %q", c.Toolkit.RequirementsFrom)
	}
	if c.Display.Command == "" {
		return fmt.Errorf("display.command must be set")
	}
	if c.Display.Number < 0 {
		return fmt.Errorf("display.number must be >= 0, got %d", c.Display.Number)
	}
	if c.Runner.Script == "" {
		return fmt.Errorf("runner.script must be set")
	}
	if c.Coverage.Enabled && len(c.Coverage.UploadCommand) == 0 {
		return fmt.Errorf("coverage is enabled but uploadCommand is empty")
	}
	return nil
}
