// Package pytools installs the plugin's declared runtime dependencies and
// the GUI-toolkit binding into the interpreter that runs the test suite.
package pytools

import (
	"context"
	"fmt"
	"os"

	"rigctl/internal/utils"
	"rigctl/pkg/logging"
)

// Installer drives the interpreter's package manager. All installs are
// fatal on failure; the bootstrap sequence has no degraded mode.
type Installer struct {
	runner      utils.CommandRunner
	interpreter string
}

// NewInstaller creates an installer using the given interpreter executable
// (e.g. "python3" or "python3.9").
func NewInstaller(runner utils.CommandRunner, interpreter string) *Installer {
	if interpreter == "" {
		interpreter = "python3"
	}
	return &Installer{
		runner:      runner,
		interpreter: interpreter,
	}
}

// Interpreter returns the interpreter executable this installer drives.
func (i *Installer) Interpreter() string {
	return i.interpreter
}

// InstallRequirements installs the dependency manifest at manifestPath,
// which normally lives inside one of the freshly cloned repositories.
func (i *Installer) InstallRequirements(ctx context.Context, manifestPath string) error {
	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("dependency manifest %s is not readable: %w", manifestPath, err)
	}

	logging.Info("PyTools", "Installing dependency manifest %s", manifestPath)
	_, err := i.runner.Run(ctx, utils.CommandSpec{
		Name: i.interpreter,
		Args: []string{"-m", "pip", "install", "-r", manifestPath},
	})
	if err != nil {
		return fmt.Errorf("manifest install failed: %w", err)
	}
	return nil
}

// InstallBinding installs the GUI-toolkit binding package. When indexURL is
// set the install is restricted to that prebuilt wheel index; building the
// native binding from source is too costly for CI.
func (i *Installer) InstallBinding(ctx context.Context, pkg, indexURL string) error {
	if pkg == "" {
		logging.Debug("PyTools", "No toolkit binding package configured, skipping")
		return nil
	}

	args := []string{"-m", "pip", "install"}
	if indexURL != "" {
		args = append(args, "--index-url", indexURL)
	}
	args = append(args, pkg)

	logging.Info("PyTools", "Installing toolkit binding %s", pkg)
	_, err := i.runner.Run(ctx, utils.CommandSpec{
		Name: i.interpreter,
		Args: args,
	})
	if err != nil {
		return fmt.Errorf("binding install failed: %w", err)
	}
	return nil
}

// RunPostInstall runs the binding package's post-install configuration
// script with the configured interpreter. A missing script path means the
// binding needs no post-install step.
func (i *Installer) RunPostInstall(ctx context.Context, script string) error {
	if script == "" {
		return nil
	}

	logging.Info("PyTools", "Running binding post-install script %s", script)
	_, err := i.runner.Run(ctx, utils.CommandSpec{
		Name: i.interpreter,
		Args: []string{script, "-install"},
	})
	if err != nil {
		return fmt.Errorf("post-install script failed: %w", err)
	}
	return nil
}
