// Package app wires the configuration, the bootstrap components and the
// orchestrator into a runnable application.
package app

import (
	"context"
	"fmt"
	"os"

	"rigctl/internal/bootstrap"
	"rigctl/internal/config"
	"rigctl/internal/coverage"
	"rigctl/internal/display"
	"rigctl/internal/gitdep"
	"rigctl/internal/pytools"
	"rigctl/internal/reporting"
	"rigctl/internal/runner"
	"rigctl/internal/utils"
	"rigctl/pkg/logging"
)

// Application is the main application structure that bootstraps the test
// rig and runs the test suite.
type Application struct {
	config       *Config
	orchestrator *bootstrap.Orchestrator
	reporter     *reporting.ConsoleReporter
	displaySrv   *display.Server
}

// NewApplication creates and initializes a new application instance.
func NewApplication(cfg *Config) (*Application, error) {
	// Configure logging based on debug flag
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.Init(appLogLevel, os.Stdout)

	// Load rig configuration
	var rigCfg config.RigConfig
	var err error

	if cfg.ConfigPath != "" {
		rigCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("App", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Info("App", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		rigCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("App", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if err := rigCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.RigConfig = &rigCfg

	// Assemble the bootstrap components around a shared command runner.
	cmdRunner := utils.ExecRunner{}
	env := bootstrap.NewEnvSet()
	env.Set(EnvExternalReposRoot, rigCfg.ReposRoot)

	displaySrv := display.NewServer(rigCfg.Display)
	c := components{
		resolver:   gitdep.NewResolver(cmdRunner, rigCfg.ReposRoot),
		installer:  pytools.NewInstaller(cmdRunner, rigCfg.Toolkit.Interpreter),
		displaySrv: displaySrv,
		testRunner: runner.New(rigCfg.Runner),
		uploader:   coverage.NewUploader(cmdRunner, rigCfg.Coverage),
		env:        env,
	}

	reporter := reporting.NewConsoleReporter()
	orchestrator := bootstrap.New(buildSteps(cfg, c), reporter)

	return &Application{
		config:       cfg,
		orchestrator: orchestrator,
		reporter:     reporter,
		displaySrv:   displaySrv,
	}, nil
}

// Run executes the bootstrap sequence. The display server is always torn
// down on exit; cloned repositories are deliberately left in place for the
// ephemeral CI filesystem to dispose of.
func (a *Application) Run(ctx context.Context) error {
	if a.config.DryRun {
		fmt.Println("Planned bootstrap steps:")
		for i, name := range a.orchestrator.StepNames() {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
		return nil
	}

	defer a.displaySrv.Stop()

	err := a.orchestrator.Run(ctx)
	fmt.Print(a.reporter.Summary())
	return err
}
