package app

import (
	"context"
	"path/filepath"

	"rigctl/internal/bootstrap"
	"rigctl/internal/config"
	"rigctl/internal/coverage"
	"rigctl/internal/display"
	"rigctl/internal/gitdep"
	"rigctl/internal/pytools"
	"rigctl/internal/runner"
	"rigctl/pkg/logging"
)

// Step names, in execution order.
const (
	stepResolveDependencies = "resolve external dependencies"
	stepInstallRequirements = "install runtime dependencies"
	stepInstallBinding      = "install toolkit binding"
	stepStartDisplay        = "start virtual display"
	stepConfigureOffscreen  = "configure offscreen rendering"
	stepRunTests            = "run test suite"
	stepReportCoverage      = "report coverage"
)

// EnvExternalReposRoot is exported to the test runner's environment so the
// suite can locate the cloned dependency repositories.
const EnvExternalReposRoot = "EXTERNAL_REPOS_ROOT"

// components bundles the concrete collaborators the steps are built from,
// so tests can substitute any of them.
type components struct {
	resolver   *gitdep.Resolver
	installer  *pytools.Installer
	displaySrv *display.Server
	testRunner *runner.TestRunner
	uploader   *coverage.Uploader
	env        *bootstrap.EnvSet
}

// buildSteps assembles the bootstrap step list from the configuration.
// The order matches the fixed sequence: clone, install, binding, display,
// offscreen, tests, coverage. The coverage step is present only when
// reporting is both enabled and not skipped; the manifest install step is
// present only when a manifest source is configured.
func buildSteps(cfg *Config, c components) []bootstrap.Step {
	rig := cfg.RigConfig

	steps := []bootstrap.Step{
		bootstrap.NewStep(stepResolveDependencies, func(ctx context.Context) error {
			return c.resolver.ResolveAll(ctx, rig.Dependencies)
		}),
	}

	if rig.Toolkit.RequirementsFrom != "" {
		steps = append(steps, bootstrap.NewStep(stepInstallRequirements, func(ctx context.Context) error {
			manifest := filepath.Join(
				c.resolver.Destination(dependencyByName(rig, rig.Toolkit.RequirementsFrom)),
				rig.Toolkit.RequirementsFile,
			)
			return c.installer.InstallRequirements(ctx, manifest)
		}))
	}

	steps = append(steps,
		bootstrap.NewStep(stepInstallBinding, func(ctx context.Context) error {
			if err := c.installer.InstallBinding(ctx, rig.Toolkit.BindingPackage, rig.Toolkit.WheelIndexURL); err != nil {
				return err
			}
			return c.installer.RunPostInstall(ctx, rig.Toolkit.PostInstallScript)
		}),
		bootstrap.NewStep(stepStartDisplay, func(ctx context.Context) error {
			if err := c.displaySrv.Start(ctx); err != nil {
				return err
			}
			if err := c.displaySrv.WaitReady(ctx); err != nil {
				return err
			}
			c.env.Set("DISPLAY", c.displaySrv.DisplayValue())
			return nil
		}),
		bootstrap.NewStep(stepConfigureOffscreen, func(ctx context.Context) error {
			// Belt and suspenders: some toolkit versions probe for a real
			// X connection even with a virtual display running.
			c.env.Set(rig.Toolkit.OffscreenVar, rig.Toolkit.OffscreenValue)
			logging.Debug("Bootstrap", "Set %s=%s", rig.Toolkit.OffscreenVar, rig.Toolkit.OffscreenValue)
			return nil
		}),
		bootstrap.NewStep(stepRunTests, func(ctx context.Context) error {
			return c.testRunner.Run(ctx, c.env.Snapshot())
		}),
	)

	if rig.Coverage.Enabled && !cfg.SkipReport {
		steps = append(steps, bootstrap.NewStep(stepReportCoverage, func(ctx context.Context) error {
			return c.uploader.Upload(ctx)
		}))
	}

	return steps
}

func dependencyByName(rig *config.RigConfig, name string) config.DependencyDefinition {
	for _, dep := range rig.Dependencies {
		if dep.Name == name {
			return dep
		}
	}
	// Validate rejects unknown references; reaching here means the step was
	// built from an unvalidated config.
	return config.DependencyDefinition{Name: name}
}
