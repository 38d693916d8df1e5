package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigctl/internal/bootstrap"
	"rigctl/internal/config"
	"rigctl/internal/coverage"
	"rigctl/internal/display"
	"rigctl/internal/gitdep"
	"rigctl/internal/pytools"
	"rigctl/internal/runner"
	"rigctl/internal/utils"
)

// mockCommandRunner implements utils.CommandRunner for testing
type mockCommandRunner struct {
	calls []utils.CommandSpec
}

func (m *mockCommandRunner) Run(ctx context.Context, spec utils.CommandSpec) (utils.CommandResult, error) {
	m.calls = append(m.calls, spec)
	return utils.CommandResult{}, nil
}

func testComponents(rig *config.RigConfig, mock *mockCommandRunner) components {
	return components{
		resolver:   gitdep.NewResolver(mock, rig.ReposRoot),
		installer:  pytools.NewInstaller(mock, rig.Toolkit.Interpreter),
		displaySrv: display.NewServer(rig.Display),
		testRunner: runner.New(rig.Runner),
		uploader:   coverage.NewUploader(mock, rig.Coverage),
		env:        bootstrap.NewEnvSet(),
	}
}

func testRigConfig(t *testing.T) *config.RigConfig {
	t.Helper()
	rig := config.GetDefaultConfig()
	rig.ReposRoot = t.TempDir()
	rig.Dependencies = []config.DependencyDefinition{
		{Name: "toolkit-core", URL: "https://example.com/toolkit-core.git", Branch: "master"},
	}
	rig.Toolkit.RequirementsFrom = "toolkit-core"
	return &rig
}

func stepNames(steps []bootstrap.Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name()
	}
	return names
}

func TestBuildSteps_FullSequenceOrder(t *testing.T) {
	rig := testRigConfig(t)
	cfg := &Config{RigConfig: rig}

	steps := buildSteps(cfg, testComponents(rig, &mockCommandRunner{}))

	assert.Equal(t, []string{
		stepResolveDependencies,
		stepInstallRequirements,
		stepInstallBinding,
		stepStartDisplay,
		stepConfigureOffscreen,
		stepRunTests,
		stepReportCoverage,
	}, stepNames(steps))
}

func TestBuildSteps_NoRequirementsSource(t *testing.T) {
	rig := testRigConfig(t)
	rig.Toolkit.RequirementsFrom = ""
	cfg := &Config{RigConfig: rig}

	steps := buildSteps(cfg, testComponents(rig, &mockCommandRunner{}))

	assert.NotContains(t, stepNames(steps), stepInstallRequirements)
}

func TestBuildSteps_CoverageDisabled(t *testing.T) {
	rig := testRigConfig(t)
	rig.Coverage.Enabled = false
	cfg := &Config{RigConfig: rig}

	steps := buildSteps(cfg, testComponents(rig, &mockCommandRunner{}))

	assert.NotContains(t, stepNames(steps), stepReportCoverage)
}

func TestBuildSteps_SkipReportFlag(t *testing.T) {
	rig := testRigConfig(t)
	cfg := &Config{RigConfig: rig, SkipReport: true}

	steps := buildSteps(cfg, testComponents(rig, &mockCommandRunner{}))

	assert.NotContains(t, stepNames(steps), stepReportCoverage)
}

func TestOffscreenStep_SetsEnvironment(t *testing.T) {
	rig := testRigConfig(t)
	cfg := &Config{RigConfig: rig}
	c := testComponents(rig, &mockCommandRunner{})

	steps := buildSteps(cfg, c)
	var offscreen bootstrap.Step
	for _, s := range steps {
		if s.Name() == stepConfigureOffscreen {
			offscreen = s
		}
	}
	require.NotNil(t, offscreen)

	require.NoError(t, offscreen.Run(context.Background()))
	v, ok := c.env.Get(rig.Toolkit.OffscreenVar)
	require.True(t, ok)
	assert.Equal(t, rig.Toolkit.OffscreenValue, v)
}

func TestResolveStep_UsesResolver(t *testing.T) {
	rig := testRigConfig(t)
	cfg := &Config{RigConfig: rig}
	mock := &mockCommandRunner{}
	c := testComponents(rig, mock)

	steps := buildSteps(cfg, c)
	require.NoError(t, steps[0].Run(context.Background()))

	require.Len(t, mock.calls, 1)
	assert.Equal(t, "git", mock.calls[0].Name)
}

func TestDependencyByName(t *testing.T) {
	rig := testRigConfig(t)
	dep := dependencyByName(rig, "toolkit-core")
	assert.Equal(t, "https://example.com/toolkit-core.git", dep.URL)

	unknown := dependencyByName(rig, "missing")
	assert.Equal(t, "missing", unknown.Name)
	assert.Empty(t, unknown.URL)
}
