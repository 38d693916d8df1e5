package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() RigConfig {
	cfg := GetDefaultConfig()
	cfg.Dependencies = []DependencyDefinition{
		{Name: "toolkit-core", URL: "https://example.com/toolkit-core.git", Branch: "master"},
	}
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validTestConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *RigConfig)
		wantMsg string
	}{
		{
			name:    "missing repos root",
			mutate:  func(cfg *RigConfig) { cfg.ReposRoot = "" },
			wantMsg: "reposRoot",
		},
		{
			name: "dependency without name",
			mutate: func(cfg *RigConfig) {
				cfg.Dependencies = append(cfg.Dependencies, DependencyDefinition{URL: "https://example.com/x.git", Branch: "main"})
			},
			wantMsg: "no name",
		},
		{
			name: "duplicate dependency name",
			mutate: func(cfg *RigConfig) {
				cfg.Dependencies = append(cfg.Dependencies, cfg.Dependencies[0])
			},
			wantMsg: "duplicate",
		},
		{
			name: "dependency without url",
			mutate: func(cfg *RigConfig) {
				cfg.Dependencies[0].URL = ""
			},
			wantMsg: "no url",
		},
		{
			name: "dependency without branch",
			mutate: func(cfg *RigConfig) {
				cfg.Dependencies[0].Branch = ""
			},
			wantMsg: "no branch",
		},
		{
			name: "unknown requirements source",
			mutate: func(cfg *RigConfig) {
				cfg.Toolkit.RequirementsFrom = "nonexistent"
			},
			wantMsg: "requirementsFrom",
		},
		{
			name:    "missing display command",
			mutate:  func(cfg *RigConfig) { cfg.Display.Command = "" },
			wantMsg: "display.command",
		},
		{
			name:    "negative display number",
			mutate:  func(cfg *RigConfig) { cfg.Display.Number = -1 },
			wantMsg: "display.number",
		},
		{
			name:    "missing runner script",
			mutate:  func(cfg *RigConfig) { cfg.Runner.Script = "" },
			wantMsg: "runner.script",
		},
		{
			name: "coverage enabled without upload command",
			mutate: func(cfg *RigConfig) {
				cfg.Coverage.Enabled = true
				cfg.Coverage.UploadCommand = nil
			},
			wantMsg: "uploadCommand",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
