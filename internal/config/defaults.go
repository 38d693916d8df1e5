package config

import (
	"os"
	"path/filepath"
	"time"
)

// GetDefaultConfig returns the default configuration for rigctl.
// The dependency list is empty by default; projects declare their own
// dependencies in .rigctl/config.yaml.
func GetDefaultConfig() RigConfig {
	return RigConfig{
		ReposRoot: filepath.Join(os.TempDir(), "external-repos"),
		Display: DisplayConfig{
			Number:       99,
			Command:      "Xvfb",
			ScreenSpec:   "1280x1024x24",
			ReadyTimeout: 30 * time.Second,
			PollInterval: 250 * time.Millisecond,
		},
		Toolkit: ToolkitConfig{
			Interpreter:      "python3",
			RequirementsFile: "requirements.txt",
			OffscreenVar:     "QT_QPA_PLATFORM",
			OffscreenValue:   "offscreen",
		},
		Runner: RunnerConfig{
			Script:       "./tests/run_tests.sh",
			CoverageFlag: "--with-coverage",
		},
		Coverage: CoverageConfig{
			Enabled:       true,
			UploadCommand: []string{"codecov"},
		},
	}
}
