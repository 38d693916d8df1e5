package app

import (
	"rigctl/internal/config"
)

// Config holds the application-level settings collected from the command
// line, plus the loaded rig configuration.
type Config struct {
	// ConfigPath optionally points at a single configuration file instead
	// of the layered default lookup.
	ConfigPath string

	// Debug enables verbose logging.
	Debug bool

	// DryRun prints the step plan without executing anything.
	DryRun bool

	// SkipReport disables the coverage upload regardless of configuration.
	SkipReport bool

	// RigConfig is populated by NewApplication.
	RigConfig *config.RigConfig
}

// NewConfig creates a new application configuration.
func NewConfig(configPath string, debug, dryRun, skipReport bool) *Config {
	return &Config{
		ConfigPath: configPath,
		Debug:      debug,
		DryRun:     dryRun,
		SkipReport: skipReport,
	}
}
