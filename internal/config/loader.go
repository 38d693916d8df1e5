package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/rigctl"
	projectConfigDir = ".rigctl"
	configFileName   = "config.yaml"
)

// Environment variables recognized by the loader.
const (
	EnvReposRoot     = "RIGCTL_REPOS_ROOT"
	EnvDisplayNumber = "RIGCTL_DISPLAY_NUMBER"
	EnvInterpreter   = "RIGCTL_INTERPRETER"
)

// LoadConfig loads the rigctl configuration by layering default, user, and
// project settings, then applying environment overrides.
func LoadConfig() (RigConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return RigConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return RigConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	// 4. Environment overrides take precedence over all file layers
	if err := applyEnvOverrides(&config); err != nil {
		return RigConfig{}, err
	}

	return config, nil
}

// LoadConfigFromPath loads the configuration from a single explicit file,
// layered on top of the defaults. Environment overrides still apply.
func LoadConfigFromPath(path string) (RigConfig, error) {
	config := GetDefaultConfig()

	fileConfig, err := loadConfigFromFile(path)
	if err != nil {
		return RigConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	config = mergeConfigs(config, fileConfig)

	if err := applyEnvOverrides(&config); err != nil {
		return RigConfig{}, err
	}
	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a RigConfig from a YAML file.
func loadConfigFromFile(filePath string) (RigConfig, error) {
	var config RigConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return RigConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return RigConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay RigConfig) RigConfig {
	mergedConfig := base

	if overlay.ReposRoot != "" {
		mergedConfig.ReposRoot = overlay.ReposRoot
	}

	// Merge dependencies by name (overlay replaces or appends, preserving
	// base order for entries that already exist).
	if len(overlay.Dependencies) > 0 {
		index := make(map[string]int, len(mergedConfig.Dependencies))
		for i, dep := range mergedConfig.Dependencies {
			index[dep.Name] = i
		}
		for _, dep := range overlay.Dependencies {
			if i, ok := index[dep.Name]; ok {
				mergedConfig.Dependencies[i] = dep
			} else {
				mergedConfig.Dependencies = append(mergedConfig.Dependencies, dep)
			}
		}
	}

	// Merge display settings (overlay overrides base field by field)
	if overlay.Display.Number != 0 {
		mergedConfig.Display.Number = overlay.Display.Number
	}
	if overlay.Display.Command != "" {
		mergedConfig.Display.Command = overlay.Display.Command
	}
	if overlay.Display.ScreenSpec != "" {
		mergedConfig.Display.ScreenSpec = overlay.Display.ScreenSpec
	}
	if overlay.Display.ReadyTimeout != 0 {
		mergedConfig.Display.ReadyTimeout = overlay.Display.ReadyTimeout
	}
	if overlay.Display.PollInterval != 0 {
		mergedConfig.Display.PollInterval = overlay.Display.PollInterval
	}

	// Merge toolkit settings
	if overlay.Toolkit.Interpreter != "" {
		mergedConfig.Toolkit.Interpreter = overlay.Toolkit.Interpreter
	}
	if overlay.Toolkit.BindingPackage != "" {
		mergedConfig.Toolkit.BindingPackage = overlay.Toolkit.BindingPackage
	}
	if overlay.Toolkit.WheelIndexURL != "" {
		mergedConfig.Toolkit.WheelIndexURL = overlay.Toolkit.WheelIndexURL
	}
	if overlay.Toolkit.PostInstallScript != "" {
		mergedConfig.Toolkit.PostInstallScript = overlay.Toolkit.PostInstallScript
	}
	if overlay.Toolkit.RequirementsFrom != "" {
		mergedConfig.Toolkit.RequirementsFrom = overlay.Toolkit.RequirementsFrom
	}
	if overlay.Toolkit.RequirementsFile != "" {
		mergedConfig.Toolkit.RequirementsFile = overlay.Toolkit.RequirementsFile
	}
	if overlay.Toolkit.OffscreenVar != "" {
		mergedConfig.Toolkit.OffscreenVar = overlay.Toolkit.OffscreenVar
	}
	if overlay.Toolkit.OffscreenValue != "" {
		mergedConfig.Toolkit.OffscreenValue = overlay.Toolkit.OffscreenValue
	}

	// Merge runner settings
	if overlay.Runner.Script != "" {
		mergedConfig.Runner.Script = overlay.Runner.Script
	}
	if len(overlay.Runner.Args) > 0 {
		mergedConfig.Runner.Args = overlay.Runner.Args
	}
	if overlay.Runner.CoverageFlag != "" {
		mergedConfig.Runner.CoverageFlag = overlay.Runner.CoverageFlag
	}

	// Merge coverage settings - Enabled is taken from the overlay only when
	// an upload command is also declared there, to avoid a zero-value false
	// silently disabling reporting.
	if len(overlay.Coverage.UploadCommand) > 0 {
		mergedConfig.Coverage.UploadCommand = overlay.Coverage.UploadCommand
		mergedConfig.Coverage.Enabled = overlay.Coverage.Enabled
	}

	return mergedConfig
}

// applyEnvOverrides applies the documented environment variables on top of
// the merged file configuration.
func applyEnvOverrides(config *RigConfig) error {
	if root := os.Getenv(EnvReposRoot); root != "" {
		config.ReposRoot = root
	}
	if num := os.Getenv(EnvDisplayNumber); num != "" {
		n, err := strconv.Atoi(num)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvDisplayNumber, num, err)
		}
		config.Display.Number = n
	}
	if interp := os.Getenv(EnvInterpreter); interp != "" {
		config.Toolkit.Interpreter = interp
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
