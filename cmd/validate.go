package cmd

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"rigctl/internal/config"
)

// For mocking in tests
var execLookPath = exec.LookPath

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and required external tools",
	Long: `Checks the rigctl configuration for completeness and verifies that the
external executables the bootstrap sequence invokes (git, the interpreter,
the display server and the coverage uploader) are present on PATH. Nothing
is cloned, installed or started.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var cfg config.RigConfig
	var err error
	if validateConfigPath != "" {
		cfg, err = config.LoadConfigFromPath(validateConfigPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration OK")

	required := []string{"git", cfg.Toolkit.Interpreter, cfg.Display.Command}
	if cfg.Coverage.Enabled && len(cfg.Coverage.UploadCommand) > 0 {
		required = append(required, cfg.Coverage.UploadCommand[0])
	}

	missing := 0
	for _, tool := range required {
		if _, err := execLookPath(tool); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %s not found on PATH\n", tool)
			missing++
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "  ✓ %s\n", tool)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d required tool(s) missing", missing)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "Path to a configuration file (overrides layered lookup)")
}
