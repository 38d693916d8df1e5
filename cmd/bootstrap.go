package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rigctl/internal/app"
)

// bootstrapConfigPath optionally points at a single configuration file
// instead of the layered lookup.
var bootstrapConfigPath string

// bootstrapDebug enables verbose logging across the bootstrap sequence.
var bootstrapDebug bool

// bootstrapDryRun prints the step plan without executing anything.
var bootstrapDryRun bool

// bootstrapSkipReport disables the coverage upload regardless of
// configuration, useful for local runs.
var bootstrapSkipReport bool

// bootstrapCmd defines the bootstrap command structure. This is the main
// command of rigctl: it runs the whole environment bootstrap and test
// orchestration sequence.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Bootstrap the test rig and run the plugin test suite",
	Long: `Runs the full bootstrap sequence strictly in order:

  1. Shallow-clone the configured external dependency repositories.
  2. Install the declared runtime dependencies from the cloned manifest.
  3. Install the GUI-toolkit binding from the prebuilt wheel index and run
     its post-install configuration.
  4. Start a virtual display server and wait for it to accept connections.
  5. Force the toolkit into offscreen rendering mode.
  6. Run the test runner script with coverage instrumentation.
  7. On success only, upload the coverage report.

The first failing step aborts the rest. The process exit code equals the
test runner's exit code when all prior steps succeeded.`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

// runBootstrap is the main entry point for the bootstrap command
func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(bootstrapConfigPath, bootstrapDebug, bootstrapDryRun, bootstrapSkipReport)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// init registers the bootstrap command and its flags with the root command.
func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().StringVar(&bootstrapConfigPath, "config", "", "Path to a configuration file (overrides layered lookup)")
	bootstrapCmd.Flags().BoolVar(&bootstrapDebug, "debug", false, "Enable general debug logging")
	bootstrapCmd.Flags().BoolVar(&bootstrapDryRun, "dry-run", false, "Print the planned steps without executing them")
	bootstrapCmd.Flags().BoolVar(&bootstrapSkipReport, "skip-report", false, "Skip the coverage upload step")
}
