package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"rigctl/internal/bootstrap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rigctl",
	Short: "Bootstrap a headless test rig for pipeline-toolkit plugins",
	Long: `rigctl prepares a fully configured, headless, GUI-capable environment
for testing a pipeline-toolkit plugin in CI: it resolves external source
dependencies, installs the declared runtime dependencies and the GUI-toolkit
binding, starts a virtual display server, runs the plugin test suite with
coverage instrumentation, and reports coverage on success.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid configuration, failed bootstrap steps)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v // Set cobra's version field as well
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). The process exit code is
// the test runner's own exit code when the bootstrap reached that step;
// any earlier failure exits 1.
func Execute() {
	// Set up version template
	rootCmd.SetVersionTemplate(`{{printf "rigctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit with the mapped code
		os.Exit(bootstrap.ExitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
