package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the repository releases are fetched from.
const githubRepoSlug = "rigctl/rigctl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update rigctl to the latest version",
		Long: `Checks for the latest release of rigctl on GitHub and, if a newer
version is available, downloads it and replaces the current binary.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version; install a released build first")
	}

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s could not be found from github repository", githubRepoSlug)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current version (%s) is the latest\n", version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}
	fmt.Printf("Successfully updated to version %s\n", latest.Version())
	return nil
}
