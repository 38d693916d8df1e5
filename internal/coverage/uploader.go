// Package coverage reports collected coverage data to an external
// aggregation service after a successful test run.
package coverage

import (
	"context"
	"fmt"

	"rigctl/internal/config"
	"rigctl/internal/utils"
	"rigctl/pkg/logging"
)

// Uploader runs the configured coverage-reporting upload command. The
// service itself is an opaque external collaborator; rigctl only invokes
// its uploader and treats any failure as fatal.
type Uploader struct {
	runner utils.CommandRunner
	cfg    config.CoverageConfig
}

// NewUploader creates an uploader for the given coverage configuration.
func NewUploader(runner utils.CommandRunner, cfg config.CoverageConfig) *Uploader {
	return &Uploader{
		runner: runner,
		cfg:    cfg,
	}
}

// Upload sends the coverage report produced by the test runner to the
// aggregation service. It is a no-op when reporting is disabled.
func (u *Uploader) Upload(ctx context.Context) error {
	if !u.cfg.Enabled || len(u.cfg.UploadCommand) == 0 {
		logging.Debug("Coverage", "Coverage reporting disabled, skipping upload")
		return nil
	}

	name := u.cfg.UploadCommand[0]
	args := u.cfg.UploadCommand[1:]

	logging.Info("Coverage", "Uploading coverage report via %s", name)
	if _, err := u.runner.Run(ctx, utils.CommandSpec{Name: name, Args: args}); err != nil {
		return fmt.Errorf("coverage upload failed: %w", err)
	}
	logging.Info("Coverage", "Coverage report uploaded")
	return nil
}
