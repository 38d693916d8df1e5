// Package gitdep materializes external source dependencies as shallow git
// clones under a single configurable root directory.
package gitdep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"rigctl/internal/config"
	"rigctl/internal/utils"
	"rigctl/pkg/logging"
)

// Resolver resolves dependency references into working copies on disk.
// Each reference is resolved exactly once per run; any clone failure is
// fatal to the caller, with no retry.
type Resolver struct {
	runner utils.CommandRunner
	root   string
}

// NewResolver creates a resolver that clones beneath root.
func NewResolver(runner utils.CommandRunner, root string) *Resolver {
	return &Resolver{
		runner: runner,
		root:   root,
	}
}

// ResolveAll resolves the dependencies strictly in order, stopping at the
// first failure.
func (r *Resolver) ResolveAll(ctx context.Context, deps []config.DependencyDefinition) error {
	for _, dep := range deps {
		if err := r.Resolve(ctx, dep); err != nil {
			return fmt.Errorf("dependency %q: %w", dep.Name, err)
		}
	}
	return nil
}

// Resolve shallow-clones a single dependency into its destination. A
// leftover working copy from a previous run is replaced wholesale, so
// re-running against the same root cannot fail on a pre-existing directory.
func (r *Resolver) Resolve(ctx context.Context, dep config.DependencyDefinition) error {
	dest := r.Destination(dep)

	if _, err := os.Stat(dest); err == nil {
		logging.Debug("GitDep", "Removing existing working copy at %s", dest)
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("failed to remove existing working copy at %s: %w", dest, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dest, err)
	}

	depth := dep.Depth
	if depth <= 0 {
		depth = 1
	}

	logging.Info("GitDep", "Cloning %s (branch %s, depth %d) into %s", dep.URL, dep.Branch, depth, dest)
	_, err := r.runner.Run(ctx, utils.CommandSpec{
		Name: "git",
		Args: []string{
			"clone",
			"--depth", strconv.Itoa(depth),
			"--single-branch",
			"--branch", dep.Branch,
			dep.URL,
			dest,
		},
	})
	if err != nil {
		return fmt.Errorf("clone of branch %q failed: %w", dep.Branch, err)
	}

	if dep.Revision != "" {
		if err := r.pinRevision(ctx, dest, dep.Revision); err != nil {
			return err
		}
	}
	return nil
}

// pinRevision moves the working copy to an exact commit. The shallow clone
// only has the branch tip, so the commit is fetched on demand at depth 1.
func (r *Resolver) pinRevision(ctx context.Context, dest, revision string) error {
	logging.Info("GitDep", "Pinning %s to revision %s", dest, revision)
	_, err := r.runner.Run(ctx, utils.CommandSpec{
		Name: "git",
		Args: []string{"-C", dest, "fetch", "--depth", "1", "origin", revision},
	})
	if err != nil {
		return fmt.Errorf("fetch of revision %q failed: %w", revision, err)
	}
	_, err = r.runner.Run(ctx, utils.CommandSpec{
		Name: "git",
		Args: []string{"-C", dest, "checkout", revision},
	})
	if err != nil {
		return fmt.Errorf("checkout of revision %q failed: %w", revision, err)
	}
	return nil
}

// Destination returns the absolute path the dependency is cloned into.
func (r *Resolver) Destination(dep config.DependencyDefinition) string {
	path := dep.Path
	if path == "" {
		path = dep.Name
	}
	return filepath.Join(r.root, path)
}
