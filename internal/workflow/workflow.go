// Package workflow sequences the build, validate, version-bump and publish
// operations behind the seshat subcommands. Workflows are fixed ordered
// step lists: the first failing step aborts the run and its error
// propagates unchanged, with no retry and no rollback of completed steps.
package workflow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/flarebyte/seshat-tally/internal/config"
	"github.com/flarebyte/seshat-tally/internal/manifest"
	"github.com/flarebyte/seshat-tally/internal/toolrun"
)

// Context carries the shared state a step operates on.
type Context struct {
	// Dir is the project root all paths are resolved against.
	Dir      string
	Config   config.Config
	Manifest manifest.Manifest
	Runner   toolrun.Runner
	Out      io.Writer

	// Bump selects the version component the bump step increments.
	Bump manifest.Component
	// AllowDirty skips the clean-worktree precondition.
	AllowDirty bool
}

// Step is one named unit of a workflow.
type Step struct {
	Name string
	Run  func(ctx context.Context, wc *Context) error
}

// Execute runs steps in order, printing one progress line per step, and
// stops at the first failure.
func Execute(ctx context.Context, wc *Context, steps []Step) error {
	for _, s := range steps {
		fmt.Fprintf(wc.Out, "-> %s\n", s.Name)
		if err := s.Run(ctx, wc); err != nil {
			fmt.Fprintf(wc.Out, "step %s failed\n", s.Name)
			return err
		}
	}
	return nil
}

// path resolves p against the project root.
func (wc *Context) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(wc.Dir, p)
}

func (wc *Context) runTool(ctx context.Context, t config.Tool, extraArgs ...string) error {
	return wc.Runner.Run(ctx, toolrun.Command{
		Program: t.Program,
		Args:    append(append([]string(nil), t.Args...), extraArgs...),
		Dir:     wc.Dir,
	})
}
