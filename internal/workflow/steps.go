package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/flarebyte/seshat-tally/internal/gitinfo"
	"github.com/flarebyte/seshat-tally/internal/luahook"
	"github.com/flarebyte/seshat-tally/internal/manifest"
)

// CleanDist removes and recreates the dist directory.
func CleanDist() Step {
	return Step{Name: "clean-dist", Run: func(_ context.Context, wc *Context) error {
		dir := wc.path(wc.Config.DistDir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear dist dir: %w", err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create dist dir: %w", err)
		}
		return nil
	}}
}

// Bundle invokes the configured bundler tool.
func Bundle() Step {
	return Step{Name: "bundle", Run: func(ctx context.Context, wc *Context) error {
		return wc.runTool(ctx, wc.Config.Bundler)
	}}
}

// Declarations invokes the configured declaration tool, if any.
func Declarations() Step {
	return Step{Name: "declarations", Run: func(ctx context.Context, wc *Context) error {
		if wc.Config.Declarations.Empty() {
			return nil
		}
		return wc.runTool(ctx, wc.Config.Declarations)
	}}
}

// ValidateFiles checks every publish-precondition file exists. The default
// list is derived from the manifest (built artifact, declarations) plus the
// manifest itself and the readme; config.requiredFiles adds to it.
func ValidateFiles() Step {
	return Step{Name: "validate-files", Run: func(_ context.Context, wc *Context) error {
		required := []string{wc.Manifest.Main}
		if wc.Manifest.Types != "" {
			required = append(required, wc.Manifest.Types)
		}
		required = append(required, wc.Config.ManifestPath, "README.md")
		required = append(required, wc.Config.RequiredFiles...)
		for _, p := range required {
			if _, err := os.Stat(wc.path(p)); err != nil {
				return fmt.Errorf("missing required file: %s", p)
			}
		}
		return nil
	}}
}

// ValidateManifest re-checks the manifest fields the publisher requires.
func ValidateManifest() Step {
	return Step{Name: "validate-manifest", Run: func(_ context.Context, wc *Context) error {
		return wc.Manifest.Validate()
	}}
}

// GitClean refuses to continue from a dirty worktree unless AllowDirty.
func GitClean() Step {
	return Step{Name: "git-clean", Run: func(_ context.Context, wc *Context) error {
		if wc.AllowDirty {
			return nil
		}
		info, err := gitinfo.Describe(wc.Dir)
		if err != nil {
			return err
		}
		if !info.Clean {
			return errors.New("worktree is dirty (use --allow-dirty to override)")
		}
		return nil
	}}
}

// BumpVersion bumps the manifest version and rewrites the manifest file.
func BumpVersion() Step {
	return Step{Name: "bump-version", Run: func(_ context.Context, wc *Context) error {
		bumped, err := wc.Manifest.Bump(wc.Bump)
		if err != nil {
			return err
		}
		if err := manifest.Write(wc.path(wc.Config.ManifestPath), bumped); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		fmt.Fprintf(wc.Out, "version %s -> %s\n", wc.Manifest.Version, bumped.Version)
		wc.Manifest = bumped
		return nil
	}}
}

// PrePublishHook runs the configured Lua hook, if any.
func PrePublishHook() Step {
	return Step{Name: "pre-publish-hook", Run: func(_ context.Context, wc *Context) error {
		if wc.Config.PrePublishHook == "" {
			return nil
		}
		return luahook.RunFile(wc.path(wc.Config.PrePublishHook), luahook.Manifest{
			Name:    wc.Manifest.Name,
			Version: wc.Manifest.Version,
			Main:    wc.Manifest.Main,
		})
	}}
}

// RunTests invokes the configured test runner against one target file.
func RunTests(file string) Step {
	return Step{Name: "test", Run: func(ctx context.Context, wc *Context) error {
		return wc.runTool(ctx, wc.Config.Test, file)
	}}
}

// Publish invokes the configured registry publisher.
func Publish() Step {
	return Step{Name: "publish", Run: func(ctx context.Context, wc *Context) error {
		if wc.Config.Publish.Empty() {
			return errors.New("missing required field: tools.publish.program")
		}
		fmt.Fprintf(wc.Out, "publishing %s@%s\n", wc.Manifest.Name, wc.Manifest.Version)
		return wc.runTool(ctx, wc.Config.Publish)
	}}
}

// BuildSteps is the `seshat build` workflow.
func BuildSteps(clean bool) []Step {
	steps := []Step{}
	if clean {
		steps = append(steps, CleanDist())
	}
	return append(steps, Bundle(), Declarations())
}

// ValidateSteps is the `seshat validate` workflow.
func ValidateSteps() []Step {
	return []Step{ValidateManifest(), ValidateFiles()}
}

// ReleaseSteps is the `seshat release` workflow: build, validate,
// version-bump, publish, in that fixed order.
func ReleaseSteps(dryRun bool) []Step {
	steps := []Step{GitClean()}
	steps = append(steps, BuildSteps(true)...)
	steps = append(steps, ValidateSteps()...)
	steps = append(steps, BumpVersion(), PrePublishHook())
	if !dryRun {
		steps = append(steps, Publish())
	}
	return steps
}
