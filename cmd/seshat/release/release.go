package release

import (
	"os"

	"github.com/flarebyte/seshat-tally/internal/manifest"
	"github.com/flarebyte/seshat-tally/internal/toolrun"
	"github.com/flarebyte/seshat-tally/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	bump       string
	dryRun     bool
	allowDirty bool
)

// Cmd represents the `seshat release` command: build, validate, bump the
// version and publish, in that order, stopping at the first failure.
var Cmd = &cobra.Command{
	Use:           "release",
	Short:         "Build, validate, version-bump and publish the package",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		component, err := manifest.ParseComponent(bump)
		if err != nil {
			return err
		}
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		wc, err := workflow.NewContext(dir, cfgPath, toolrun.ProcessRunner{}, os.Stdout)
		if err != nil {
			return err
		}
		wc.Bump = component
		wc.AllowDirty = allowDirty
		return workflow.Execute(cmd.Context(), wc, workflow.ReleaseSteps(dryRun))
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().StringVar(&bump, "bump", "patch", "Version component to bump: major, minor or patch")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every step except publish")
	Cmd.Flags().BoolVar(&allowDirty, "allow-dirty", false, "Release from a dirty git worktree")
}
