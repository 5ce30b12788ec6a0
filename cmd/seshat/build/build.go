package build

import (
	"os"

	"github.com/flarebyte/seshat-tally/internal/toolrun"
	"github.com/flarebyte/seshat-tally/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	noClean bool
)

// Cmd represents the `seshat build` command.
var Cmd = &cobra.Command{
	Use:           "build",
	Short:         "Bundle the library and emit type declarations",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		wc, err := workflow.NewContext(dir, cfgPath, toolrun.ProcessRunner{}, os.Stdout)
		if err != nil {
			return err
		}
		return workflow.Execute(cmd.Context(), wc, workflow.BuildSteps(!noClean))
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().BoolVar(&noClean, "no-clean", false, "Keep the existing dist directory")
}
