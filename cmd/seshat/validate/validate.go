package validate

import (
	"fmt"
	"os"

	"github.com/flarebyte/seshat-tally/internal/toolrun"
	"github.com/flarebyte/seshat-tally/internal/workflow"
	"github.com/spf13/cobra"
)

var cfgPath string

// Cmd represents the `seshat validate` command.
var Cmd = &cobra.Command{
	Use:           "validate",
	Short:         "Check the manifest and publish-precondition files",
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
		if err := workflow.Execute(cmd.Context(), wc, workflow.ValidateSteps()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s@%s is ready to publish\n", wc.Manifest.Name, wc.Manifest.Version)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
}
