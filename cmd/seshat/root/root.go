package root

import (
	"github.com/flarebyte/seshat-tally/cmd/seshat/build"
	"github.com/flarebyte/seshat-tally/cmd/seshat/release"
	runtest "github.com/flarebyte/seshat-tally/cmd/seshat/test"
	"github.com/flarebyte/seshat-tally/cmd/seshat/validate"
	"github.com/flarebyte/seshat-tally/cmd/seshat/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seshat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seshat",
		Short: "CLI: build, test and release automation for the tally library, kept by the mistress of the house of books",
		// ArbitraryArgs routes an unrecognized verb here instead of failing.
		// Showing help for an unknown command is a success, not an error.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(build.Cmd)
	cmd.AddCommand(runtest.Cmd)
	cmd.AddCommand(validate.Cmd)
	cmd.AddCommand(release.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
