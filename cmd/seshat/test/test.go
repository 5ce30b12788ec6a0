package test

import (
	"fmt"
	"io"
	"os"

	"github.com/flarebyte/seshat-tally/internal/toolrun"
	"github.com/flarebyte/seshat-tally/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	quiet   bool
)

// quietCaptureMaxBytes bounds how much tool output --quiet retains for
// replay on failure.
const quietCaptureMaxBytes = 64 * 1024

// usageError carries a non-zero exit code for missing arguments so the
// operator gets guidance without any external tool being spawned.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
func (e *usageError) ExitCode() int { return 2 }

// Cmd represents the `seshat test` command.
var Cmd = &cobra.Command{
	Use:           "test <file>",
	Short:         "Run the configured test runner against a test file",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return &usageError{msg: "missing test file argument (usage: seshat test <file>)"}
		}
		dir, err := os.Getwd()
		if err != nil {
			return err
		}

		// In quiet mode the runner's output is captured and only replayed
		// when the run fails; a passing run prints nothing.
		var runner toolrun.Runner = toolrun.ProcessRunner{}
		out := io.Writer(os.Stdout)
		var capture *toolrun.CaptureRunner
		if quiet {
			capture = &toolrun.CaptureRunner{MaxBytes: quietCaptureMaxBytes}
			runner = capture
			out = io.Discard
		}

		wc, err := workflow.NewContext(dir, cfgPath, runner, out)
		if err != nil {
			return err
		}
		if wc.Config.Test.Empty() {
			return fmt.Errorf("missing required field: tools.test.program")
		}
		err = workflow.Execute(cmd.Context(), wc, []workflow.Step{workflow.RunTests(args[0])})
		if err != nil && capture != nil {
			replayCapture(os.Stderr, capture.Last)
		}
		return err
	},
}

func replayCapture(w io.Writer, res toolrun.CaptureResult) {
	if res.Stdout != "" {
		_, _ = io.WriteString(w, res.Stdout)
		if res.StdoutTruncated {
			_, _ = io.WriteString(w, "\n[stdout truncated]\n")
		}
	}
	if res.Stderr != "" {
		_, _ = io.WriteString(w, res.Stderr)
		if res.StderrTruncated {
			_, _ = io.WriteString(w, "\n[stderr truncated]\n")
		}
	}
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Capture runner output and replay it only on failure")
}
