// Package toolrun executes external tool processes for the seshat workflows.
// It is the single seam between the CLI and the bundler, test runner and
// publisher binaries: run a command, inherit or capture stdio, and map a
// non-zero exit to a typed ExecError.
package toolrun

import (
	"context"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     map[string]string
}

// String renders the command the way it would be typed in a shell, for
// diagnostics.
func (c Command) String() string {
	parts := append([]string{c.Program}, c.Args...)
	return strings.Join(parts, " ")
}

// ExecError reports a tool invocation that exited non-zero or could not be
// started. Cmd is the rendered command string, Code the child's exit code
// (-1 when the program failed to start).
type ExecError struct {
	Cmd  string
	Code int
}

func (e *ExecError) Error() string {
	return "command failed: " + e.Cmd
}

// ExitCode lets the process entry point reuse the child's exit code.
func (e *ExecError) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// Runner runs external tool commands. The workflow packages depend on this
// interface so tests can substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}
