package toolrun

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

type limitedBuffer struct {
	max       int
	buf       bytes.Buffer
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.max <= 0 {
		return n, nil
	}
	remain := b.max - b.buf.Len()
	if remain > 0 {
		if remain > len(p) {
			remain = len(p)
		}
		_, _ = b.buf.Write(p[:remain])
	}
	if len(p) > remain {
		b.truncated = true
	}
	return n, nil
}

func (b *limitedBuffer) String() string { return b.buf.String() }

// ProcessRunner runs commands as child processes with the parent's stdio.
// There is no internal timeout or retry; cancellation comes from ctx.
type ProcessRunner struct{}

func (ProcessRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = applyEnvOverlay(os.Environ(), c.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return mapRunError(cmd.Run(), c)
}

// CaptureResult holds bounded captured output from a CaptureRunner run.
type CaptureResult struct {
	Stdout          string
	Stderr          string
	StdoutTruncated bool
	StderrTruncated bool
}

// CaptureRunner runs commands with stdout/stderr captured into bounded
// buffers instead of inherited streams. Backs `seshat test --quiet`, which
// replays the captured output only when the run fails.
type CaptureRunner struct {
	MaxBytes int
	Last     CaptureResult
}

func (r *CaptureRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = applyEnvOverlay(os.Environ(), c.Env)
	outBuf := &limitedBuffer{max: r.MaxBytes}
	errBuf := &limitedBuffer{max: r.MaxBytes}
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf
	cmd.Stdin = nil
	err := cmd.Run()
	r.Last = CaptureResult{
		Stdout:          outBuf.String(),
		Stderr:          errBuf.String(),
		StdoutTruncated: outBuf.truncated,
		StderrTruncated: errBuf.truncated,
	}
	return mapRunError(err, c)
}

func mapRunError(err error, c Command) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExecError{Cmd: c.String(), Code: exitErr.ExitCode()}
	}
	// Start failures (program not found, permission) map to code -1.
	return &ExecError{Cmd: c.String(), Code: -1}
}

func applyEnvOverlay(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return append([]string(nil), base...)
	}
	m := map[string]string{}
	for _, kv := range base {
		i := -1
		for j := 0; j < len(kv); j++ {
			if kv[j] == '=' {
				i = j
				break
			}
		}
		if i <= 0 {
			continue
		}
		m[kv[:i]] = kv[i+1:]
	}
	for k, v := range overlay {
		m[k] = v
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}
