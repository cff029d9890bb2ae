package mkvtoolnix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	domainerrors "github.com/listenupapp/mkvchapters/internal/errors"
)

// maxOutput bounds how much tool output is kept for error messages.
const maxOutput = 4096

// waitDelay bounds how long Wait blocks on output pipes after the process is killed.
const waitDelay = 5 * time.Second

// Runner starts an external tool and blocks until it exits.
//
// Implementations return nil on a zero exit status, an *ExitError when the tool ran and
// exited non-zero, and a PROCESS_LAUNCH_FAILED domain error when it could not be started.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) error
}

// ExitError reports a tool that ran but did not succeed.
type ExitError struct {
	Bin    string
	Code   int    // -1 when killed by a signal
	Output string // tail of combined stdout and stderr
	cause  error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Bin, e.Code)
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.cause
}

// ExecRunner runs tools with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, bin string, args ...string) error {
	var out tailBuffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay
	configureCommand(cmd)

	if err := cmd.Start(); err != nil {
		return domainerrors.ProcessLaunchFailed(bin, err)
	}

	err := cmd.Wait()
	if err == nil {
		return nil
	}

	exitErr := &ExitError{
		Bin:    bin,
		Code:   -1,
		Output: strings.TrimSpace(out.String()),
	}

	var procErr *exec.ExitError
	if errors.As(err, &procErr) {
		exitErr.Code = procErr.ExitCode()
	}
	// A killed process reports the signal; surface the deadline or cancellation instead.
	if ctxErr := ctx.Err(); ctxErr != nil {
		exitErr.cause = ctxErr
	} else if procErr == nil {
		exitErr.cause = err
	}

	return exitErr
}

// tailBuffer keeps the last maxOutput bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= maxOutput {
		t.buf.Reset()
		p = p[len(p)-maxOutput:]
	} else if over := t.buf.Len() + len(p) - maxOutput; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
