package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// waitDelay bounds how long Wait blocks on pipes held open by orphaned
// grandchildren after the process group was killed.
const waitDelay = 2 * time.Second

// Runner runs commands through a shell interpreter.
type Runner struct {
	shell string
}

// NewRunner builds a runner; shell defaults to /bin/sh.
func NewRunner(shell string) *Runner {
	if shell == "" {
		shell = domain.DefaultExecutionShell
	}
	return &Runner{shell: shell}
}

// Run implements ports.CommandRunner. Stdout and stderr are captured
// separately. A non-zero exit is reported through ExitCode with a nil error;
// hitting timeout kills the whole process group and returns a
// *domain.TimeoutError together with the partial result.
func (r *Runner) Run(ctx context.Context, command string, timeout time.Duration) (domain.ExecutionResult, error) {
	if timeout <= 0 {
		timeout = domain.DefaultExecutionTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.shell, "-c", command)
	startInOwnGroup(cmd)
	cmd.Cancel = func() error { return killGroup(cmd) }
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := domain.ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		result.ExitCode = -1
		result.TimedOut = true
		return result, &domain.TimeoutError{Operation: "command", Limit: timeout, Err: context.DeadlineExceeded}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}

var _ ports.CommandRunner = (*Runner)(nil)
