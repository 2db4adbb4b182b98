package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout marks an invocation that was killed at its deadline. The
// original harness had no such protection; a hung renderer stalled the
// whole sweep.
var ErrTimeout = errors.New("invocation timed out")

type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Run launches path with args as a child process, feeds it no input and
// captures both output streams until it exits. A non-zero exit code is not
// an error at this layer; callers inspect the captured output to decide.
// Launch failures (missing binary, permission denied) are returned as
// errors. If timeout is non-zero the process is killed at the deadline and
// ErrTimeout is returned.
func Run(ctx context.Context, timeout time.Duration, path string, args ...string) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, elapsed.Round(time.Second), path)
	}

	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("launching %s: %w", path, err)
	}
	return res, nil
}
