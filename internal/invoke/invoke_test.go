package invoke_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/tkenner/rendersweep/internal/invoke"
)

func requireUnixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive /bin/sh")
	}
}

func TestRunCapturesStreams(t *testing.T) {
	requireUnixShell(t)

	res, err := invoke.Run(context.Background(), 0, "/bin/sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "out\n" {
		t.Errorf("stdout = %q, want %q", res.Stdout, "out\n")
	}
	if res.Stderr != "err\n" {
		t.Errorf("stderr = %q, want %q", res.Stderr, "err\n")
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	requireUnixShell(t)

	res, err := invoke.Run(context.Background(), 0, "/bin/sh", "-c", "echo partial; exit 3")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if res.Stdout != "partial\n" {
		t.Errorf("stdout = %q, want %q", res.Stdout, "partial\n")
	}
}

func TestRunLaunchFailure(t *testing.T) {
	_, err := invoke.Run(context.Background(), 0, "/nonexistent/renderer-binary")
	if err == nil {
		t.Fatal("expected launch error for missing binary")
	}
	if errors.Is(err, invoke.ErrTimeout) {
		t.Error("launch failure must not be classified as timeout")
	}
}

func TestRunTimeout(t *testing.T) {
	requireUnixShell(t)

	start := time.Now()
	_, err := invoke.Run(context.Background(), 100*time.Millisecond, "/bin/sh", "-c", "sleep 10")
	if !errors.Is(err, invoke.ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %s, deadline not enforced", elapsed)
	}
}
