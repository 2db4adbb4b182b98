package converge_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/tkenner/rendersweep/internal/converge"
	"github.com/tkenner/rendersweep/internal/quality"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}

func constantEvaluator(t *testing.T, value string) *quality.Evaluator {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive shell scripts")
	}
	path := filepath.Join(t.TempDir(), "compare")
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho \""+value+"\" >&2\n"), 0o755); err != nil {
		t.Fatalf("writing fake compare: %v", err)
	}
	return &quality.Evaluator{CompareCmd: path}
}

func TestCollectSortsAndFinishes(t *testing.T) {
	dir := t.TempDir()
	// Written out of timestamp order; enumeration order must not matter.
	writeFiles(t, dir,
		"run_pt256441_conv_5000ms.png",
		"run_pt256441_conv_1000ms.png",
		"run_pt256441_conv_30000ms.png",
	)
	ev := constantEvaluator(t, "0.5")

	samples, err := converge.Collect(context.Background(), ev, dir, "run_pt256441_conv_", "ref.png")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for i, want := range []float64{1.0, 5.0, 30.0} {
		if samples[i].ElapsedSec != want {
			t.Errorf("sample %d elapsed = %v, want %v", i, samples[i].ElapsedSec, want)
		}
		if samples[i].Metric.Value != 0.5 {
			t.Errorf("sample %d metric = %v, want 0.5", i, samples[i].Metric.Value)
		}
	}

	samples = converge.Finish(samples, 60.0, quality.Metric{Value: 0.02})
	last := samples[len(samples)-1]
	if last.ElapsedSec != 60.0 || last.Metric.Value != 0.02 {
		t.Errorf("final sample = %+v, want (60, 0.02)", last)
	}
}

func TestCollectIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"run_pt256441_conv_1000ms.png",
		"run_vcm256441_conv_1000ms.png", // different run
		"run_pt256441_conv_1000ms.png.tmp",
		"run_pt256441_60sec.png", // final image, not a snapshot
		"notes.txt",
	)
	ev := constantEvaluator(t, "0.1")

	samples, err := converge.Collect(context.Background(), ev, dir, "run_pt256441_conv_", "ref.png")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].ElapsedSec != 1.0 {
		t.Errorf("elapsed = %v, want 1.0", samples[0].ElapsedSec)
	}
}

func TestCollectMissingDir(t *testing.T) {
	ev := constantEvaluator(t, "0.1")
	if _, err := converge.Collect(context.Background(), ev, "/nonexistent/snapshots", "run_", "ref.png"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestFinishOnEmptySeries(t *testing.T) {
	samples := converge.Finish(nil, 60.0, quality.Metric{Value: 0.02})
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].ElapsedSec != 60.0 || samples[0].Metric.Value != 0.02 {
		t.Errorf("sample = %+v, want (60, 0.02)", samples[0])
	}
}
