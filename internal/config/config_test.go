package config_test

import (
	"strings"
	"testing"

	"github.com/tkenner/rendersweep/internal/config"
)

func TestLoadMinimal(t *testing.T) {
	cfg, err := config.Load("../../testdata/minimal.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Scenes) != 1 {
		t.Errorf("expected 1 scene, got %d", len(cfg.Scenes))
	}
	if cfg.Scenes[0].Name != "Cornell box" {
		t.Errorf("expected scene name 'Cornell box', got %q", cfg.Scenes[0].Name)
	}
	if cfg.CompareCmd != "compare" {
		t.Errorf("expected compare_cmd default 'compare', got %q", cfg.CompareCmd)
	}
	if cfg.ResultsDir != "results" {
		t.Errorf("expected results_dir default 'results', got %q", cfg.ResultsDir)
	}
	if cfg.ConvergeBudgetSec != 3600 {
		t.Errorf("expected converge_budget_sec default 3600, got %d", cfg.ConvergeBudgetSec)
	}
	if cfg.Convergence.Enabled {
		t.Error("expected convergence disabled by default")
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Scenes) != 2 {
		t.Errorf("expected 2 scenes, got %d", len(cfg.Scenes))
	}
	if len(cfg.Scenes[1].ExtraArgs) != 4 {
		t.Errorf("expected 4 extra args on Still Life, got %d", len(cfg.Scenes[1].ExtraArgs))
	}
	if !cfg.Convergence.Enabled || cfg.Convergence.StepSec != 5 {
		t.Errorf("convergence = %+v, want enabled with step 5", cfg.Convergence)
	}
	if cfg.InvokeTimeoutSec != 30 {
		t.Errorf("expected invoke_timeout_sec 30, got %d", cfg.InvokeTimeoutSec)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := config.Load("nonexistent.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := config.Load("../../testdata/invalid.yaml"); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadCollidingAbbreviations(t *testing.T) {
	_, err := config.Load("../../testdata/collide.yaml")
	if err == nil {
		t.Fatal("expected error for colliding scheduling abbreviations")
	}
	if !strings.Contains(err.Error(), "colliding abbreviation") {
		t.Errorf("error = %v, want abbreviation collision diagnostic", err)
	}
}

func TestSchedulesSingleton(t *testing.T) {
	cfg, err := config.Load("../../testdata/minimal.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	schedules := cfg.Schedules()
	if len(schedules) != 1 {
		t.Fatalf("expected exactly 1 schedule, got %d", len(schedules))
	}

	s := schedules[0]
	if s.Abbr != "256441" {
		t.Errorf("abbr = %q, want %q (tile, threads, samples, connections concatenated)", s.Abbr, "256441")
	}
	if s.Name != "tilesize: 256, threads: 4, samples: 4, connections: 1" {
		t.Errorf("name = %q", s.Name)
	}
	if s.SamplesPerFrame != 4 {
		t.Errorf("samples per frame = %d, want 4", s.SamplesPerFrame)
	}

	wantArgs := []string{"-c", "1", "--thread-count", "4", "--tile-size", "256", "--spp", "4"}
	if len(s.Args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", s.Args, wantArgs)
	}
	for i := range wantArgs {
		if s.Args[i] != wantArgs[i] {
			t.Errorf("args[%d] = %q, want %q", i, s.Args[i], wantArgs[i])
		}
	}
}

func TestSchedulesTwoValueAxis(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	schedules := cfg.Schedules()
	if len(schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(schedules))
	}
	if schedules[0].Abbr == schedules[1].Abbr {
		t.Errorf("abbreviations must differ, both %q", schedules[0].Abbr)
	}
	// Thread count is the outermost axis; iteration order is pinned.
	if schedules[0].Abbr != "256241" || schedules[1].Abbr != "256441" {
		t.Errorf("abbrs = %q, %q, want 256241, 256441", schedules[0].Abbr, schedules[1].Abbr)
	}
}
