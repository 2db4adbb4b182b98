package config

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Scenes       []Scene     `yaml:"scenes"`
	Algorithms   []string    `yaml:"algorithms"`
	DurationsSec []int       `yaml:"durations_sec"`
	Scheduling   Scheduling  `yaml:"scheduling"`
	Convergence  Convergence `yaml:"convergence"`
	CompareCmd   string      `yaml:"compare_cmd"`
	ResultsDir   string      `yaml:"results_dir"`
	// InvokeTimeoutSec bounds a single renderer or compare invocation.
	// Zero disables the deadline entirely.
	InvokeTimeoutSec int `yaml:"invoke_timeout_sec"`
	// ConvergeBudgetSec is the per-run time budget of the converge
	// subcommand.
	ConvergeBudgetSec int `yaml:"converge_budget_sec"`
}

type Scene struct {
	Name         string   `yaml:"name"`
	Scene        string   `yaml:"scene"`
	Reference    string   `yaml:"reference"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	BaseFilename string   `yaml:"base_filename"`
	ExtraArgs    []string `yaml:"extra_args"`
}

// Scheduling holds the independent axes whose cartesian product forms the
// set of scheduling configurations to sweep.
type Scheduling struct {
	ThreadCounts     []int `yaml:"thread_counts"`
	SampleCounts     []int `yaml:"sample_counts"`
	TileSizes        []int `yaml:"tile_sizes"`
	ConnectionCounts []int `yaml:"connection_counts"`
}

type Convergence struct {
	Enabled bool `yaml:"enabled"`
	StepSec int  `yaml:"step_sec"`
}

// Schedule is one point of the scheduling parameter space: the renderer
// flags realizing it plus a compact abbreviation used to disambiguate
// output filenames.
type Schedule struct {
	Name            string
	Abbr            string
	Args            []string
	SamplesPerFrame int
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Schedules expands the scheduling axes into their cartesian product,
// thread count outermost and connection count innermost, so generated
// names and abbreviations are reproducible across runs.
func (c *Config) Schedules() []Schedule {
	var schedules []Schedule
	for _, t := range c.Scheduling.ThreadCounts {
		for _, s := range c.Scheduling.SampleCounts {
			for _, tile := range c.Scheduling.TileSizes {
				for _, conn := range c.Scheduling.ConnectionCounts {
					schedules = append(schedules, Schedule{
						Name: fmt.Sprintf("tilesize: %d, threads: %d, samples: %d, connections: %d", tile, t, s, conn),
						Abbr: fmt.Sprintf("%d%d%d%d", tile, t, s, conn),
						Args: []string{
							"-c", fmt.Sprint(conn),
							"--thread-count", fmt.Sprint(t),
							"--tile-size", fmt.Sprint(tile),
							"--spp", fmt.Sprint(s),
						},
						SamplesPerFrame: s,
					})
				}
			}
		}
	}
	return schedules
}

func validate(cfg *Config) error {
	if len(cfg.Scenes) == 0 {
		return fmt.Errorf("no scenes defined")
	}
	for i, s := range cfg.Scenes {
		if s.Name == "" {
			return fmt.Errorf("scene %d: name is required", i)
		}
		if s.Scene == "" {
			return fmt.Errorf("scene %q: scene file is required", s.Name)
		}
		if s.Reference == "" {
			return fmt.Errorf("scene %q: reference image is required", s.Name)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("scene %q: width and height must be positive", s.Name)
		}
		if s.BaseFilename == "" {
			return fmt.Errorf("scene %q: base_filename is required", s.Name)
		}
	}
	if dupes := lo.FindDuplicatesBy(cfg.Scenes, func(s Scene) string { return s.Name }); len(dupes) > 0 {
		return fmt.Errorf("duplicate scene name %q", dupes[0].Name)
	}

	if len(cfg.Algorithms) == 0 {
		return fmt.Errorf("no algorithms defined")
	}
	if len(cfg.DurationsSec) == 0 {
		return fmt.Errorf("no durations defined")
	}
	for _, d := range cfg.DurationsSec {
		if d <= 0 {
			return fmt.Errorf("durations must be positive, got %d", d)
		}
	}

	sched := &cfg.Scheduling
	for _, axis := range []struct {
		name   string
		values []int
	}{
		{"thread_counts", sched.ThreadCounts},
		{"sample_counts", sched.SampleCounts},
		{"tile_sizes", sched.TileSizes},
		{"connection_counts", sched.ConnectionCounts},
	} {
		if len(axis.values) == 0 {
			return fmt.Errorf("scheduling axis %s is empty", axis.name)
		}
		for _, v := range axis.values {
			if v <= 0 {
				return fmt.Errorf("scheduling axis %s: values must be positive, got %d", axis.name, v)
			}
		}
	}

	// The abbreviation concatenates bare integers, so differently split
	// axis values can collide (tile=2,threads=56 vs tile=25,threads=6).
	// Colliding abbreviations would overwrite each other's output images,
	// so refuse them up front.
	if dupes := lo.FindDuplicatesBy(cfg.Schedules(), func(s Schedule) string { return s.Abbr }); len(dupes) > 0 {
		return fmt.Errorf("scheduling axes produce colliding abbreviation %q; pick distinct axis values", dupes[0].Abbr)
	}

	if cfg.Convergence.Enabled && cfg.Convergence.StepSec <= 0 {
		return fmt.Errorf("convergence step_sec must be positive when convergence is enabled")
	}
	if cfg.CompareCmd == "" {
		cfg.CompareCmd = "compare"
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "results"
	}
	if cfg.InvokeTimeoutSec < 0 {
		return fmt.Errorf("invoke_timeout_sec must not be negative")
	}
	if cfg.ConvergeBudgetSec == 0 {
		cfg.ConvergeBudgetSec = 3600
	}
	return nil
}
