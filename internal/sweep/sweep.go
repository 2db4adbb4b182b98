// Package sweep drives the renderer across the full parameter space and
// turns each invocation into a report row. One run configuration failing
// never stops the sweep; failures are logged and the loop moves on. No
// configuration is ever retried.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tkenner/rendersweep/internal/config"
	"github.com/tkenner/rendersweep/internal/converge"
	"github.com/tkenner/rendersweep/internal/invoke"
	"github.com/tkenner/rendersweep/internal/perf"
	"github.com/tkenner/rendersweep/internal/quality"
	"github.com/tkenner/rendersweep/internal/report"
)

type Options struct {
	RendererPath string
	Config       *config.Config
	// Scenes and Algorithms are the filtered subsets to sweep; empty
	// means everything in the config.
	Scenes     []config.Scene
	Algorithms []string
	// Plot additionally renders each convergence series as a PNG chart.
	Plot bool
}

type Executor struct {
	renderer   string
	cfg        *config.Config
	scenes     []config.Scene
	algorithms []string
	schedules  []config.Schedule
	evaluator  *quality.Evaluator
	plot       bool
}

func New(opts *Options) *Executor {
	scenes := opts.Scenes
	if len(scenes) == 0 {
		scenes = opts.Config.Scenes
	}
	algorithms := opts.Algorithms
	if len(algorithms) == 0 {
		algorithms = opts.Config.Algorithms
	}
	return &Executor{
		renderer:   opts.RendererPath,
		cfg:        opts.Config,
		scenes:     scenes,
		algorithms: algorithms,
		schedules:  opts.Config.Schedules(),
		evaluator: &quality.Evaluator{
			CompareCmd: opts.Config.CompareCmd,
			Timeout:    time.Duration(opts.Config.InvokeTimeoutSec) * time.Second,
		},
		plot: opts.Plot,
	}
}

// Run executes the full sweep: every duration × scene × algorithm ×
// schedule, strictly sequentially. Reports are flushed and synced after
// each scene so a crash loses at most the scene in progress.
func (e *Executor) Run(ctx context.Context) error {
	stamp := report.Stamp(time.Now())

	runDir := filepath.Join(e.cfg.ResultsDir, "images_"+stamp)
	meta := report.NewRunMeta(e.renderer, e.cfg.CompareCmd, e.algorithms, e.cfg.DurationsSec, e.cfg.Convergence.Enabled)
	if err := report.WriteRunMeta(runDir, meta); err != nil {
		return fmt.Errorf("writing run meta: %w", err)
	}

	for _, durationSec := range e.cfg.DurationsSec {
		if err := e.runDuration(ctx, stamp, runDir, durationSec); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runDuration(ctx context.Context, stamp, runDir string, durationSec int) error {
	imageDir := filepath.Join(runDir, fmt.Sprintf("%dsec", durationSec))
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return fmt.Errorf("creating image dir: %w", err)
	}

	perfPath := filepath.Join(e.cfg.ResultsDir, fmt.Sprintf("result_%s_%dsec.csv", stamp, durationSec))
	perfW, err := report.NewPerfWriter(perfPath)
	if err != nil {
		return err
	}
	defer perfW.Close()

	var convW *report.Writer
	if e.cfg.Convergence.Enabled {
		convPath := filepath.Join(e.cfg.ResultsDir, fmt.Sprintf("converge_%s_%dsec.csv", stamp, durationSec))
		convW, err = report.NewConvergenceWriter(convPath)
		if err != nil {
			return err
		}
		defer convW.Close()
	}

	for i, scene := range e.scenes {
		fmt.Printf("== Running benchmark %d / %d - %s (%ds)\n", i+1, len(e.scenes), scene.Name, durationSec)
		e.runScene(ctx, scene, durationSec, imageDir, perfW, convW)

		if err := perfW.Sync(); err != nil {
			return err
		}
		if convW != nil {
			if err := convW.Sync(); err != nil {
				return err
			}
		}
	}
	fmt.Printf("Report written to %s\n", perfPath)
	return nil
}

func (e *Executor) runScene(ctx context.Context, scene config.Scene, durationSec int, imageDir string, perfW, convW *report.Writer) {
	for _, alg := range e.algorithms {
		fmt.Printf("   > running %s ...\n", alg)
		for _, sched := range e.schedules {
			fmt.Printf("   > %s\n", sched.Name)
			e.runOne(ctx, scene, alg, sched, durationSec, imageDir, perfW, convW)
		}
		fmt.Printf("   > finished %s\n", alg)
	}
}

// runOne executes a single run configuration end to end. Every failure
// path logs and returns; the caller keeps iterating.
func (e *Executor) runOne(ctx context.Context, scene config.Scene, alg string, sched config.Schedule, durationSec int, imageDir string, perfW, convW *report.Writer) {
	runStem := fmt.Sprintf("%s_%s%s", scene.BaseFilename, alg, sched.Abbr)
	outFile := filepath.Join(imageDir, fmt.Sprintf("%s_%dsec.png", runStem, durationSec))
	convPrefix := runStem + "_conv_"

	args := []string{
		scene.Scene,
		"-w", strconv.Itoa(scene.Width),
		"-h", strconv.Itoa(scene.Height),
		"-q",
		"-t", strconv.Itoa(durationSec),
		"-a", alg,
		outFile,
	}
	args = append(args, scene.ExtraArgs...)
	args = append(args, sched.Args...)
	if e.cfg.Convergence.Enabled {
		args = append(args,
			"--intermediate-path", filepath.Join(imageDir, convPrefix),
			"--intermediate-time", strconv.Itoa(e.cfg.Convergence.StepSec))
	}

	res, err := invoke.Run(ctx, e.rendererTimeout(durationSec), e.renderer, args...)
	if err != nil {
		if errors.Is(err, invoke.ErrTimeout) {
			log.Printf("renderer timed out for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		} else {
			log.Printf("renderer failed to launch for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		}
		return
	}

	record, err := perf.Parse(res.Stdout)
	if err != nil {
		log.Printf("renderer produced no performance record for %s/%s/%s. Output:\n%s%s",
			scene.Name, alg, sched.Abbr, res.Stdout, res.Stderr)
		return
	}
	fmt.Printf("   > Done after %s seconds, %d samples\n", ftoa(record.ElapsedSec), record.Samples)

	metric, err := e.evaluator.Evaluate(ctx, outFile, scene.Reference)
	if err != nil {
		log.Printf("comparison failed for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		return
	}
	fmt.Printf("   > RMSE: %s\n", metric)

	row := report.Row{
		SceneName:  scene.Name,
		Algorithm:  alg,
		ElapsedSec: record.ElapsedSec,
		Samples:    record.Samples,
		FPS:        record.FPS,
		MSPerFrame: record.MSPerFrame,
		RMSE:       metric,
		// The renderer stopped reporting ray counts in quiet mode, so
		// the throughput column is pinned to zero for now.
		RaysPerSec: 0,
		Scheduling: sched.Name,
	}
	if err := perfW.AppendRow(row); err != nil {
		log.Printf("writing row for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		return
	}

	if convW != nil {
		e.recordConvergence(ctx, scene, alg, sched, durationSec, imageDir, convPrefix, metric, convW)
	}
}

func (e *Executor) recordConvergence(ctx context.Context, scene config.Scene, alg string, sched config.Schedule, durationSec int, imageDir, convPrefix string, final quality.Metric, convW *report.Writer) {
	samples, err := converge.Collect(ctx, e.evaluator, imageDir, convPrefix, scene.Reference)
	if err != nil {
		log.Printf("collecting convergence series for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		return
	}
	samples = converge.Finish(samples, float64(durationSec), final)

	if err := convW.AppendSeries(scene.Name, alg, samples); err != nil {
		log.Printf("writing convergence series for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		return
	}

	if e.plot {
		title := fmt.Sprintf("%s / %s (%s)", scene.Name, alg, sched.Abbr)
		chartPath := filepath.Join(imageDir, fmt.Sprintf("%s_%s%s_convergence.png", scene.BaseFilename, alg, sched.Abbr))
		if err := report.PlotSeries(samples, title, chartPath); err != nil {
			log.Printf("plotting convergence series for %s/%s/%s: %v", scene.Name, alg, sched.Abbr, err)
		}
	}
}

// rendererTimeout returns the deadline for one renderer invocation: the
// render budget itself plus the configured grace. Zero grace keeps the
// original unbounded behavior.
func (e *Executor) rendererTimeout(durationSec int) time.Duration {
	if e.cfg.InvokeTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(durationSec+e.cfg.InvokeTimeoutSec) * time.Second
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
