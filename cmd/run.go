package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkenner/rendersweep/internal/config"
	"github.com/tkenner/rendersweep/internal/sweep"
)

var (
	flagScene     string
	flagAlgorithm string
	flagDuration  int
	flagTimeout   int
	flagPlot      bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <renderer-path>",
		Short: "Execute a benchmark sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	cmd.Flags().StringVar(&flagScene, "scene", "", "filter to a single scene by name")
	cmd.Flags().StringVar(&flagAlgorithm, "algorithm", "", "filter to a single algorithm")
	cmd.Flags().IntVar(&flagDuration, "duration", 0, "override configured durations with one value (seconds)")
	cmd.Flags().IntVar(&flagTimeout, "timeout", -1, "override invocation timeout grace (seconds, 0 disables)")
	cmd.Flags().BoolVar(&flagPlot, "plot", false, "render each convergence series as a PNG chart")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if flagDuration > 0 {
		cfg.DurationsSec = []int{flagDuration}
	}
	if flagTimeout >= 0 {
		cfg.InvokeTimeoutSec = flagTimeout
	}

	scenes := filterScenes(cfg.Scenes, flagScene)
	if flagScene != "" && len(scenes) == 0 {
		return fmt.Errorf("no scene named %q in config", flagScene)
	}
	algorithms := filterAlgorithms(cfg.Algorithms, flagAlgorithm)
	if flagAlgorithm != "" && len(algorithms) == 0 {
		return fmt.Errorf("no algorithm named %q in config", flagAlgorithm)
	}

	executor := sweep.New(&sweep.Options{
		RendererPath: args[0],
		Config:       cfg,
		Scenes:       scenes,
		Algorithms:   algorithms,
		Plot:         flagPlot,
	})
	return executor.Run(context.Background())
}

func filterScenes(scenes []config.Scene, name string) []config.Scene {
	if name == "" {
		return scenes
	}
	var filtered []config.Scene
	for _, s := range scenes {
		if s.Name == name {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func filterAlgorithms(algorithms []string, name string) []string {
	if name == "" {
		return algorithms
	}
	var filtered []string
	for _, a := range algorithms {
		if a == name {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
