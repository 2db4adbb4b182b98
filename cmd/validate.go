package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkenner/rendersweep/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and report what a sweep would run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			var missing int
			for _, s := range cfg.Scenes {
				if _, err := os.Stat(s.Scene); err != nil {
					fmt.Printf("  warning: scene file not found: %s\n", s.Scene)
					missing++
				}
				if _, err := os.Stat(s.Reference); err != nil {
					fmt.Printf("  warning: reference image not found: %s\n", s.Reference)
					missing++
				}
			}

			schedules := cfg.Schedules()
			runs := len(cfg.Scenes) * len(cfg.Algorithms) * len(schedules) * len(cfg.DurationsSec)
			fmt.Printf("Config OK: %d scenes, %d algorithms, %d schedules, %d durations (%d runs per sweep)\n",
				len(cfg.Scenes), len(cfg.Algorithms), len(schedules), len(cfg.DurationsSec), runs)
			if missing > 0 {
				fmt.Printf("%d referenced files are missing\n", missing)
			}
			return nil
		},
	}
}
