package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tkenner/rendersweep/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured scenes, algorithms and scheduling configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Println("Scenes:")
			for _, s := range cfg.Scenes {
				fmt.Printf("  - %s (%dx%d, scene: %s)\n", s.Name, s.Width, s.Height, s.Scene)
			}
			fmt.Printf("\nAlgorithms: %s\n", strings.Join(cfg.Algorithms, ", "))
			durations := lo.Map(cfg.DurationsSec, func(d int, _ int) string {
				return fmt.Sprintf("%ds", d)
			})
			fmt.Printf("Durations: %s\n", strings.Join(durations, ", "))
			fmt.Println("\nScheduling configurations:")
			for _, sched := range cfg.Schedules() {
				fmt.Printf("  - [%s] %s\n", sched.Abbr, sched.Name)
			}
			return nil
		},
	}
}
