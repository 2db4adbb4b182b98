package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tkenner/rendersweep/internal/config"
	"github.com/tkenner/rendersweep/internal/sweep"
)

func newConvergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "converge <renderer-path>",
		Short: "Check that the unbiased algorithms converge to the reference images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			executor := sweep.New(&sweep.Options{
				RendererPath: args[0],
				Config:       cfg,
			})
			return executor.RunConvergenceTests(context.Background())
		},
	}
}
