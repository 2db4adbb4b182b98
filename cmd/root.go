package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rendersweep",
		Short: "Benchmark sweep harness for an external renderer",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "rendersweep.yaml", "config file path")
	root.AddCommand(newRunCmd())
	root.AddCommand(newConvergeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	return root
}
