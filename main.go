package main

import (
	"os"

	"github.com/tkenner/rendersweep/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
