package sweep

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tkenner/rendersweep/internal/invoke"
)

// unbiasedAlgorithms are the only integrators expected to reproduce the
// reference exactly given enough time; the biased ones miss some effects
// and would never pass.
var unbiasedAlgorithms = []string{"pt", "bpt", "vcm"}

// RunConvergenceTests checks that the unbiased algorithms eventually
// reproduce each scene's reference image. Each run gets the full converge
// budget; results are printed, not written to a report.
func (e *Executor) RunConvergenceTests(ctx context.Context) error {
	outputDir := filepath.Join(e.cfg.ResultsDir, "convergence")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating convergence dir: %w", err)
	}

	fmt.Println("Running convergence tests...")
	budgetSec := e.cfg.ConvergeBudgetSec

	for _, scene := range e.scenes {
		fmt.Println(scene.Name)
		for _, alg := range unbiasedAlgorithms {
			fmt.Println(alg)

			outFile := filepath.Join(outputDir, scene.BaseFilename+alg+".png")
			args := []string{
				scene.Scene,
				"-w", strconv.Itoa(scene.Width),
				"-h", strconv.Itoa(scene.Height),
				"-q",
				"-t", strconv.Itoa(budgetSec),
				"-a", alg,
				"--spp", "8",
				"--tile-size", "128",
				outFile,
			}
			args = append(args, scene.ExtraArgs...)

			timeout := time.Duration(0)
			if e.cfg.InvokeTimeoutSec > 0 {
				timeout = time.Duration(budgetSec+e.cfg.InvokeTimeoutSec) * time.Second
			}
			res, err := invoke.Run(ctx, timeout, e.renderer, args...)
			if err != nil {
				log.Printf("renderer failed for %s/%s: %v", scene.Name, alg, err)
				continue
			}

			if _, statErr := os.Stat(outFile); statErr != nil {
				log.Printf("output image was not created for %s/%s. Output:\n%s%s",
					scene.Name, alg, res.Stdout, res.Stderr)
				continue
			}

			metric, err := e.evaluator.Evaluate(ctx, outFile, scene.Reference)
			if err != nil {
				log.Printf("comparison failed for %s/%s: %v", scene.Name, alg, err)
				continue
			}
			fmt.Printf(" > RMSE: %s\n", metric)
		}
	}

	fmt.Println("DONE")
	return nil
}
