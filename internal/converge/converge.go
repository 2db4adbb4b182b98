// Package converge builds a time series of image quality from the
// intermediate snapshots a renderer writes during one long run. Snapshot
// filenames embed the elapsed render time in milliseconds:
// <stem>_<algorithm><abbr>_conv_<ms>ms.png
package converge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/tkenner/rendersweep/internal/quality"
)

// Sample is one point of the convergence series: image quality at a given
// elapsed render time.
type Sample struct {
	ElapsedSec float64
	Metric     quality.Metric
}

// Collect scans dir for snapshots whose name starts with prefix, scores
// each against reference and returns the samples sorted by elapsed time.
// Directory enumeration order is not trusted. Snapshots that fail to score
// still appear in the series carrying their diagnostic.
func Collect(ctx context.Context, ev *quality.Evaluator, dir, prefix, reference string) ([]Sample, error) {
	re, err := regexp.Compile("^" + regexp.QuoteMeta(prefix) + `(\d+)ms\.png$`)
	if err != nil {
		return nil, fmt.Errorf("building snapshot pattern: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot dir %s: %w", dir, err)
	}

	var samples []Sample
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		metric, err := ev.Evaluate(ctx, filepath.Join(dir, entry.Name()), reference)
		if err != nil {
			return nil, fmt.Errorf("scoring snapshot %s: %w", entry.Name(), err)
		}
		samples = append(samples, Sample{
			ElapsedSec: float64(ms) / 1000.0,
			Metric:     metric,
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].ElapsedSec < samples[j].ElapsedSec
	})
	return samples, nil
}

// Finish appends the full-duration run's own metric at the nominal time
// budget, so the series always ends at the configured duration even when
// no snapshot landed exactly there.
func Finish(samples []Sample, durationSec float64, final quality.Metric) []Sample {
	return append(samples, Sample{ElapsedSec: durationSec, Metric: final})
}
