// Package quality scores a produced image against a reference by shelling
// out to an external comparison utility (ImageMagick compare by default).
package quality

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/tkenner/rendersweep/internal/invoke"
)

// Metric is a single RMSE value, or a failure carrying the comparison
// utility's diagnostic output. A failed metric is never coerced to a
// number.
type Metric struct {
	Value float64
	Diag  string
}

func (m Metric) Failed() bool { return m.Diag != "" }

// String renders the metric as it appears in a report row: the numeric
// value, or the diagnostic prefixed with ERROR.
func (m Metric) String() string {
	if m.Failed() {
		return "ERROR: " + m.Diag
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

type Evaluator struct {
	// CompareCmd is the comparison executable, "compare" by default.
	CompareCmd string
	// Timeout bounds one comparison; zero means unlimited.
	Timeout time.Duration
}

var leadingDecimalRe = regexp.MustCompile(`^(\d+\.?\d*)`)

// Evaluate runs the comparison utility on produced vs reference and parses
// the RMSE from the start of its stderr. The visual diff the utility
// insists on writing goes to a scratch file that is removed best-effort.
// A launch failure is returned as an error; a parse failure is reported
// in-band as a failed Metric so the caller can still record the row.
func (e *Evaluator) Evaluate(ctx context.Context, produced, reference string) (Metric, error) {
	cmd := e.CompareCmd
	if cmd == "" {
		cmd = "compare"
	}

	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("rendersweep-diff-%d.png", time.Now().UnixNano()))
	defer os.Remove(scratch)

	res, err := invoke.Run(ctx, e.Timeout, cmd, "-metric", "RMSE", produced, reference, scratch)
	if err != nil {
		return Metric{}, fmt.Errorf("comparing %s: %w", produced, err)
	}

	m := leadingDecimalRe.FindStringSubmatch(res.Stderr)
	if m == nil {
		// e.g. "compare: image widths or heights differ"
		return Metric{Diag: res.Stdout + res.Stderr}, nil
	}
	value, convErr := strconv.ParseFloat(m[1], 64)
	if convErr != nil {
		return Metric{Diag: res.Stdout + res.Stderr}, nil
	}
	return Metric{Value: value}, nil
}
