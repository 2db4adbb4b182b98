// Package perf extracts the renderer's performance self-report from its
// captured standard output. The final line is a versioned wire format: any
// change to the renderer's wording must fail loudly here, never default to
// zeroes.
package perf

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoRecord is returned when the output's last non-empty line does not
// match the expected report format.
var ErrNoRecord = errors.New("no performance record in renderer output")

type Record struct {
	ElapsedSec float64
	Samples    int
	FPS        float64
	MSPerFrame float64
}

var reportRe = regexp.MustCompile(`^Done after (\d+\.?\d*) seconds, (\d+) samples @ (\d+\.?\d*) frames per second, (\d+\.?\d*)ms per frame`)

// Parse matches the last non-empty line of stdout against the renderer's
// final report format. All four fields parse or none do.
func Parse(stdout string) (*Record, error) {
	line := lastNonEmptyLine(stdout)
	if line == "" {
		return nil, ErrNoRecord
	}
	m := reportRe.FindStringSubmatch(line)
	if m == nil {
		return nil, ErrNoRecord
	}

	elapsed, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, ErrNoRecord
	}
	samples, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, ErrNoRecord
	}
	fps, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil, ErrNoRecord
	}
	msPerFrame, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return nil, ErrNoRecord
	}

	return &Record{
		ElapsedSec: elapsed,
		Samples:    samples,
		FPS:        fps,
		MSPerFrame: msPerFrame,
	}, nil
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
