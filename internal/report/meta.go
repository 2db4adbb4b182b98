package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunMeta records the provenance of one sweep: which renderer produced the
// images in this directory, when, and under what identity. It lives next
// to the images, not in the reports, so reports stay plain delimited text.
type RunMeta struct {
	RunID        string   `json:"run_id"`
	Timestamp    string   `json:"timestamp_rfc3339"`
	RendererPath string   `json:"renderer_path"`
	CompareCmd   string   `json:"compare_cmd"`
	Algorithms   []string `json:"algorithms"`
	DurationsSec []int    `json:"durations_sec"`
	Convergence  bool     `json:"convergence"`
}

func NewRunMeta(rendererPath, compareCmd string, algorithms []string, durations []int, convergence bool) *RunMeta {
	return &RunMeta{
		RunID:        uuid.NewString(),
		Timestamp:    time.Now().Format(time.RFC3339),
		RendererPath: rendererPath,
		CompareCmd:   compareCmd,
		Algorithms:   algorithms,
		DurationsSec: durations,
		Convergence:  convergence,
	}
}

func WriteRunMeta(dir string, meta *RunMeta) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating run dir: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run meta: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "run.json"), data, 0o644)
}
