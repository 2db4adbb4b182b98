// Package report persists sweep results as delimited text files. Reports
// are append-only and write-only: nothing in the harness reads them back.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tkenner/rendersweep/internal/converge"
	"github.com/tkenner/rendersweep/internal/quality"
)

const perfHeader = "name, algorithm, time (seconds), samples, frames per second, ms per frame, RMSE, rays per second, scheduling scheme\n"

// Row is the flattened outcome of one run configuration. Written once,
// never mutated.
type Row struct {
	SceneName  string
	Algorithm  string
	ElapsedSec float64
	Samples    int
	FPS        float64
	MSPerFrame float64
	RMSE       quality.Metric
	RaysPerSec float64
	Scheduling string
}

// Stamp returns the timestamp token embedded in report filenames and the
// image directory name.
func Stamp(t time.Time) string {
	return t.Format("2006_01_02_15_04_05")
}

// Writer appends rows to a delimited report file. Sync must be called
// after each completed scene so a crash mid-sweep loses at most the scene
// in progress.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
}

func newWriter(path, header string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating report %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing report header: %w", err)
	}
	return &Writer{f: f, bw: bw}, nil
}

// NewPerfWriter opens the performance report and writes its fixed header.
func NewPerfWriter(path string) (*Writer, error) {
	return newWriter(path, perfHeader)
}

// NewConvergenceWriter opens the convergence report. Convergence reports
// have no global header; each series carries its own group header.
func NewConvergenceWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating report %s: %w", path, err)
	}
	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *Writer) AppendRow(r Row) error {
	_, err := fmt.Fprintf(w.bw, "%s,%s,%s,%d,%s,%s,%s,%s,%s\n",
		r.SceneName, r.Algorithm,
		ftoa(r.ElapsedSec), r.Samples, ftoa(r.FPS), ftoa(r.MSPerFrame),
		r.RMSE, ftoa(r.RaysPerSec), r.Scheduling)
	if err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}

// AppendSeries writes one convergence series: a group header naming the
// run, a column header, the samples, in order.
func (w *Writer) AppendSeries(scene, algorithm string, samples []converge.Sample) error {
	if _, err := fmt.Fprintf(w.bw, "%s,%s\ntime s,RMSE\n", scene, algorithm); err != nil {
		return fmt.Errorf("appending series header: %w", err)
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(w.bw, "%s,%s\n", ftoa(s.ElapsedSec), s.Metric); err != nil {
			return fmt.Errorf("appending series sample: %w", err)
		}
	}
	return nil
}

// Sync flushes buffered rows and forces them to durable storage.
func (w *Writer) Sync() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("syncing report: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("flushing report: %w", err)
	}
	return w.f.Close()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
