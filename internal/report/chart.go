package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tkenner/rendersweep/internal/converge"
)

// PlotSeries renders one convergence series as a PNG line chart, elapsed
// seconds on X and RMSE on Y. Samples with failed metrics are skipped.
func PlotSeries(samples []converge.Sample, title, outPath string) error {
	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		if s.Metric.Failed() {
			continue
		}
		pts = append(pts, plotter.XY{X: s.ElapsedSec, Y: s.Metric.Value})
	}
	if len(pts) == 0 {
		return fmt.Errorf("no usable samples for chart %s", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "RMSE"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building line: %w", err)
	}
	line.Color = color.RGBA{100, 200, 100, 255}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("saving chart %s: %w", outPath, err)
	}
	return nil
}
