package report

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/plasmonlab/sprsweep/resonance"
)

// Plot sentinel errors.
var (
	// ErrNoSeries indicates that SavePlot was called without any curve.
	ErrNoSeries = errors.New("report: no curves to plot")

	// ErrCurveLength indicates a curve whose sample count differs from the
	// angular grid it is plotted against.
	ErrCurveLength = errors.New("report: curve length differs from grid")
)

// CurveSeries is one labelled reflectance-vs-angle curve, sampled on the
// grid handed to SavePlot. Typically the "min" and "max" variants of the
// swept parameter are overlaid to visualize the dip shift.
type CurveSeries struct {
	Label string
	R     []float64
}

// SavePlot renders reflectance-vs-angle curves to a PNG (or any extension
// gonum/plot recognizes). Purely a human-verification side channel.
func SavePlot(path, title string, grid resonance.Grid, series ...CurveSeries) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	angles := grid.Angles()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "incidence angle [deg]"
	p.Y.Label.Text = "reflectance"
	p.Add(plotter.NewGrid())

	args := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		if len(s.R) != len(angles) {
			return fmt.Errorf("%w: %q has %d samples, grid has %d",
				ErrCurveLength, s.Label, len(s.R), len(angles))
		}
		xys := make(plotter.XYs, len(angles))
		for i := range angles {
			xys[i].X = angles[i]
			xys[i].Y = s.R[i]
		}
		args = append(args, s.Label, xys)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return fmt.Errorf("report: add curves: %w", err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save plot: %w", err)
	}

	return nil
}
