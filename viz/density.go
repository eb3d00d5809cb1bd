package viz

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named set of estimates to draw.
type Series struct {
	Name   string
	Values []float64
}

// DensityOptions controls DensityPlot.
type DensityOptions struct {
	Title  string
	XLabel string
	// Points is the grid size of every curve.
	Points int
	// Truth draws a dashed vertical reference line when Mark is true.
	Truth float64
	Mark  bool
}

// DefaultDensityOptions returns the options used by the CLI.
func DefaultDensityOptions(truth float64) DensityOptions {
	return DensityOptions{
		Title:  "Sampling distribution of the coefficient on x1",
		XLabel: "estimate",
		Points: 200,
		Truth:  truth,
		Mark:   true,
	}
}

// DensityPlot overlays one kernel density curve per series. Series with
// fewer than two distinct finite values are skipped; it is an error if none
// remain.
func DensityPlot(series []Series, opts DensityOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = "density"
	p.Legend.Top = true

	var (
		drawn int
		ymax  float64
	)
	for i, s := range series {
		kde, err := NewKDE(s.Values)
		if err != nil {
			continue
		}
		xs, ys := kde.Grid(opts.Points, DefaultCut)
		xys := make(plotter.XYs, len(xs))
		for j := range xs {
			xys[j].X, xys[j].Y = xs[j], ys[j]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "density of %s", s.Name)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)

		ymax = max(ymax, floats.Max(ys))
		drawn++
	}
	if drawn == 0 {
		return nil, errors.NewValueError("DensityPlot", "no series has enough finite values")
	}

	if opts.Mark {
		ref, err := plotter.NewLine(plotter.XYs{{X: opts.Truth, Y: 0}, {X: opts.Truth, Y: ymax * 1.05}})
		if err != nil {
			return nil, errors.Wrap(err, "reference line")
		}
		ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		ref.Color = plotutil.Color(len(series))
		p.Add(ref)
		p.Legend.Add("true β", ref)
	}
	return p, nil
}

// Figure size used by SaveDensityPlot and WriteDensityPlot.
const (
	FigureWidth  = 8 * vg.Inch
	FigureHeight = 5 * vg.Inch
)

// SaveDensityPlot writes p to path; the format follows the file extension
// (png, svg, pdf, ...).
func SaveDensityPlot(p *plot.Plot, path string) error {
	if err := p.Save(FigureWidth, FigureHeight, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}

// WriteDensityPlot renders p to w in the given format, e.g. "png" or "svg".
func WriteDensityPlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(FigureWidth, FigureHeight, strings.ToLower(format))
	if err != nil {
		return errors.Wrapf(err, "rendering %s plot", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing plot")
	}
	return nil
}

// FormatFromPath returns the image format implied by path's extension.
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
