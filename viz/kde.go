// Package viz draws the sampling distributions produced by a simulation:
// Gaussian kernel density estimates rendered either as a gonum/plot figure
// or as an ASCII chart for the terminal.
package viz

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultCut is how many bandwidths the evaluation grid extends past the
// data on each side.
const DefaultCut = 3.0

// KDE is a Gaussian kernel density estimate with Scott's bandwidth
// h = σ̂·n^(-1/5).
type KDE struct {
	data      []float64
	bandwidth float64
}

// NewKDE fits a density to the finite entries of values. At least two
// distinct finite values are required.
func NewKDE(values []float64) (*KDE, error) {
	data, _ := errors.FiniteValues(values)
	if len(data) < 2 {
		return nil, errors.NewValueError("NewKDE", "at least two finite values are required")
	}
	sort.Float64s(data)

	sd := stat.StdDev(data, nil)
	if !(sd > 0) {
		return nil, errors.NewValueError("NewKDE", "values have zero variance")
	}
	return &KDE{
		data:      data,
		bandwidth: sd * math.Pow(float64(len(data)), -0.2),
	}, nil
}

// Bandwidth returns the kernel standard deviation.
func (k *KDE) Bandwidth() float64 { return k.bandwidth }

// Len returns the number of points the density was fitted on.
func (k *KDE) Len() int { return len(k.data) }

// Density evaluates the estimate at x.
func (k *KDE) Density(x float64) float64 {
	var sum float64
	for _, xi := range k.data {
		sum += distuv.Normal{Mu: xi, Sigma: k.bandwidth}.Prob(x)
	}
	return sum / float64(len(k.data))
}

// Range returns the grid bounds: the data range widened by cut bandwidths.
func (k *KDE) Range(cut float64) (lo, hi float64) {
	return k.data[0] - cut*k.bandwidth, k.data[len(k.data)-1] + cut*k.bandwidth
}

// Grid evaluates the density at points evenly spaced over Range(cut).
func (k *KDE) Grid(points int, cut float64) (xs, ys []float64) {
	if points < 2 {
		points = 2
	}
	lo, hi := k.Range(cut)
	xs = floats.Span(make([]float64, points), lo, hi)
	ys = make([]float64, points)
	for i, x := range xs {
		ys[i] = k.Density(x)
	}
	return xs, ys
}
