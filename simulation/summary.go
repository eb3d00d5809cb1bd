package simulation

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/ivsim/metrics"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Estimator names used in summaries and tables.
const (
	EstimatorOLS = "ols"
	EstimatorIV  = "iv"
)

// Summary describes the sampling distribution of one estimator across
// replications. NaN estimates are excluded and counted in Missing.
type Summary struct {
	Name    string
	Count   int
	Missing int

	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64

	// Bias and RMSE are measured against Config.TrueBeta.
	Bias float64
	RMSE float64
}

// Summarize returns the OLS and IV summaries, in that order.
func Summarize(res *Results) []Summary {
	return []Summary{
		summarize(EstimatorOLS, res.OLSCoefficients(), res.Config.TrueBeta),
		summarize(EstimatorIV, res.IVCoefficients(), res.Config.TrueBeta),
	}
}

func summarize(name string, values []float64, truth float64) Summary {
	finite, dropped := errors.FiniteValues(values)
	s := Summary{Name: name, Count: len(finite), Missing: dropped}

	if len(finite) == 0 {
		nan := math.NaN()
		s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		s.Bias, s.RMSE = nan, nan
		return s
	}

	sorted := append([]float64(nil), finite...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.StdDev = math.NaN()
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)

	report, err := metrics.Evaluate(sorted, truth)
	if err == nil {
		s.Bias = report.Bias
		s.RMSE = report.RMSE
	}
	return s
}

// quantile interpolates linearly between the order statistics at rank
// p·(n-1), the same convention as pandas' describe. sorted must be
// ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
