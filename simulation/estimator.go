package simulation

import (
	"math"

	"github.com/YuminosukeSato/ivsim/dgp"
	"github.com/YuminosukeSato/ivsim/linear"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
)

// Estimate is the output of EstimatorPair for one dataset.
type Estimate struct {
	OLS            float64 // naive coefficient on x1
	IV             float64 // 2SLS coefficient on x1; NaN when the second stage is singular
	FirstStageF    float64 // F statistic of z in the regression of x1 on z
	WeakInstrument bool
	Singular       bool
}

// EstimatorPair fits the naive and instrumented estimators of the
// coefficient on x1:
//
//	naive:        y ~ x1
//	instrumented: y ~ x1, x1 instrumented by z
type EstimatorPair struct {
	FitIntercept    bool
	WeakInstrumentF float64
}

// NewEstimatorPair returns the pair configured from cfg.
func NewEstimatorPair(cfg Config) EstimatorPair {
	return EstimatorPair{
		FitIntercept:    cfg.FitIntercept,
		WeakInstrumentF: cfg.WeakInstrumentF,
	}
}

// Estimate fits both estimators on ds. A weak or orthogonal instrument is
// reported through the Estimate flags, not as an error.
func (p EstimatorPair) Estimate(ds *dgp.Dataset) (Estimate, error) {
	X := ds.Matrix(dgp.ColumnX1)
	Z := ds.Matrix(dgp.ColumnZ)
	y := ds.Vector(dgp.ColumnY)

	ols := linear.NewLinearRegression(linear.WithFitIntercept(p.FitIntercept))
	if err := ols.Fit(X, y); err != nil {
		return Estimate{}, errors.Wrap(err, "naive OLS")
	}

	first := linear.NewLinearRegression(linear.WithFitIntercept(p.FitIntercept))
	if err := first.Fit(Z, X); err != nil {
		return Estimate{}, errors.Wrap(err, "first stage")
	}
	firstInf, err := first.Inference()
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{
		OLS:         ols.GetWeights()[0],
		FirstStageF: firstInf.FStatistic,
	}
	// NaN F (no residual degrees of freedom) counts as weak.
	est.WeakInstrument = !(est.FirstStageF >= p.WeakInstrumentF)

	iv := linear.NewTwoStageLeastSquares(linear.WithFitIntercept(p.FitIntercept))
	switch err := iv.Fit(X, Z, y); {
	case err == nil:
		est.IV = iv.GetWeights()[0]
	case errors.Is(err, errors.ErrSingularMatrix):
		est.IV = math.NaN()
		est.Singular = true
		est.WeakInstrument = true
	default:
		return Estimate{}, errors.Wrap(err, "two-stage least squares")
	}
	return est, nil
}
