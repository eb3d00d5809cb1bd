package dgp

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Structural constants of the outcome equation.
const (
	Intercept       = 0.5
	ConfounderCoeff = 0.5
)

// Generator draws datasets for a fixed β and covariance matrix. The matrix is
// validated and factorized once; a Generator is safe for concurrent use as
// long as each goroutine passes its own rand.Source.
type Generator struct {
	beta float64
	cov  *mat.SymDense
	info CovarianceInfo

	mean []float64
	// Exactly one of chol and eig is set.
	chol *mat.Cholesky
	eig  *distmv.PositivePartEigenSym
}

// NewGenerator validates the covariance built from corr and returns a Generator.
func NewGenerator(beta float64, corr Correlations) (*Generator, error) {
	return NewGeneratorFromCovariance(beta, corr.Matrix())
}

// NewGeneratorFromCovariance validates cov and returns a Generator.
// Positive definite matrices sample through their Cholesky factor; singular
// PSD matrices through the positive part of their eigendecomposition.
func NewGeneratorFromCovariance(beta float64, cov mat.Matrix) (*Generator, error) {
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, errors.NewValidationError("true_beta", "must be finite", beta)
	}

	info, err := ValidateCovariance(cov)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		beta: beta,
		cov:  symmetricCopy(cov),
		info: info,
		mean: make([]float64, NumVariables),
	}

	var chol mat.Cholesky
	if info.PositiveDefinite && chol.Factorize(g.cov) {
		g.chol = &chol
		return g, nil
	}

	var eig mat.EigenSym
	if !eig.Factorize(g.cov, true) {
		return nil, errors.NewCovarianceError("eigendecomposition did not converge", -1, -1)
	}
	g.eig = distmv.NewPositivePartEigenSym(&eig)
	return g, nil
}

// Beta returns the structural coefficient on x1.
func (g *Generator) Beta() float64 { return g.beta }

// Covariance returns a copy of the covariance matrix.
func (g *Generator) Covariance() *mat.SymDense {
	return mat.NewSymDense(NumVariables, append([]float64(nil), g.cov.RawSymmetric().Data...))
}

// Info returns the validation summary of the covariance matrix.
func (g *Generator) Info() CovarianceInfo { return g.info }

// Generate draws n independent observations using src. The same src state
// always yields the same dataset.
func (g *Generator) Generate(n int, src rand.Source) (*Dataset, error) {
	if n <= 0 {
		return nil, errors.NewValidationErrorWithCause("obs", "must be positive", n, errors.ErrEmptyData)
	}
	if src == nil {
		return nil, errors.NewValueError("Generator.Generate", "random source is nil")
	}

	obs := make([]Observation, n)
	draw := make([]float64, NumVariables)
	for i := range obs {
		if g.chol != nil {
			distmv.NormalRand(draw, g.mean, g.chol, src)
		} else {
			distmv.NormalRandCov(draw, g.mean, g.eig, src)
		}
		x1, x2, z, e := draw[VarX1], draw[VarX2], draw[VarZ], draw[VarE]
		obs[i] = Observation{
			Y:  Intercept + g.beta*x1 + ConfounderCoeff*x2 + e,
			X1: x1,
			X2: x2,
			Z:  z,
			E:  e,
		}
	}
	return &Dataset{Observations: obs}, nil
}
