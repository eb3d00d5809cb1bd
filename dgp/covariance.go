// Package dgp generates synthetic datasets from the linear data-generating
// process y = 0.5 + β·x1 + 0.5·x2 + e, where (x1, x2, z, e) are jointly normal
// with zero mean and a correlation-parameterised covariance matrix.
package dgp

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Positions of the jointly normal variables in the covariance matrix.
const (
	VarX1 = iota
	VarX2
	VarZ
	VarE

	NumVariables
)

// VariableNames labels the rows and columns of the covariance matrix.
var VariableNames = [NumVariables]string{"x1", "x2", "z", "e"}

const (
	// symmetryTol bounds |a_ij - a_ji| and |a_ii - 1|.
	symmetryTol = 1e-12
	// PSDTolerance is the most negative eigenvalue still accepted as
	// positive semi-definite.
	PSDTolerance = 1e-10
)

// Correlations holds the six pairwise correlations among (x1, x2, z, e).
// The zero value is the identity covariance.
type Correlations struct {
	X1X2 float64 `yaml:"x1_x2"`
	X1Z  float64 `yaml:"x1_z"`
	X1E  float64 `yaml:"x1_e"`
	X2Z  float64 `yaml:"x2_z"`
	X2E  float64 `yaml:"x2_e"`
	ZE   float64 `yaml:"z_e"`
}

// Matrix builds the 4×4 covariance matrix with unit diagonal.
func (c Correlations) Matrix() *mat.SymDense {
	return mat.NewSymDense(NumVariables, []float64{
		1, c.X1X2, c.X1Z, c.X1E,
		c.X1X2, 1, c.X2Z, c.X2E,
		c.X1Z, c.X2Z, 1, c.ZE,
		c.X1E, c.X2E, c.ZE, 1,
	})
}

// CovarianceInfo describes a covariance matrix that passed validation.
type CovarianceInfo struct {
	MinEigenvalue    float64
	PositiveDefinite bool
}

// ValidateCovariance checks that cov is a valid correlation matrix for the
// generator: 4×4, symmetric, unit diagonal, off-diagonals in [-1, 1] and
// positive semi-definite. Failures are *errors.CovarianceError.
func ValidateCovariance(cov mat.Matrix) (CovarianceInfo, error) {
	r, c := cov.Dims()
	if r != NumVariables || c != NumVariables {
		return CovarianceInfo{}, errors.NewCovarianceError(
			fmt.Sprintf("expected %dx%d matrix, got %dx%d", NumVariables, NumVariables, r, c), -1, -1)
	}

	for i := 0; i < NumVariables; i++ {
		for j := 0; j < NumVariables; j++ {
			v := cov.At(i, j)
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				return CovarianceInfo{}, errors.NewCovarianceError(fmt.Sprintf("non-finite entry %v", v), i, j)
			case i == j && math.Abs(v-1) > symmetryTol:
				return CovarianceInfo{}, errors.NewCovarianceError(fmt.Sprintf("diagonal entry %v for %s is not 1", v, VariableNames[i]), i, j)
			case i != j && (v < -1 || v > 1):
				return CovarianceInfo{}, errors.NewCovarianceError(
					fmt.Sprintf("correlation %s-%s = %v is outside [-1, 1]", VariableNames[i], VariableNames[j], v), i, j)
			case j > i && math.Abs(v-cov.At(j, i)) > symmetryTol:
				return CovarianceInfo{}, errors.NewCovarianceError("matrix is not symmetric", i, j)
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(symmetricCopy(cov), false) {
		return CovarianceInfo{}, errors.NewCovarianceError("eigendecomposition did not converge", -1, -1)
	}
	minEig := floats.Min(eig.Values(nil))
	if minEig < -PSDTolerance {
		return CovarianceInfo{MinEigenvalue: minEig}, errors.NewNotPSDError(minEig)
	}

	return CovarianceInfo{
		MinEigenvalue:    minEig,
		PositiveDefinite: minEig > PSDTolerance,
	}, nil
}

// symmetricCopy copies the upper triangle of m into a new SymDense.
func symmetricCopy(m mat.Matrix) *mat.SymDense {
	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, m.At(i, j))
		}
	}
	return s
}
