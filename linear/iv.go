package linear

import (
	"math"

	"github.com/YuminosukeSato/ivsim/core/model"
	"github.com/YuminosukeSato/ivsim/metrics"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// orthogonalTol: 第1段階の予測値のばらつきが元の内生変数に対してこの比率以下なら
// 操作変数は内生変数と（標本内で）直交しているとみなす
const orthogonalTol = 1e-10

// TwoStageLeastSquares は二段階最小二乗法（2SLS）による操作変数推定
//
// 第1段階で各内生変数を除外操作変数 Z に回帰し、予測値 X̂ = P_Z X を得る。
// 第2段階で y を X̂ に回帰した係数が構造係数となる。
// 標準誤差は X̂ ではなく元の X に対する残差から計算する。
type TwoStageLeastSquares struct {
	model.BaseEstimator

	Weights   *mat.VecDense // 内生変数の構造係数
	Intercept float64

	cfg         config
	firstStages []*LinearRegression
	inference   *Inference
}

// NewTwoStageLeastSquares は新しい 2SLS 推定器を作成する
func NewTwoStageLeastSquares(opts ...Option) *TwoStageLeastSquares {
	return &TwoStageLeastSquares{cfg: newConfig(opts)}
}

// Fit は内生変数 X (n×k)、除外操作変数 Z (n×m, m ≥ k)、被説明変数 y (n×1) で学習する
func (iv *TwoStageLeastSquares) Fit(X, Z, y mat.Matrix) error {
	const op = "TwoStageLeastSquares.Fit"

	n, k := X.Dims()
	nz, m := Z.Dims()
	ny, cy := y.Dims()

	if n == 0 || k == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if nz != n {
		return errors.NewDimensionError(op, n, nz, 0)
	}
	if ny != n {
		return errors.NewDimensionError(op, n, ny, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if err := errors.CheckMatrix(op+".y", y, ny, cy, 0); err != nil {
		return err
	}
	if m < k {
		return errors.NewModelError(op, "under-identified", errors.ErrUnderIdentified)
	}

	offset := 0
	if iv.cfg.fitIntercept {
		offset = 1
	}
	if n <= m+offset || n <= k+offset {
		return errors.NewModelError(op, "too few observations", errors.ErrInsufficientSamples)
	}

	// 第1段階: X_j ~ Z
	firstStages := make([]*LinearRegression, k)
	xhat := mat.NewDense(n, k, nil)
	for j := 0; j < k; j++ {
		xj := mat.NewDense(n, 1, column(X, j))
		fs := NewLinearRegression(WithFitIntercept(iv.cfg.fitIntercept), WithParallelThreshold(iv.cfg.parallelThreshold))
		if err := fs.Fit(Z, xj); err != nil {
			return errors.Wrapf(err, "first stage for endogenous regressor %d", j)
		}
		pred, err := fs.Predict(Z)
		if err != nil {
			return err
		}
		predCol := column(pred, 0)
		if spread(predCol, iv.cfg.fitIntercept) <= orthogonalTol*spread(column(X, j), iv.cfg.fitIntercept) {
			return errors.NewModelError(op, "instruments are orthogonal to the endogenous regressor", errors.ErrSingularMatrix)
		}
		xhat.SetCol(j, predCol)
		firstStages[j] = fs
	}

	// 第2段階: y ~ X̂
	Dhat := designMatrix(xhat, iv.cfg.fitIntercept, iv.cfg.parallelThreshold)
	coef, ok := solveQR(Dhat, y)
	if !ok {
		return errors.NewModelError(op, "singular second stage", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability(op, coef, 0); err != nil {
		return err
	}

	iv.Reset()
	iv.firstStages = firstStages
	if offset == 1 {
		iv.Intercept = coef[0]
	} else {
		iv.Intercept = 0
	}
	iv.Weights = mat.NewVecDense(k, append([]float64(nil), coef[offset:]...))
	iv.inference = structuralInference(designMatrix(X, iv.cfg.fitIntercept, iv.cfg.parallelThreshold), Dhat, y, coef, iv.cfg.fitIntercept)

	iv.SetDimensions(k, n)
	iv.SetFitted()
	return nil
}

// structuralInference は元の X に対する残差で σ² を推定し、
// Cov(β̂) = σ² (X̂'X̂)^-1 とする
func structuralInference(D, Dhat *mat.Dense, y mat.Matrix, coef []float64, fitIntercept bool) *Inference {
	n, p := D.Dims()
	yVec := metrics.ColumnVector(y)

	var fitted mat.VecDense
	fitted.MulVec(D, mat.NewVecDense(p, coef))
	ssr, _ := metrics.SumSquaredResiduals(yVec, &fitted)

	inf := &Inference{
		Coefficients: coef,
		SSR:          ssr,
		NObs:         n,
		DFResid:      n - p,
		DFModel:      p,
		FStatistic:   math.NaN(),
		FPValue:      math.NaN(),
	}
	if fitIntercept {
		inf.DFModel = p - 1
	}

	tss := spread(yVec.RawVector().Data, fitIntercept)
	tss *= tss
	inf.RSquared = math.NaN()
	if tss > 0 {
		inf.RSquared = 1 - ssr/tss
	}

	inf.ResidualVariance = math.NaN()
	if inf.DFResid > 0 {
		inf.ResidualVariance = ssr / float64(inf.DFResid)
	}

	inv, ok := gramInverse(Dhat)
	fillCoefficientTests(inf, inv, ok)
	return inf
}

// Predict は構造式 y = intercept + X·weights による予測を返す
func (iv *TwoStageLeastSquares) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := iv.RequireFitted("TwoStageLeastSquares", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != iv.Weights.Len() {
		return nil, errors.NewDimensionError("TwoStageLeastSquares.Predict", iv.Weights.Len(), c, 1)
	}

	var pred mat.VecDense
	pred.MulVec(X, iv.Weights)
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, pred.AtVec(i)+iv.Intercept)
	}
	return out, nil
}

// GetWeights は内生変数の構造係数を返す
func (iv *TwoStageLeastSquares) GetWeights() []float64 {
	if iv.Weights == nil {
		return nil
	}
	return append([]float64(nil), iv.Weights.RawVector().Data...)
}

// GetIntercept は推定された切片を返す
func (iv *TwoStageLeastSquares) GetIntercept() float64 {
	if !iv.IsFitted() {
		return 0
	}
	return iv.Intercept
}

// FirstStages は各内生変数の第1段階回帰を返す
func (iv *TwoStageLeastSquares) FirstStages() []*LinearRegression {
	return iv.firstStages
}

// FirstStageF は各内生変数について、除外操作変数の F 統計量を返す
func (iv *TwoStageLeastSquares) FirstStageF() ([]float64, error) {
	if err := iv.RequireFitted("TwoStageLeastSquares", "FirstStageF"); err != nil {
		return nil, err
	}
	out := make([]float64, len(iv.firstStages))
	for j, fs := range iv.firstStages {
		out[j] = fs.inference.FStatistic
	}
	return out, nil
}

// Inference は構造係数の推測統計量を返す（F 統計量は NaN）
func (iv *TwoStageLeastSquares) Inference() (*Inference, error) {
	if err := iv.RequireFitted("TwoStageLeastSquares", "Inference"); err != nil {
		return nil, err
	}
	return iv.inference, nil
}

var _ model.InstrumentalFitter = (*TwoStageLeastSquares)(nil)
