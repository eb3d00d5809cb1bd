// Package linear は QR 分解による最小二乗回帰と二段階最小二乗法（2SLS）を提供する
package linear

import (
	"math"

	"github.com/YuminosukeSato/ivsim/core/model"
	"github.com/YuminosukeSato/ivsim/metrics"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearRegression は線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数

	cfg       config
	inference *Inference
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	return &LinearRegression{cfg: newConfig(opts)}
}

// Inference は最小二乗推定の古典的な推測統計量
// 切片を推定した場合、各スライスの先頭が切片
type Inference struct {
	Coefficients []float64
	StdErrors    []float64
	TValues      []float64
	PValues      []float64 // 両側 t 検定

	ResidualVariance float64 // σ² = SSR / DFResid
	SSR              float64
	RSquared         float64 // 切片なしでは非中心化 R²
	NObs             int
	DFModel          int
	DFResid          int

	FStatistic float64 // 切片以外の全係数 = 0 の F 検定
	FPValue    float64
}

// Fit はモデルを訓練データで学習させる
// 計画行列を QR 分解し、最小二乗解を求める
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if err := errors.CheckMatrix("LinearRegression.Fit.X", X, r, c, 0); err != nil {
		return err
	}
	if err := errors.CheckMatrix("LinearRegression.Fit.y", y, ry, cy, 0); err != nil {
		return err
	}

	D := designMatrix(X, lr.cfg.fitIntercept, lr.cfg.parallelThreshold)
	_, p := D.Dims()
	if r < p {
		return errors.NewModelError("LinearRegression.Fit", "fewer observations than parameters", errors.ErrInsufficientSamples)
	}

	coef, ok := solveQR(D, y)
	if !ok {
		return errors.NewModelError("LinearRegression.Fit", "singular design matrix", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", coef, 0); err != nil {
		return err
	}

	lr.Reset()
	lr.NFeatures = c
	offset := p - c
	if offset == 1 {
		lr.Intercept = coef[0]
	} else {
		lr.Intercept = 0
	}
	lr.Weights = mat.NewVecDense(c, append([]float64(nil), coef[offset:]...))
	lr.inference = ordinaryInference(D, y, coef, lr.cfg.fitIntercept)

	lr.SetDimensions(c, r)
	lr.SetFitted()
	return nil
}

// ordinaryInference は OLS の標準誤差・t 値・F 検定を計算する
func ordinaryInference(D *mat.Dense, y mat.Matrix, coef []float64, fitIntercept bool) *Inference {
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
	}
	if fitIntercept {
		inf.DFModel = p - 1
	}

	// statsmodels と同様、切片なしモデルでは TSS を非中心化する
	tss := spread(yVec.RawVector().Data, fitIntercept)
	tss *= tss
	inf.RSquared = math.NaN()
	if r2, err := metrics.CenteredR2Score(yVec, &fitted, fitIntercept); err == nil {
		inf.RSquared = r2
	}

	inf.ResidualVariance = math.NaN()
	if inf.DFResid > 0 {
		inf.ResidualVariance = ssr / float64(inf.DFResid)
	}

	inv, ok := gramInverse(D)
	fillCoefficientTests(inf, inv, ok)

	inf.FStatistic, inf.FPValue = math.NaN(), math.NaN()
	if inf.DFModel > 0 && inf.DFResid > 0 && ssr > 0 {
		// 丸め誤差で負になるのを防ぐ
		inf.FStatistic = math.Max(0, ((tss-ssr)/float64(inf.DFModel))/inf.ResidualVariance)
		inf.FPValue = distuv.F{D1: float64(inf.DFModel), D2: float64(inf.DFResid)}.Survival(inf.FStatistic)
	}
	return inf
}

// fillCoefficientTests は σ²(D'D)^-1 の対角から標準誤差と t 検定を埋める
func fillCoefficientTests(inf *Inference, inv *mat.SymDense, ok bool) {
	p := len(inf.Coefficients)
	inf.StdErrors = make([]float64, p)
	inf.TValues = make([]float64, p)
	inf.PValues = make([]float64, p)

	if !ok || inf.DFResid <= 0 {
		for j := 0; j < p; j++ {
			inf.StdErrors[j], inf.TValues[j], inf.PValues[j] = math.NaN(), math.NaN(), math.NaN()
		}
		return
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(inf.DFResid)}
	for j := 0; j < p; j++ {
		se := math.Sqrt(inf.ResidualVariance * inv.At(j, j))
		inf.StdErrors[j] = se
		inf.TValues[j] = inf.Coefficients[j] / se
		if math.IsNaN(inf.TValues[j]) {
			inf.PValues[j] = math.NaN()
			continue
		}
		inf.PValues[j] = 2 * tdist.Survival(math.Abs(inf.TValues[j]))
	}
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// y = X * weights + intercept
	var pred mat.VecDense
	pred.MulVec(X, lr.Weights)
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, pred.AtVec(i)+lr.Intercept)
	}
	return out, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return append([]float64(nil), lr.Weights.RawVector().Data...)
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// FitIntercept は切片を推定する設定かどうかを返す
func (lr *LinearRegression) FitIntercept() bool {
	return lr.cfg.fitIntercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if err := lr.RequireFitted("LinearRegression", "Score"); err != nil {
		return 0, err
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(metrics.ColumnVector(y), metrics.ColumnVector(yPred))
}

// Inference は直近の Fit の推測統計量を返す
func (lr *LinearRegression) Inference() (*Inference, error) {
	if err := lr.RequireFitted("LinearRegression", "Inference"); err != nil {
		return nil, err
	}
	return lr.inference, nil
}

// Names は Inference の各要素に対応する名前を返す（切片は "const"）
func (inf *Inference) Names(features ...string) []string {
	names := make([]string, 0, len(inf.Coefficients))
	if len(inf.Coefficients) == len(features)+1 {
		names = append(names, "const")
	}
	return append(names, features...)
}

// ConfidenceInterval は係数 j の両側 (1-alpha) 信頼区間を返す
func (inf *Inference) ConfidenceInterval(j int, alpha float64) (lo, hi float64) {
	if inf.DFResid <= 0 || math.IsNaN(inf.StdErrors[j]) {
		return math.NaN(), math.NaN()
	}
	q := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(inf.DFResid)}.Quantile(1 - alpha/2)
	half := q * inf.StdErrors[j]
	return inf.Coefficients[j] - half, inf.Coefficients[j] + half
}

var _ model.Regressor = (*LinearRegression)(nil)
