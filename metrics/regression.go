// Package metrics は回帰の当てはまり指標と、既知の真値に対する推定量の評価指標を提供する
package metrics

import (
	"math"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// checkPair は yTrue と yPred の長さを検証し、残差ベクトル yTrue - yPred を返す
func checkPair(op string, yTrue, yPred *mat.VecDense) ([]float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	resid := make([]float64, n)
	for i := range resid {
		resid[i] = yTrue.AtVec(i) - yPred.AtVec(i)
	}
	return resid, nil
}

// SumSquaredResiduals は残差平方和 Σ(yTrue - yPred)² を計算する
func SumSquaredResiduals(yTrue, yPred *mat.VecDense) (float64, error) {
	resid, err := checkPair("SumSquaredResiduals", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(resid, resid), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	resid, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(resid, resid) / float64(len(resid)), nil
}

// MSEMatrix は n×1 行列形式の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	return MSE(ColumnVector(yTrue), ColumnVector(yPred))
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	resid, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(resid, 1) / float64(len(resid)), nil
}

// R2Score は決定係数（R²）を計算する
// R² = 1 - RSS/TSS。中心化しない場合（切片なしモデル）は CenteredR2Score(false) を使う
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return CenteredR2Score(yTrue, yPred, true)
}

// CenteredR2Score は centered=false のとき TSS を Σy² として計算する
// （切片なし回帰で statsmodels が報告する非中心化 R²）
func CenteredR2Score(yTrue, yPred *mat.VecDense, centered bool) (float64, error) {
	resid, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	if centered {
		yMean = mat.Sum(yTrue) / float64(yTrue.Len())
	}

	var tss float64
	for i := 0; i < yTrue.Len(); i++ {
		d := yTrue.AtVec(i) - yMean
		tss += d * d
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - floats.Dot(resid, resid)/tss, nil
}

// ColumnVector は n×1 行列の第1列を VecDense にコピーする
func ColumnVector(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
