package metrics

import (
	"math"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// 以下は Monte Carlo で得た推定値の標本を、既知の真値 truth と比較する指標。
// NaN/Inf は呼び出し側で除外しておくこと（errors.FiniteValues）。

// Bias は推定値の平均と真値の差 E[θ̂] - θ を返す
func Bias(estimates []float64, truth float64) (float64, error) {
	if len(estimates) == 0 {
		return 0, errors.NewValueError("Bias", "no estimates")
	}
	return stat.Mean(estimates, nil) - truth, nil
}

// Variance は推定値の不偏分散を返す。標本が1つなら0
func Variance(estimates []float64) (float64, error) {
	if len(estimates) == 0 {
		return 0, errors.NewValueError("Variance", "no estimates")
	}
	if len(estimates) == 1 {
		return 0, nil
	}
	return stat.Variance(estimates, nil), nil
}

// EstimatorRMSE は真値まわりの平方根平均二乗誤差 sqrt(E[(θ̂-θ)²]) を返す
func EstimatorRMSE(estimates []float64, truth float64) (float64, error) {
	if len(estimates) == 0 {
		return 0, errors.NewValueError("EstimatorRMSE", "no estimates")
	}
	var sum float64
	for _, v := range estimates {
		d := v - truth
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(estimates))), nil
}

// EstimatorReport は推定量1つ分の評価指標
type EstimatorReport struct {
	Bias     float64
	Variance float64
	RMSE     float64
}

// Evaluate は Bias, Variance, RMSE をまとめて計算する
func Evaluate(estimates []float64, truth float64) (EstimatorReport, error) {
	bias, err := Bias(estimates, truth)
	if err != nil {
		return EstimatorReport{}, err
	}
	variance, _ := Variance(estimates)
	rmse, _ := EstimatorRMSE(estimates, truth)
	return EstimatorReport{Bias: bias, Variance: variance, RMSE: rmse}, nil
}
