package linear

import (
	"math"

	"github.com/YuminosukeSato/ivsim/core/parallel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// designMatrix は X の前に定数列を付けた行列を作る（fitIntercept=false なら X のコピー）
func designMatrix(X mat.Matrix, fitIntercept bool, threshold int) *mat.Dense {
	r, c := X.Dims()
	offset := 0
	if fitIntercept {
		offset = 1
	}
	D := mat.NewDense(r, c+offset, nil)

	// 行数が閾値を超える場合のみ並列化
	parallel.ParallelizeWithThreshold(r, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			if fitIntercept {
				D.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				D.Set(i, j+offset, X.At(i, j))
			}
		}
	})
	return D
}

// solveQR は最小二乗問題 min ||D b - y|| を QR 分解で解く
// 特異（条件数が mat.ConditionTolerance を超える）なら ok=false
func solveQR(D *mat.Dense, y mat.Matrix) (coef []float64, ok bool) {
	var qr mat.QR
	qr.Factorize(D)

	var b mat.Dense
	if err := qr.SolveTo(&b, false, y); err != nil {
		return nil, false
	}
	_, p := D.Dims()
	coef = make([]float64, p)
	for j := range coef {
		coef[j] = b.At(j, 0)
	}
	return coef, true
}

// gramInverse は (D'D)^-1 を返す。正定値でなければ ok=false
func gramInverse(D *mat.Dense) (*mat.SymDense, bool) {
	var gram mat.SymDense
	gram.SymOuterK(1, D.T())

	var chol mat.Cholesky
	if !chol.Factorize(&gram) {
		return nil, false
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, false
	}
	return &inv, true
}

// column は m の第 j 列をコピーして返す
func column(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	col := make([]float64, r)
	for i := range col {
		col[i] = m.At(i, j)
	}
	return col
}

// spread は v の（centered なら平均まわりの）L2 ノルムを返す
func spread(v []float64, centered bool) float64 {
	if !centered {
		return floats.Norm(v, 2)
	}
	mean := floats.Sum(v) / float64(len(v))
	var ss float64
	for _, x := range v {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss)
}
