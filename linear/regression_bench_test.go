package linear

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
// z は操作変数、x は z と相関する内生変数、y = 1 + x·0.5 + ノイズ
func createBenchmarkData(rows, instruments int) (X, Z, y *mat.Dense) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	Z = mat.NewDense(rows, instruments, nil)
	X = mat.NewDense(rows, 1, nil)
	y = mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		u := rng.NormFloat64()
		x := u
		for j := 0; j < instruments; j++ {
			z := rng.NormFloat64()
			Z.Set(i, j, z)
			x += 0.3 * z
		}
		X.Set(i, 0, x)
		y.Set(i, 0, 1+0.5*x+0.5*u+0.1*rng.NormFloat64())
	}
	return X, Z, y
}

// BenchmarkLinearRegressionFit は並列化閾値の前後で Fit を測定する
func BenchmarkLinearRegressionFit(b *testing.B) {
	sizes := []struct {
		name      string
		rows      int
		cols      int
		threshold int
	}{
		{"Sequential_1000x5", 1000, 5, 1 << 30},
		{"Parallel_1000x5", 1000, 5, 0},
		{"Sequential_20000x10", 20000, 10, 1 << 30},
		{"Parallel_20000x10", 20000, 10, 0},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			_, Z, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				lr := NewLinearRegression(WithParallelThreshold(size.threshold))
				if err := lr.Fit(Z, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkTwoStageLeastSquaresFit は 1 本の内生変数に対する 2SLS を測定する
func BenchmarkTwoStageLeastSquaresFit(b *testing.B) {
	for _, rows := range []int{1000, 10000} {
		X, Z, y := createBenchmarkData(rows, 1)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				iv := NewTwoStageLeastSquares(WithFitIntercept(false))
				if err := iv.Fit(X, Z, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
