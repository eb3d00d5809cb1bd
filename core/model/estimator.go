package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	// GetWeights は学習された重み（係数）を返す
	GetWeights() []float64
	// GetIntercept は学習された切片を返す
	GetIntercept() float64
	// Score はモデルの決定係数（R²）を計算する
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor は回帰モデルが満たすインターフェース
type Regressor interface {
	Fitter
	Predictor
	LinearModel
}

// InstrumentalFitter は操作変数を使って学習するモデルのインターフェース
// X は内生変数、Z は除外操作変数
type InstrumentalFitter interface {
	Fit(X, Z, y mat.Matrix) error
	GetWeights() []float64
}
