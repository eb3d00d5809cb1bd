package model

import (
	"github.com/YuminosukeSato/ivsim/pkg/errors"
)

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は全ての推定器の基底となる構造体
// 学習状態と、学習時に見たデータの形状を保持する
type BaseEstimator struct {
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.nFeatures = 0
	e.nSamples = 0
}

// SetDimensions は学習時の特徴量数とサンプル数を記録する
func (e *BaseEstimator) SetDimensions(nFeatures, nSamples int) {
	e.nFeatures = nFeatures
	e.nSamples = nSamples
}

// Dimensions は学習時の特徴量数とサンプル数を返す
func (e *BaseEstimator) Dimensions() (nFeatures, nSamples int) {
	return e.nFeatures, e.nSamples
}

// RequireFitted は未学習の場合に NotFittedError を返す
func (e *BaseEstimator) RequireFitted(modelName, method string) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
