// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 致命的な設定エラーと、レプリケーション単位で報告される警告（弱操作変数など）を区別します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("ivsim-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します。nil を渡すと解除されます。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
// 並列ワーカーから同時に呼ばれても安全です。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// WeakInstrumentWarning は第1段階回帰で操作変数の説明力が弱い場合に発生する警告です。
// 2SLS推定値は計算されますが、信頼できない可能性があります。
type WeakInstrumentWarning struct {
	Replication int     // 1始まりのレプリケーション番号（単発の推定では0）
	FStatistic  float64 // 第1段階の除外操作変数に対するF統計量
	Threshold   float64 // 判定に使った閾値
	Singular    bool    // 第2段階が数値的に特異だった場合true（係数はNaN）
}

func (w *WeakInstrumentWarning) Error() string {
	msg := fmt.Sprintf("weak instrument: first-stage F=%.4g is below threshold %.4g", w.FStatistic, w.Threshold)
	if w.Replication > 0 {
		msg = fmt.Sprintf("replication %d: %s", w.Replication, msg)
	}
	if w.Singular {
		msg += "; second stage is singular, IV coefficient set to NaN"
	}
	return msg
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *WeakInstrumentWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("replication", w.Replication).
		Float64("first_stage_f", w.FStatistic).
		Float64("threshold", w.Threshold).
		Bool("singular", w.Singular).
		Str("type", "WeakInstrumentWarning")
}

// NewWeakInstrumentWarning は新しいWeakInstrumentWarningを作成します。
func NewWeakInstrumentWarning(replication int, fStat, threshold float64, singular bool) *WeakInstrumentWarning {
	return &WeakInstrumentWarning{
		Replication: replication,
		FStatistic:  fStat,
		Threshold:   threshold,
		Singular:    singular,
	}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// CovarianceError は共分散行列が不正な場合のエラーです。
// データ生成が定義できないため、シミュレーション全体を中断すべき設定エラーを示します。
type CovarianceError struct {
	Reason        string
	Row, Col      int     // 問題のある要素（該当しない場合は-1）
	MinEigenvalue float64 // 半正定値性チェックで得られた最小固有値
}

func (e *CovarianceError) Error() string {
	if e.Row >= 0 && e.Col >= 0 {
		return fmt.Sprintf("ivsim: invalid covariance matrix at (%d,%d): %s", e.Row, e.Col, e.Reason)
	}
	return fmt.Sprintf("ivsim: invalid covariance matrix: %s", e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *CovarianceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("reason", e.Reason).
		Int("row", e.Row).
		Int("col", e.Col).
		Float64("min_eigenvalue", e.MinEigenvalue).
		Str("type", "CovarianceError")
}

// NewCovarianceError は要素位置付きのCovarianceErrorを作成し、スタックトレースを付与します。
func NewCovarianceError(reason string, row, col int) error {
	return errors.WithStack(&CovarianceError{Reason: reason, Row: row, Col: col})
}

// NewNotPSDError は半正定値でない共分散行列のエラーを作成します。
func NewNotPSDError(minEigenvalue float64) error {
	err := &CovarianceError{
		Reason:        fmt.Sprintf("matrix is not positive semi-definite (min eigenvalue %.6g)", minEigenvalue),
		Row:           -1,
		Col:           -1,
		MinEigenvalue: minEigenvalue,
	}
	return errors.WithStack(err)
}

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("ivsim: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("ivsim: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は設定値や入力パラメータの検証に失敗した場合のエラーです。
// Err に共通エラー変数を入れておくと errors.Is で判定できます。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ivsim: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// NewValidationErrorWithCause は原因エラー付きのValidationErrorを作成します。
func NewValidationErrorWithCause(param, reason string, value interface{}, cause error) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value, Err: cause})
}

// ValueError は引数の値が不適切な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("ivsim: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は推定器に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ivsim: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("ivsim: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです（NaN, Inf）。
type NumericalInstabilityError struct {
	Operation   string    // 発生した操作（例: "ols.coefficients"）
	Values      []float64 // 問題のある値
	Replication int       // 発生したレプリケーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("ivsim: numerical instability detected in %s at replication %d. Values: [%s]",
		e.Operation, e.Replication, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, replication int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation:   operation,
		Values:      values,
		Replication: replication,
	})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は観測数0などデータが空の場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異（または条件数が極端に大きい）行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrInsufficientSamples は観測数が推定するパラメータ数以下の場合のエラーです。
	ErrInsufficientSamples = New("insufficient samples")

	// ErrUnderIdentified は操作変数の数が内生変数より少ない場合のエラーです。
	ErrUnderIdentified = New("under-identified: fewer instruments than endogenous regressors")
)
