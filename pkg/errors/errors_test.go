package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "TwoStageLeastSquares.Fit",
			kind:     "second stage",
			err:      ErrSingularMatrix,
			wantMsg:  "ivsim: TwoStageLeastSquares.Fit: second stage: singular matrix",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "ivsim: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}

			if tt.err != nil && !Is(err, tt.err) {
				t.Errorf("Is(err, %v) = false, want true", tt.err)
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("LinearRegression.Fit", 10, 9, 0)

	want := "ivsim: LinearRegression.Fit: dimension mismatch on axis 0 (rows). Expected 10, got 9"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 9 {
		t.Errorf("DimensionError fields = %+v", dimErr)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "Predict")

	want := "ivsim: LinearRegression: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestCovarianceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "element error",
			err:     NewCovarianceError("diagonal must be 1", 2, 2),
			wantMsg: "ivsim: invalid covariance matrix at (2,2): diagonal must be 1",
		},
		{
			name:    "not positive semi-definite",
			err:     NewNotPSDError(-0.25),
			wantMsg: "ivsim: invalid covariance matrix: matrix is not positive semi-definite (min eigenvalue -0.25)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMsg)
			}
			var covErr *CovarianceError
			if !As(tt.err, &covErr) {
				t.Error("Error should be castable to *CovarianceError")
			}
		})
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	err := NewValidationErrorWithCause("observations", "must be positive", 0, ErrEmptyData)

	if !Is(err, ErrEmptyData) {
		t.Error("Expected Is(err, ErrEmptyData) to be true")
	}

	want := "ivsim: validation failed for parameter 'observations': must be positive (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	plain := NewValidationError("workers", "must not be negative", -1)
	if Is(plain, ErrEmptyData) {
		t.Error("ValidationError without cause should not match ErrEmptyData")
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("GaussianKDE", "no finite samples")

	if err.Error() != "ivsim: GaussianKDE: no finite samples" {
		t.Errorf("Error() = %v", err.Error())
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestWeakInstrumentWarning(t *testing.T) {
	tests := []struct {
		name    string
		warn    *WeakInstrumentWarning
		wantMsg string
	}{
		{
			name:    "single estimate",
			warn:    NewWeakInstrumentWarning(0, 1.5, 10, false),
			wantMsg: "weak instrument: first-stage F=1.5 is below threshold 10",
		},
		{
			name:    "replication",
			warn:    NewWeakInstrumentWarning(7, 0.25, 10, false),
			wantMsg: "replication 7: weak instrument: first-stage F=0.25 is below threshold 10",
		},
		{
			name:    "singular second stage",
			warn:    NewWeakInstrumentWarning(3, 0, 10, true),
			wantMsg: "replication 3: weak instrument: first-stage F=0 is below threshold 10; second stage is singular, IV coefficient set to NaN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.warn.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.warn.Error(), tt.wantMsg)
			}
		})
	}
}

func TestWeakInstrumentWarningZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Warn().EmbedObject(NewWeakInstrumentWarning(4, 2.5, 10, false)).Msg("weak instrument")

	out := buf.String()
	for _, want := range []string{`"replication":4`, `"first_stage_f":2.5`, `"type":"WeakInstrumentWarning"`} {
		if !strings.Contains(out, want) {
			t.Errorf("zerolog output %s does not contain %s", out, want)
		}
	}
}

func TestWarnRouting(t *testing.T) {
	var handled, viaZerolog []error

	SetWarningHandler(func(w error) { handled = append(handled, w) })
	defer SetWarningHandler(nil)

	Warn(NewWeakInstrumentWarning(1, 3, 10, false))
	if len(handled) != 1 {
		t.Fatalf("fallback handler received %d warnings, want 1", len(handled))
	}

	SetZerologWarnFunc(func(w error) { viaZerolog = append(viaZerolog, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewWeakInstrumentWarning(2, 3, 10, false))
	if len(viaZerolog) != 1 {
		t.Errorf("zerolog func received %d warnings, want 1", len(viaZerolog))
	}
	if len(handled) != 1 {
		t.Errorf("fallback handler should not be used while zerolog func is set")
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrSingularMatrix, "in TwoStageLeastSquares.Fit")

	if !Is(wrapped, ErrSingularMatrix) {
		t.Error("Expected Is(wrapped, ErrSingularMatrix) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in TwoStageLeastSquares.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "replication %d: expected %d rows, got %d", 3, 10, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "replication 3: expected 10 rows, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("ols", []float64{0.9, 1.1}, 1); err != nil {
		t.Errorf("unexpected error for finite values: %v", err)
	}

	err := CheckNumericalStability("ols", []float64{0.9, math.NaN()}, 5)
	var instErr *NumericalInstabilityError
	if !As(err, &instErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if instErr.Replication != 5 {
		t.Errorf("Replication = %d, want 5", instErr.Replication)
	}

	if err := CheckScalar("iv", math.Inf(1), 2); err == nil {
		t.Error("expected error for +Inf")
	}
}

func TestCheckMatrix(t *testing.T) {
	m := [][]float64{{1, 2}, {math.NaN(), 4}}
	at := atFunc(func(i, j int) float64 { return m[i][j] })
	err := CheckMatrix("X", at, 2, 2, 0)
	var instErr *NumericalInstabilityError
	if !As(err, &instErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if len(instErr.Values) != 1 || !math.IsNaN(instErr.Values[0]) {
		t.Errorf("Values = %v", instErr.Values)
	}

	m[1][0] = 3
	if err := CheckMatrix("X", at, 2, 2, 0); err != nil {
		t.Errorf("unexpected error for finite matrix: %v", err)
	}
}

type atFunc func(i, j int) float64

func (f atFunc) At(i, j int) float64 { return f(i, j) }

func TestFiniteValues(t *testing.T) {
	finite, dropped := FiniteValues([]float64{1, math.NaN(), 2, math.Inf(-1), 3})
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(finite) != 3 || finite[0] != 1 || finite[2] != 3 {
		t.Errorf("finite = %v", finite)
	}
}
