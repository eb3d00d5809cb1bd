package model

import (
	"testing"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
)

func TestBaseEstimatorLifecycle(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Fatal("zero BaseEstimator reports fitted")
	}
	err := e.RequireFitted("LinearRegression", "Predict")
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Fatalf("RequireFitted() error = %v, want *NotFittedError", err)
	}
	if nf.Method != "Predict" {
		t.Errorf("NotFittedError.Method = %q, want Predict", nf.Method)
	}

	e.SetDimensions(2, 100)
	e.SetFitted()
	if !e.IsFitted() {
		t.Error("IsFitted() = false after SetFitted")
	}
	if err := e.RequireFitted("LinearRegression", "Predict"); err != nil {
		t.Errorf("RequireFitted() error = %v after SetFitted", err)
	}
	if f, n := e.Dimensions(); f != 2 || n != 100 {
		t.Errorf("Dimensions() = (%d, %d), want (2, 100)", f, n)
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("IsFitted() = true after Reset")
	}
	if f, n := e.Dimensions(); f != 0 || n != 0 {
		t.Errorf("Dimensions() = (%d, %d) after Reset, want zeros", f, n)
	}
}
