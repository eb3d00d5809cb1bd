package errors

import (
	"math"
)

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64, replication int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, replication)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64, replication int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, replication)
	}
	return nil
}

// CheckMatrix checks all values in a matrix for numerical instability.
// At most 10 offending values are collected for the error message.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols, replication int) error {
	var unstableValues []float64

	for i := 0; i < rows && len(unstableValues) < 10; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstableValues = append(unstableValues, v)
				if len(unstableValues) >= 10 {
					break
				}
			}
		}
	}

	if len(unstableValues) > 0 {
		return NewNumericalInstabilityError(operation, unstableValues, replication)
	}
	return nil
}

// FiniteValues returns the values that are neither NaN nor Inf, together
// with the number of values that were dropped.
func FiniteValues(values []float64) (finite []float64, dropped int) {
	finite = make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			dropped++
			continue
		}
		finite = append(finite, v)
	}
	return finite, dropped
}
