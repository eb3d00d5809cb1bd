package dgp

import (
	"gonum.org/v1/gonum/mat"
)

// Observation is one row of a simulated dataset.
type Observation struct {
	Y  float64 `dataframe:"y"`
	X1 float64 `dataframe:"x1"`
	X2 float64 `dataframe:"x2"`
	Z  float64 `dataframe:"z"`
	E  float64 `dataframe:"e"`
}

// Column selects a field of Observation.
type Column int

const (
	ColumnY Column = iota
	ColumnX1
	ColumnX2
	ColumnZ
	ColumnE
)

func (c Column) String() string {
	switch c {
	case ColumnY:
		return "y"
	case ColumnX1:
		return "x1"
	case ColumnX2:
		return "x2"
	case ColumnZ:
		return "z"
	case ColumnE:
		return "e"
	default:
		return "unknown"
	}
}

func (c Column) value(o Observation) float64 {
	switch c {
	case ColumnY:
		return o.Y
	case ColumnX1:
		return o.X1
	case ColumnX2:
		return o.X2
	case ColumnZ:
		return o.Z
	case ColumnE:
		return o.E
	default:
		panic("dgp: unknown column")
	}
}

// Dataset is an ordered set of observations from one replication.
type Dataset struct {
	Observations []Observation
}

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.Observations) }

// Values copies one column into a slice.
func (d *Dataset) Values(c Column) []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = c.value(o)
	}
	return out
}

// Matrix returns an n×len(cols) matrix with the given columns in order.
func (d *Dataset) Matrix(cols ...Column) *mat.Dense {
	if len(d.Observations) == 0 || len(cols) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(d.Observations), len(cols), nil)
	for i, o := range d.Observations {
		for j, c := range cols {
			m.Set(i, j, c.value(o))
		}
	}
	return m
}

// Vector returns one column as an n×1 matrix.
func (d *Dataset) Vector(c Column) *mat.Dense {
	return d.Matrix(c)
}
