package simulation

import (
	"math"
)

// Replication is the outcome of one Monte Carlo trial.
type Replication struct {
	Index          int     `dataframe:"iter"` // 1-based, in iteration order
	OLS            float64 `dataframe:"ols"`
	IV             float64 `dataframe:"iv"`
	FirstStageF    float64 `dataframe:"first_stage_f"`
	WeakInstrument bool    `dataframe:"weak_instrument"`
}

// Results is the full, ordered output of Run. It is not modified after Run
// returns.
type Results struct {
	Config       Config
	Replications []Replication
}

// Len returns the number of replications.
func (r *Results) Len() int { return len(r.Replications) }

// OLSCoefficients returns the naive estimates in replication order.
func (r *Results) OLSCoefficients() []float64 {
	out := make([]float64, len(r.Replications))
	for i, rep := range r.Replications {
		out[i] = rep.OLS
	}
	return out
}

// IVCoefficients returns the instrumented estimates in replication order.
// Replications with a singular second stage contribute NaN.
func (r *Results) IVCoefficients() []float64 {
	out := make([]float64, len(r.Replications))
	for i, rep := range r.Replications {
		out[i] = rep.IV
	}
	return out
}

// FirstStageFs returns the first-stage F statistics in replication order.
func (r *Results) FirstStageFs() []float64 {
	out := make([]float64, len(r.Replications))
	for i, rep := range r.Replications {
		out[i] = rep.FirstStageF
	}
	return out
}

// WeakInstrumentCount returns how many replications were flagged.
func (r *Results) WeakInstrumentCount() int {
	n := 0
	for _, rep := range r.Replications {
		if rep.WeakInstrument {
			n++
		}
	}
	return n
}

// SingularCount returns how many replications have no IV estimate.
func (r *Results) SingularCount() int {
	n := 0
	for _, rep := range r.Replications {
		if math.IsNaN(rep.IV) {
			n++
		}
	}
	return n
}
