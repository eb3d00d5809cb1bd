package simulation

import (
	"math"
	"testing"
)

func fixedResults() *Results {
	return &Results{
		Config: NewConfig(WithTrueBeta(1)),
		Replications: []Replication{
			{Index: 1, OLS: 0.8, IV: 1.2, FirstStageF: 40},
			{Index: 2, OLS: 0.9, IV: math.NaN(), FirstStageF: 0, WeakInstrument: true},
			{Index: 3, OLS: 1.0, IV: 0.8, FirstStageF: 35},
			{Index: 4, OLS: 1.1, IV: 1.0, FirstStageF: 28},
			{Index: 5, OLS: 1.2, IV: 1.1, FirstStageF: 4, WeakInstrument: true},
		},
	}
}

func TestSummarize(t *testing.T) {
	res := fixedResults()
	got := Summarize(res)
	if len(got) != 2 || got[0].Name != EstimatorOLS || got[1].Name != EstimatorIV {
		t.Fatalf("Summarize() names = %v", got)
	}

	ols := got[0]
	checks := []struct {
		name      string
		got, want float64
	}{
		{"ols mean", ols.Mean, 1.0},
		{"ols min", ols.Min, 0.8},
		{"ols q25", ols.Q25, 0.9},
		{"ols median", ols.Median, 1.0},
		{"ols q75", ols.Q75, 1.1},
		{"ols max", ols.Max, 1.2},
		{"ols std", ols.StdDev, math.Sqrt(0.025)},
		{"ols bias", ols.Bias, 0},
		{"ols rmse", ols.RMSE, math.Sqrt(0.02)},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if ols.Count != 5 || ols.Missing != 0 {
		t.Errorf("ols count = %d missing = %d", ols.Count, ols.Missing)
	}

	iv := got[1]
	if iv.Count != 4 || iv.Missing != 1 {
		t.Errorf("iv count = %d missing = %d, want 4 and 1", iv.Count, iv.Missing)
	}
	if math.Abs(iv.Mean-1.025) > 1e-12 {
		t.Errorf("iv mean = %v, want 1.025 with NaN excluded", iv.Mean)
	}
	if iv.Min != 0.8 || iv.Max != 1.2 {
		t.Errorf("iv range = [%v, %v]", iv.Min, iv.Max)
	}
}

func TestSummarizeAllMissing(t *testing.T) {
	res := &Results{
		Config:       DefaultConfig(),
		Replications: []Replication{{Index: 1, OLS: 1, IV: math.NaN()}},
	}
	iv := Summarize(res)[1]
	if iv.Count != 0 || iv.Missing != 1 {
		t.Errorf("count = %d missing = %d", iv.Count, iv.Missing)
	}
	for name, v := range map[string]float64{"mean": iv.Mean, "median": iv.Median, "rmse": iv.RMSE} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
	if ols := Summarize(res)[0]; !math.IsNaN(ols.StdDev) || ols.Mean != 1 {
		t.Errorf("single value: mean = %v std = %v, want 1 and NaN", ols.Mean, ols.StdDev)
	}
}

func TestResultsAccessors(t *testing.T) {
	res := fixedResults()
	if res.Len() != 5 {
		t.Errorf("Len() = %d", res.Len())
	}
	if n := res.WeakInstrumentCount(); n != 2 {
		t.Errorf("WeakInstrumentCount() = %d, want 2", n)
	}
	if n := res.SingularCount(); n != 1 {
		t.Errorf("SingularCount() = %d, want 1", n)
	}
	if f := res.FirstStageFs(); f[3] != 28 {
		t.Errorf("FirstStageFs()[3] = %v", f[3])
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		p, want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("quantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := quantile([]float64{7}, 0.5); got != 7 {
		t.Errorf("single value quantile = %v, want 7", got)
	}
}
