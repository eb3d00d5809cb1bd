package simulation

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/ivsim/dgp"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	want := Config{
		TrueBeta:        0.95,
		Observations:    1000,
		Replications:    1000,
		Seed:            42,
		Correlations:    dgp.Correlations{X1X2: -0.1, X1Z: 0.25},
		Workers:         1,
		WeakInstrumentF: 10,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNewConfigOptions(t *testing.T) {
	corr := dgp.Correlations{X1Z: 0.5}
	cfg := NewConfig(
		WithSeed(7),
		WithReplications(10),
		WithObservations(20),
		WithTrueBeta(1.5),
		WithCorrelations(corr),
		WithFitIntercept(true),
		WithWorkers(4),
		WithWeakInstrumentF(5),
	)
	want := Config{
		TrueBeta:        1.5,
		Observations:    20,
		Replications:    10,
		Seed:            7,
		Correlations:    corr,
		FitIntercept:    true,
		Workers:         4,
		WeakInstrumentF: 5,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("NewConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		param string
	}{
		{"no replications", WithReplications(0), "replications"},
		{"no observations", WithObservations(0), "observations"},
		{"negative workers", WithWorkers(-1), "workers"},
		{"zero threshold", WithWeakInstrumentF(0), "weak_instrument_f"},
		{"infinite beta", WithTrueBeta(math.Inf(1)), "true_beta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opt).Validate()
			var verr *errors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.ParamName != tt.param {
				t.Errorf("ParamName = %q, want %q", verr.ParamName, tt.param)
			}
		})
	}

	if err := NewConfig(WithObservations(0)).Validate(); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("zero observations: error = %v, want ErrEmptyData", err)
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := NewConfig(
		WithSeed(123),
		WithCorrelations(dgp.Correlations{X1X2: -0.2, X1Z: 0.3, X2E: 0.1}),
		WithFitIntercept(true),
	)

	var buf bytes.Buffer
	if err := cfg.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	if !strings.Contains(buf.String(), "x1_z: 0.3") {
		t.Errorf("YAML output missing correlation key:\n%s", buf.String())
	}

	got, err := ParseConfig(&buf)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfig(t *testing.T) {
	t.Run("partial document keeps defaults", func(t *testing.T) {
		cfg, err := ParseConfig(strings.NewReader("replications: 25\ncorrelations:\n  x1_z: 0\n"))
		if err != nil {
			t.Fatalf("ParseConfig() error = %v", err)
		}
		want := NewConfig(WithReplications(25), WithCorrelations(dgp.Correlations{X1X2: -0.1}))
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := ParseConfig(strings.NewReader(""))
		if err != nil {
			t.Fatalf("ParseConfig() error = %v", err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		if _, err := ParseConfig(strings.NewReader("replicatons: 5\n")); err == nil {
			t.Error("ParseConfig() with a misspelled key succeeded")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("seed: 9\nobservations: 300\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Seed != 9 || cfg.Observations != 300 {
		t.Errorf("LoadConfig() = seed %d, observations %d", cfg.Seed, cfg.Observations)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file succeeded")
	}
}
