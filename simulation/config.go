package simulation

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/YuminosukeSato/ivsim/dgp"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultWeakInstrumentF is the Staiger–Stock rule-of-thumb threshold for
// the first-stage F statistic.
const DefaultWeakInstrumentF = 10.0

// Config holds every parameter of a simulation run. The zero value is not
// usable; start from DefaultConfig or NewConfig.
type Config struct {
	// TrueBeta is the structural coefficient on x1.
	TrueBeta float64 `yaml:"true_beta"`

	// Observations is the number of rows drawn per replication.
	Observations int `yaml:"observations"`

	// Replications is the number of Monte Carlo trials.
	Replications int `yaml:"replications"`

	// Seed fixes the random stream of every replication.
	Seed uint64 `yaml:"seed"`

	Correlations dgp.Correlations `yaml:"correlations"`

	// FitIntercept adds a constant to both estimators. The naive and
	// instrumented fits omit it by default.
	FitIntercept bool `yaml:"fit_intercept"`

	// Workers is the number of goroutines running replications.
	// 0 means runtime.NumCPU().
	Workers int `yaml:"workers"`

	// WeakInstrumentF flags replications whose first-stage F is below it.
	WeakInstrumentF float64 `yaml:"weak_instrument_f"`
}

// DefaultConfig returns the classroom scenario: β = 0.95, 1000 observations,
// 1000 replications, corr(x1,x2) = -0.1 and corr(x1,z) = 0.25.
func DefaultConfig() Config {
	return Config{
		TrueBeta:     0.95,
		Observations: 1000,
		Replications: 1000,
		Seed:         42,
		Correlations: dgp.Correlations{
			X1X2: -0.1,
			X1Z:  0.25,
		},
		FitIntercept:    false,
		Workers:         1,
		WeakInstrumentF: DefaultWeakInstrumentF,
	}
}

// Option configures a Config.
type Option func(*Config)

// NewConfig applies opts on top of DefaultConfig.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithReplications sets the number of replications.
func WithReplications(r int) Option {
	return func(c *Config) { c.Replications = r }
}

// WithObservations sets the number of observations per replication.
func WithObservations(n int) Option {
	return func(c *Config) { c.Observations = n }
}

// WithTrueBeta sets the structural coefficient.
func WithTrueBeta(beta float64) Option {
	return func(c *Config) { c.TrueBeta = beta }
}

// WithCorrelations replaces all six correlations.
func WithCorrelations(corr dgp.Correlations) Option {
	return func(c *Config) { c.Correlations = corr }
}

// WithFitIntercept toggles the constant term in both estimators.
func WithFitIntercept(fit bool) Option {
	return func(c *Config) { c.FitIntercept = fit }
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithWeakInstrumentF sets the first-stage F threshold.
func WithWeakInstrumentF(f float64) Option {
	return func(c *Config) { c.WeakInstrumentF = f }
}

// Validate checks the scalar parameters. The covariance matrix is checked
// separately when the generator is built.
func (c Config) Validate() error {
	if c.Replications < 1 {
		return errors.NewValidationError("replications", "must be at least 1", c.Replications)
	}
	if c.Observations < 1 {
		return errors.NewValidationErrorWithCause("observations", "must be at least 1", c.Observations, errors.ErrEmptyData)
	}
	if c.Workers < 0 {
		return errors.NewValidationError("workers", "must be non-negative", c.Workers)
	}
	if !(c.WeakInstrumentF > 0) || math.IsInf(c.WeakInstrumentF, 0) {
		return errors.NewValidationError("weak_instrument_f", "must be a positive finite number", c.WeakInstrumentF)
	}
	if math.IsNaN(c.TrueBeta) || math.IsInf(c.TrueBeta, 0) {
		return errors.NewValidationError("true_beta", "must be finite", c.TrueBeta)
	}
	return nil
}

// ParseConfig decodes YAML from r over DefaultConfig; keys absent from the
// document keep their default values. Unknown keys are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config file")
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// WriteYAML encodes the configuration as YAML.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return enc.Close()
}
