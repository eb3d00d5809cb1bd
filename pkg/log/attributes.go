// Package log defines standard attribute keys for simulation runs.
//
// Using the same keys everywhere lets a run's JSON log be filtered by
// replication, estimator, or configuration without parsing messages.
// Keys follow a hierarchical naming convention ("sim.replication",
// "data.samples").

package log

// Simulation context
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "simulation", "linear", "dgp"
	ComponentKey = "sim.component"

	// OperationKey specifies the operation being performed.
	// Standard values are the Operation* constants below.
	OperationKey = "sim.operation"

	// ReplicationKey is the 1-based index of the current replication.
	ReplicationKey = "sim.replication"

	// ReplicationsKey is the total number of replications in the run.
	ReplicationsKey = "sim.replications"

	// WorkersKey is the number of workers used to run replications.
	WorkersKey = "sim.workers"

	// EstimatorKey names an estimator ("ols", "iv").
	EstimatorKey = "sim.estimator"
)

// Data shape
const (
	// SamplesKey indicates the number of observations per simulated dataset.
	SamplesKey = "data.samples"

	// RegressorsKey indicates the number of regressors in a fit.
	RegressorsKey = "data.regressors"

	// InstrumentsKey indicates the number of excluded instruments in a fit.
	InstrumentsKey = "data.instruments"
)

// Model parameters and results
const (
	// TrueBetaKey records the structural coefficient of the DGP.
	TrueBetaKey = "model.true_beta"

	// CoefficientKey records an estimated treatment coefficient.
	CoefficientKey = "model.coefficient"

	// FirstStageFKey records the first-stage F statistic of an IV fit.
	FirstStageFKey = "model.first_stage_f"

	// WeakInstrumentsKey counts replications flagged as weak-instrument.
	WeakInstrumentsKey = "model.weak_instruments"

	// MeanKey and StdDevKey summarize an estimator's sampling distribution.
	MeanKey   = "stats.mean"
	StdDevKey = "stats.stddev"
)

// Configuration and performance
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigPathKey records the configuration file a run was loaded from.
	ConfigPathKey = "config.path"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationGenerate = "generate"
	OperationEstimate = "estimate"
	OperationRun      = "run"
	OperationSummary  = "summary"

	ErrorInvalidCovariance = "INVALID_COVARIANCE"
	ErrorWeakInstrument    = "WEAK_INSTRUMENT"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorEmptyData         = "EMPTY_DATA"
)
