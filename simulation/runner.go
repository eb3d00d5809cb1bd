// Package simulation runs the Monte Carlo comparison of the naive OLS and
// the instrumented 2SLS estimators of the coefficient on x1.
//
//	cfg := simulation.NewConfig(simulation.WithReplications(500))
//	res, err := simulation.Run(cfg)
//	if err != nil {
//	    return err
//	}
//	for _, s := range simulation.Summarize(res) {
//	    fmt.Println(s.Name, s.Mean, s.StdDev)
//	}
package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/YuminosukeSato/ivsim/core/parallel"
	"github.com/YuminosukeSato/ivsim/dgp"
	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"github.com/YuminosukeSato/ivsim/pkg/log"
)

// RunOption configures a call to Run.
type RunOption func(*runOptions)

type runOptions struct {
	logger   log.Logger
	progress func(done, total int)
}

// WithLogger routes Run's structured logs to logger.
func WithLogger(logger log.Logger) RunOption {
	return func(o *runOptions) { o.logger = logger }
}

// WithProgress registers fn to be called after every finished replication.
// Calls are serialized and done increases by one each time.
func WithProgress(fn func(done, total int)) RunOption {
	return func(o *runOptions) { o.progress = fn }
}

// ReplicationSource returns the random stream of replication index (1-based).
// Each replication owns an independent PCG stream, so results do not depend
// on the number of workers.
func ReplicationSource(seed uint64, index int) rand.Source {
	return rand.NewPCG(seed, uint64(index))
}

// Run validates cfg, builds the data generator once and runs
// cfg.Replications independent replications. On any error other than a
// weak instrument it returns nil results.
func Run(cfg Config, opts ...RunOption) (*Results, error) {
	o := runOptions{logger: log.GetLoggerWithName("simulation")}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With(log.RandomSeedKey, cfg.Seed)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.ErrAttrKey, err)
		return nil, err
	}

	gen, err := dgp.NewGenerator(cfg.TrueBeta, cfg.Correlations)
	if err != nil {
		logger.Error("Invalid covariance matrix",
			log.ErrAttrKey, err,
			log.ErrorCodeKey, log.ErrorInvalidCovariance,
			log.SuggestionKey, "check that the correlations describe a positive semi-definite matrix",
		)
		return nil, err
	}

	logger.Info("Simulation started",
		log.OperationKey, log.OperationRun,
		log.ReplicationsKey, cfg.Replications,
		log.SamplesKey, cfg.Observations,
		log.WorkersKey, cfg.Workers,
		log.TrueBetaKey, cfg.TrueBeta,
	)
	start := time.Now()

	pair := NewEstimatorPair(cfg)
	reps := make([]Replication, cfg.Replications)

	var (
		progressMu sync.Mutex
		done       int
	)

	err = parallel.ForEach(cfg.Replications, cfg.Workers, func(i int) error {
		index := i + 1
		return errors.SafeExecute(fmt.Sprintf("replication %d", index), func() error {
			rep, err := runReplication(gen, pair, cfg, index)
			if err != nil {
				return err
			}
			// Each worker writes only its own slot.
			reps[i] = rep

			if rep.WeakInstrument {
				errors.Warn(errors.NewWeakInstrumentWarning(index, rep.FirstStageF, cfg.WeakInstrumentF, math.IsNaN(rep.IV)))
			}
			logger.Debug("Replication finished",
				log.ReplicationKey, index,
				log.FirstStageFKey, rep.FirstStageF,
				"ols", rep.OLS,
				"iv", rep.IV,
			)

			if o.progress != nil {
				progressMu.Lock()
				done++
				o.progress(done, cfg.Replications)
				progressMu.Unlock()
			}
			return nil
		})
	})
	if err != nil {
		logger.Error("Simulation failed", log.ErrAttrKey, err)
		return nil, err
	}

	res := &Results{Config: cfg, Replications: reps}

	if weak := res.WeakInstrumentCount(); weak > 0 {
		logger.Warn("Weak instruments detected",
			log.WeakInstrumentsKey, weak,
			log.ReplicationsKey, cfg.Replications,
			log.ErrorCodeKey, log.ErrorWeakInstrument,
			log.SuggestionKey, "increase corr(x1, z) or the number of observations",
		)
	}
	logger.Info("Simulation finished",
		log.OperationKey, log.OperationRun,
		log.ReplicationsKey, cfg.Replications,
		log.WeakInstrumentsKey, res.WeakInstrumentCount(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// runReplication generates one dataset from its own stream and estimates
// both coefficients.
func runReplication(gen *dgp.Generator, pair EstimatorPair, cfg Config, index int) (Replication, error) {
	ds, err := gen.Generate(cfg.Observations, ReplicationSource(cfg.Seed, index))
	if err != nil {
		return Replication{}, errors.Wrapf(err, "replication %d: generate", index)
	}

	est, err := pair.Estimate(ds)
	if err != nil {
		return Replication{}, errors.Wrapf(err, "replication %d: estimate", index)
	}
	if err := errors.CheckScalar("ols.coefficient", est.OLS, index); err != nil {
		return Replication{}, err
	}

	return Replication{
		Index:          index,
		OLS:            est.OLS,
		IV:             est.IV,
		FirstStageF:    est.FirstStageF,
		WeakInstrument: est.WeakInstrument,
	}, nil
}
