package main

import (
	"fmt"
	"io"
	"os"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"github.com/YuminosukeSato/ivsim/pkg/log"
	"github.com/YuminosukeSato/ivsim/simulation"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ivsim",
		Short: "Monte Carlo comparison of OLS and 2SLS under endogeneity",
		Long: `ivsim draws repeated samples from a linear model in which the regressor x1
is correlated with an omitted confounder x2, and compares the naive OLS
estimate of its coefficient with the two-stage least squares estimate that
uses z as an instrument.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return setupLogging(cmd.ErrOrStderr(), level)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newDemoCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ivsim version %s\n", version)
		},
	}
}

// setupLogging installs the slog JSON logger and routes warnings raised by
// the simulation through zerolog, both on w.
func setupLogging(w io.Writer, level string) error {
	slogLevel, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetupLoggerTo(w, slogLevel)

	zl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	errors.SetZerologWarnFunc(zerologWarnFunc(zerolog.New(w).Level(zl).With().Timestamp().Logger()))
	return nil
}

func zerologWarnFunc(logger zerolog.Logger) func(error) {
	return func(warning error) {
		ev := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	}
}

// addSimulationFlags registers the flags that override configuration values.
func addSimulationFlags(cmd *cobra.Command) {
	defaults := simulation.DefaultConfig()
	cmd.Flags().Uint64("seed", defaults.Seed, "Random seed")
	cmd.Flags().Int("replications", defaults.Replications, "Number of Monte Carlo replications")
	cmd.Flags().Int("observations", defaults.Observations, "Observations per replication")
	cmd.Flags().Float64("beta", defaults.TrueBeta, "True coefficient on x1")
	cmd.Flags().Int("workers", defaults.Workers, "Worker goroutines (0 = number of CPUs)")
	cmd.Flags().Bool("fit-intercept", defaults.FitIntercept, "Include a constant in both estimators")
	cmd.Flags().Float64("weak-f", defaults.WeakInstrumentF, "First-stage F below which an instrument is flagged weak")
}

// loadConfig reads --config when given, then applies every flag the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = simulation.LoadConfig(path); err != nil {
			return simulation.Config{}, err
		}
	}

	flags := cmd.Flags()
	var opts []simulation.Option
	if flags.Changed("seed") {
		v, _ := flags.GetUint64("seed")
		opts = append(opts, simulation.WithSeed(v))
	}
	if flags.Changed("replications") {
		v, _ := flags.GetInt("replications")
		opts = append(opts, simulation.WithReplications(v))
	}
	if flags.Changed("observations") {
		v, _ := flags.GetInt("observations")
		opts = append(opts, simulation.WithObservations(v))
	}
	if flags.Changed("beta") {
		v, _ := flags.GetFloat64("beta")
		opts = append(opts, simulation.WithTrueBeta(v))
	}
	if flags.Changed("workers") {
		v, _ := flags.GetInt("workers")
		opts = append(opts, simulation.WithWorkers(v))
	}
	if flags.Changed("fit-intercept") {
		v, _ := flags.GetBool("fit-intercept")
		opts = append(opts, simulation.WithFitIntercept(v))
	}
	if flags.Changed("weak-f") {
		v, _ := flags.GetFloat64("weak-f")
		opts = append(opts, simulation.WithWeakInstrumentF(v))
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, cfg.Validate()
}
