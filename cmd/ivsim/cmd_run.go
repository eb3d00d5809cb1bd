package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"github.com/YuminosukeSato/ivsim/simulation"
	"github.com/YuminosukeSato/ivsim/viz"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	pb "gopkg.in/cheggaaa/pb.v1"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Monte Carlo simulation",
		Long: `Run draws the configured number of datasets, fits the naive OLS and the
instrumented 2SLS estimator on each, and prints the sampling distribution
of both coefficients.

Examples:
  ivsim run                                    # Classroom scenario (seed 42)
  ivsim run --replications 200 --workers 0     # Fewer replications, all CPUs
  ivsim run --out results.csv --plot kde.png   # Save the table and a density plot
  ivsim run --config weak.yaml --ascii         # Terminal density preview`,
		RunE: runSimulation,
	}

	addSimulationFlags(cmd)
	cmd.Flags().String("out", "", "Write per-replication results as CSV to this file")
	cmd.Flags().String("plot", "", "Save a density plot (format from extension: png, svg, pdf)")
	cmd.Flags().Bool("ascii", false, "Print ASCII density charts")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var opts []simulation.RunOption
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		bar := pb.New(cfg.Replications)
		bar.Output = cmd.ErrOrStderr()
		bar.ShowSpeed = true
		bar.Start()
		defer bar.Finish()
		opts = append(opts, simulation.WithProgress(func(done, total int) {
			bar.Set(done)
		}))
	}

	res, err := simulation.Run(cfg, opts...)
	if err != nil {
		return err
	}

	writeSummaryTable(out, simulation.Summarize(res))
	fmt.Fprintln(out)
	fmt.Fprintln(out, res.Describe())
	if weak := res.WeakInstrumentCount(); weak > 0 {
		fmt.Fprintf(out, "weak instrument in %d of %d replications (first-stage F < %g, %d singular)\n",
			weak, res.Len(), cfg.WeakInstrumentF, res.SingularCount())
	}

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := writeCSV(res, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "results written to %s\n", path)
	}

	series := []viz.Series{
		{Name: simulation.EstimatorIV, Values: res.IVCoefficients()},
		{Name: simulation.EstimatorOLS, Values: res.OLSCoefficients()},
	}
	if path, _ := cmd.Flags().GetString("plot"); path != "" {
		p, err := viz.DensityPlot(series, viz.DefaultDensityOptions(cfg.TrueBeta))
		if err != nil {
			return err
		}
		if err := viz.SaveDensityPlot(p, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "density plot written to %s\n", path)
	}

	if ascii, _ := cmd.Flags().GetBool("ascii"); ascii {
		for _, s := range series {
			chart, err := viz.ASCIIDensity(s.Values, 70, 12, s.Name)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", s.Name, err)
				continue
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, chart)
		}
	}
	return nil
}

func writeCSV(res *simulation.Results, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating results file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing results file")
		}
	}()
	return res.WriteCSV(f)
}

func writeSummaryTable(w io.Writer, summaries []simulation.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"estimator", "n", "missing", "mean", "std", "min", "median", "max", "bias", "rmse"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range summaries {
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Missing),
			formatFloat(s.Mean),
			formatFloat(s.StdDev),
			formatFloat(s.Min),
			formatFloat(s.Median),
			formatFloat(s.Max),
			formatFloat(s.Bias),
			formatFloat(s.RMSE),
		})
	}
	table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
