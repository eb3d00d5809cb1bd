package simulation

import (
	"io"

	"github.com/YuminosukeSato/ivsim/pkg/errors"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DataFrame returns one row per replication with columns iter, ols, iv,
// first_stage_f and weak_instrument. NaN estimates become NA.
func (r *Results) DataFrame() (dataframe.DataFrame, error) {
	df := dataframe.LoadStructs(r.Replications)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Err, "building results data frame")
	}
	return df, nil
}

// describeRows are the row labels of Describe, in order.
var describeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe returns count, mean, std, min, quartiles and max of the
// iteration index and both estimators, skipping NaN estimates.
func (r *Results) Describe() dataframe.DataFrame {
	iters := make([]float64, len(r.Replications))
	for i, rep := range r.Replications {
		iters[i] = float64(rep.Index)
	}

	labels := series.New(describeRows, series.String, "statistic")
	cols := []series.Series{labels}
	for _, c := range []struct {
		name   string
		values []float64
	}{
		{"iter", iters},
		{EstimatorOLS, r.OLSCoefficients()},
		{EstimatorIV, r.IVCoefficients()},
	} {
		s := summarize(c.name, c.values, r.Config.TrueBeta)
		cols = append(cols, series.New([]float64{
			float64(s.Count), s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max,
		}, series.Float, c.name))
	}
	return dataframe.New(cols...)
}

// WriteCSV writes the replication table as CSV with a header row.
func (r *Results) WriteCSV(w io.Writer) error {
	df, err := r.DataFrame()
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w); err != nil {
		return errors.Wrap(err, "writing results CSV")
	}
	return nil
}
