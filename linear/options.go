package linear

// Option は LinearRegression と TwoStageLeastSquares の設定を変更する関数
type Option func(*config)

type config struct {
	fitIntercept      bool
	parallelThreshold int
}

func defaultConfig() config {
	return config{
		fitIntercept:      true,
		parallelThreshold: 1000,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFitIntercept sets whether to add a constant column to the design matrix.
// The default is true.
func WithFitIntercept(fit bool) Option {
	return func(c *config) {
		c.fitIntercept = fit
	}
}

// WithParallelThreshold sets the row count above which design matrices are
// assembled in parallel.
func WithParallelThreshold(rows int) Option {
	return func(c *config) {
		c.parallelThreshold = rows
	}
}
