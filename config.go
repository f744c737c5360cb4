package atom

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/metrics"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
	"github.com/jaswinder9051998/ATOM/pkg/log"
)

// Config is everything a model lifecycle needs from its caller: the
// prepared data split, the metrics to optimize and report, and the
// run-wide knobs. It is validated once and never mutated afterwards.
type Config struct {
	XTrain mat.Matrix
	YTrain mat.Matrix
	XTest  mat.Matrix
	YTest  mat.Matrix

	// Goal selects classification or regression behavior.
	Goal model.Goal

	// Metrics are scorer names or acronyms; the first is the one the
	// optimizer maximizes.
	Metrics []string

	// NJobs bounds fold-level parallelism during evaluation.
	NJobs int

	// RandomState seeds every stochastic step; each optimization call
	// derives its own seed from it.
	RandomState int64

	// TestSize is the holdout fraction used when tuning with cv of 1.
	TestSize float64

	// EstParams fix estimator constructor arguments. Fixed parameters
	// are removed from the search space.
	EstParams map[string]interface{}

	// SampleWeight, when set, must align with the training rows and is
	// sliced per fold during evaluation.
	SampleWeight []float64

	// Scaler standardizes features for model variants that need it. It
	// is fit on the training split once, at lifecycle construction.
	Scaler model.Transformer

	Logger *log.Logger
}

// resolve validates the configuration and resolves metric names into
// scorers.
func (c *Config) resolve() ([]metrics.Scorer, error) {
	if c.XTrain == nil || c.YTrain == nil || c.XTest == nil || c.YTest == nil {
		return nil, errors.NewValueError("config", "train and test splits are required")
	}
	xRows, _ := c.XTrain.Dims()
	yRows, _ := c.YTrain.Dims()
	if xRows != yRows {
		return nil, errors.NewDimensionError("config", xRows, yRows, 0)
	}
	if len(c.SampleWeight) > 0 && len(c.SampleWeight) != xRows {
		return nil, errors.NewDimensionError("config", xRows, len(c.SampleWeight), 0)
	}
	if len(c.Metrics) == 0 {
		return nil, errors.NewValueError("config", "at least one metric is required")
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		c.TestSize = 0.2
	}
	if c.NJobs < 1 {
		c.NJobs = 1
	}
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	scorers := make([]metrics.Scorer, len(c.Metrics))
	for i, name := range c.Metrics {
		s, err := metrics.Get(name)
		if err != nil {
			return nil, err
		}
		scorers[i] = s
	}
	return scorers, nil
}
