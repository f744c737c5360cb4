package atom

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/evaluate"
	"github.com/jaswinder9051998/ATOM/metrics"
	"github.com/jaswinder9051998/ATOM/optimize"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
	"github.com/jaswinder9051998/ATOM/pkg/log"
)

// Model owns one estimator's lifecycle: optional hyperparameter search,
// the fit on the full training split, optional bagging and calibration,
// and the prediction and scoring accessors. A Model is not safe for
// concurrent use.
type Model struct {
	desc    model.Descriptor
	cfg     Config
	scorers []metrics.Scorer

	state  model.HandleState
	handle model.Estimator

	// Search results.
	trials     []optimize.Trial
	bestParams map[string]interface{}
	metricBO   []float64
	timeBO     time.Duration

	// Fit results.
	metricTrain []float64
	metricTest  []float64
	timeFit     time.Duration
	// stoppedAt and stopLimit hold the early stopping outcome of the
	// final fit, zero when it did not apply.
	stoppedAt int
	stopLimit int

	// earlyStopping carries the search option into the final fit.
	earlyStopping float64

	// Bagging results.
	baggingScores [][]float64
	meanBagging   []float64
	stdBagging    []float64
	timeBagging   time.Duration

	cache predictionCache
}

// NewModel builds a lifecycle for one model variant. Fixed estimator
// parameters from the configuration are checked against the variant's
// legal constructor arguments.
func NewModel(desc model.Descriptor, cfg Config) (*Model, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	scorers, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	for name := range cfg.EstParams {
		if !desc.HasParam(name) {
			return nil, errors.NewValidationError(name,
				"not an estimator parameter of "+desc.Acronym, cfg.EstParams[name])
		}
	}
	if desc.NeedsScaling && cfg.Scaler != nil {
		if err := cfg.Scaler.Fit(cfg.XTrain); err != nil {
			return nil, errors.Wrap(err, "scaler fit failed")
		}
		if cfg.XTrain, err = cfg.Scaler.Transform(cfg.XTrain); err != nil {
			return nil, errors.Wrap(err, "scaling the training split failed")
		}
		if cfg.XTest, err = cfg.Scaler.Transform(cfg.XTest); err != nil {
			return nil, errors.Wrap(err, "scaling the test split failed")
		}
	} else {
		cfg.Scaler = nil
	}
	return &Model{
		desc:    desc,
		cfg:     cfg,
		scorers: scorers,
		state:   model.Unfitted,
		cache:   newPredictionCache(),
	}, nil
}

// Acronym returns the model variant's short name.
func (m *Model) Acronym() string { return m.desc.Acronym }

// State returns the current lifecycle state.
func (m *Model) State() model.HandleState { return m.state }

// Trials returns the append-only search ledger, one row per completed
// optimization call.
func (m *Model) Trials() []optimize.Trial { return m.trials }

// BestParams returns the hyperparameters selected by the last search.
func (m *Model) BestParams() map[string]interface{} { return m.bestParams }

// BOOptions tune one Optimize call.
type BOOptions struct {
	// BaseEstimator picks the surrogate model: GP, RF, ET or GBRT.
	BaseEstimator string

	// MaxTime stops the search when the wall clock budget runs out.
	MaxTime time.Duration

	// DeltaX stops the search when consecutive proposals converge.
	DeltaX float64

	// DeltaY stops the search when the five best scores converge.
	DeltaY float64

	// CV is the fold count used per trial; defaults to 5, and 1 selects
	// a single holdout split.
	CV int

	// EarlyStopping is handed to estimators supporting validation-based
	// stopping; only meaningful with CV of 1.
	EarlyStopping float64

	// NCandidates is the acquisition sample size per iteration.
	NCandidates int

	// Dimensions replaces the default search space for this variant.
	Dimensions optimize.Space

	// Stoppers are additional custom stopping callbacks.
	Stoppers []optimize.Stopper
}

// Optimize searches the hyperparameter space with sequential model-based
// optimization and stores the best parameters. A zero call budget skips
// the search entirely and the later fit uses the defaults. The fitted
// estimator snapshot of the best trial becomes the handle, leaving the
// lifecycle tuned but not yet fit on the full training split.
func (m *Model) Optimize(nCalls, nInitialPoints int, opts BOOptions) error {
	if nCalls == 0 {
		return nil
	}
	space, err := m.space(opts.Dimensions)
	if err != nil {
		return err
	}
	cv := opts.CV
	if cv == 0 {
		cv = 5
	}
	if cv < 1 {
		return errors.NewValidationError("cv", "should be equal or larger than 1", cv)
	}
	strategy := evaluate.Strategy{
		X:             m.cfg.XTrain,
		Y:             m.cfg.YTrain,
		CV:            cv,
		TestSize:      m.cfg.TestSize,
		EarlyStopping: opts.EarlyStopping,
		Goal:          m.cfg.Goal,
		Metrics:       m.scorers,
		NJobs:         m.cfg.NJobs,
		Seed:          m.cfg.RandomState,
		SampleWeight:  m.cfg.SampleWeight,
	}

	m.cfg.Logger.Log("Running BO for "+m.desc.Name()+"...", 1)
	objective := func(call int, params map[string]interface{}) (optimize.Evaluation, error) {
		merged := m.mergeParams(params)
		return strategy.Evaluate(func() (model.Estimator, error) {
			return m.desc.Make(merged)
		}, call)
	}

	result, err := optimize.Run(space, objective, nCalls, nInitialPoints, optimize.Options{
		BaseEstimator: opts.BaseEstimator,
		MaxTime:       opts.MaxTime,
		DeltaX:        opts.DeltaX,
		DeltaY:        opts.DeltaY,
		NCandidates:   opts.NCandidates,
		Stoppers:      opts.Stoppers,
		Seed:          m.cfg.RandomState,
	}, m.cfg.Logger)
	if err != nil {
		return err
	}

	m.trials = result.Trials
	m.bestParams = result.BestParams
	m.earlyStopping = opts.EarlyStopping
	m.metricBO = bestPerMetric(result.Trials, len(m.scorers))
	m.timeBO = result.Duration
	m.setHandle(result.Trials[result.BestCall-1].Estimator, model.Tuned)

	m.cfg.Logger.Log("Bayesian Optimization ---------------------------", 1)
	m.cfg.Logger.Logf(1, "Best parameters --> %v", m.bestParams)
	m.cfg.Logger.Logf(1, "Best evaluation --> %s: %.4f",
		m.scorers[0].Name, result.BestScore)
	m.cfg.Logger.Logf(1, "Time elapsed: %.3fs", result.Duration.Seconds())
	return nil
}

// space builds the effective search space: the caller override or the
// registered default, minus the fixed parameters.
func (m *Model) space(override optimize.Space) (optimize.Space, error) {
	space := override
	if space == nil {
		s, ok := optimize.DefaultSpace(m.desc.Acronym)
		if !ok {
			return nil, errors.NewValueError("optimize",
				"no default hyperparameter space registered for "+m.desc.Acronym)
		}
		space = s
	}
	fixed := make([]string, 0, len(m.cfg.EstParams))
	for name := range m.cfg.EstParams {
		fixed = append(fixed, name)
	}
	space = space.Without(fixed...)
	if len(space) == 0 {
		return nil, errors.NewValueError("optimize",
			"every dimension is fixed; nothing left to search")
	}
	return space, nil
}

// mergeParams overlays the fixed estimator parameters on a proposal.
func (m *Model) mergeParams(params map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(params)+len(m.cfg.EstParams))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range m.cfg.EstParams {
		merged[k] = v
	}
	return merged
}

// bestPerMetric takes the maximum of every metric over the trials.
func bestPerMetric(trials []optimize.Trial, nMetrics int) []float64 {
	best := make([]float64, nMetrics)
	for i := range best {
		best[i] = trials[0].Scores[i]
		for _, t := range trials[1:] {
			if t.Scores[i] > best[i] {
				best[i] = t.Scores[i]
			}
		}
	}
	return best
}

// Fit trains the estimator on the full training split and records the
// train and test metric vectors. Without a prior search the estimator
// is built from its defaults plus the fixed parameters.
func (m *Model) Fit() error {
	start := time.Now()
	params := m.bestParams
	if params == nil {
		params = m.defaultParams()
	}
	est, err := m.desc.Make(m.mergeParams(params))
	if err != nil {
		return err
	}

	m.stoppedAt, m.stopLimit = 0, 0
	vf, hasValidation := est.(model.ValidationFitter)
	switch {
	case m.earlyStopping > 0 && hasValidation:
		m.stoppedAt, m.stopLimit, err = vf.FitWithValidation(
			m.cfg.XTrain, m.cfg.YTrain, m.cfg.XTest, m.cfg.YTest, m.earlyStopping)
		if err == nil && m.stoppedAt < m.stopLimit {
			m.cfg.Logger.Logf(2, "Early stop at iteration %d of %d.",
				m.stoppedAt, m.stopLimit)
		}
	case len(m.cfg.SampleWeight) > 0:
		wf, ok := est.(model.WeightedFitter)
		if !ok {
			return errors.NewCapabilityError(model.EstimatorName(est), "FitWeighted")
		}
		err = wf.FitWeighted(m.cfg.XTrain, m.cfg.YTrain, m.cfg.SampleWeight)
	default:
		err = est.Fit(m.cfg.XTrain, m.cfg.YTrain)
	}
	if err != nil {
		return errors.Wrap(err, "fit failed")
	}

	m.setHandle(est, model.Fitted)
	if m.metricTrain, err = m.scoreSplit(m.cfg.XTrain, m.cfg.YTrain); err != nil {
		return err
	}
	if m.metricTest, err = m.scoreSplit(m.cfg.XTest, m.cfg.YTest); err != nil {
		return err
	}
	m.timeFit = time.Since(start)

	m.cfg.Logger.Log("Fit ---------------------------------------------", 1)
	for i, s := range m.scorers {
		m.cfg.Logger.Logf(1, "Train evaluation --> %s: %.4f", s.Name, m.metricTrain[i])
		m.cfg.Logger.Logf(1, "Test evaluation --> %s: %.4f", s.Name, m.metricTest[i])
	}
	m.cfg.Logger.Logf(1, "Time elapsed: %.3fs", m.timeFit.Seconds())
	return nil
}

// defaultParams returns the variant's documented defaults, or an empty
// set when no space is registered.
func (m *Model) defaultParams() map[string]interface{} {
	if s, ok := optimize.DefaultSpace(m.desc.Acronym); ok {
		return s.Defaults()
	}
	return map[string]interface{}{}
}

func (m *Model) scoreSplit(X, y mat.Matrix) ([]float64, error) {
	out := make([]float64, len(m.scorers))
	for i, s := range m.scorers {
		score, err := s.Score(m.handle, X, columnVec(y))
		if err != nil {
			return nil, err
		}
		out[i] = score
	}
	return out, nil
}

// setHandle swaps the active estimator and drops every cached
// prediction tied to the previous one.
func (m *Model) setHandle(est model.Estimator, state model.HandleState) {
	m.handle = est
	m.state = state
	m.cache.clear()
	m.cfg.Logger.Event(3).
		Str(log.ModelNameKey, m.desc.Acronym).
		Str(log.EstimatorKey, model.EstimatorName(est)).
		Str("state", state.String()).
		Msg("estimator handle replaced")
}

func columnVec(y mat.Matrix) *mat.VecDense {
	rows, _ := y.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, y.At(i, 0))
	}
	return v
}
