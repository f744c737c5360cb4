package atom

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/evaluate"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// CalibrateOptions tune a Calibrate call.
type CalibrateOptions struct {
	// Prefit calibrates the already fitted estimator directly on the
	// test split. The caller accepts the data leakage this implies.
	Prefit bool

	// CV is the fold count for cross-validated calibration on the
	// training split; defaults to 5. Ignored with Prefit.
	CV int
}

// Calibrate wraps the fitted classifier in a sigmoid probability
// calibrator. The handle is replaced and every cached prediction is
// dropped. Regression lifecycles are rejected.
func (m *Model) Calibrate(opts CalibrateOptions) error {
	if m.cfg.Goal != model.Classification {
		return errors.NewPermissionError("calibrate",
			"calibration is only available for classification tasks")
	}
	if !m.state.IsFitted() {
		return errors.NewNotFittedError(m.desc.Acronym, "Calibrate")
	}

	var scores, labels []float64
	var err error
	if opts.Prefit {
		scores, labels, err = m.calibrationScores(m.handle, m.cfg.XTest, m.cfg.YTest)
	} else {
		scores, labels, err = m.pooledScores(opts.CV)
	}
	if err != nil {
		return err
	}

	cal := &CalibratedClassifier{Base: m.handle}
	cal.fitSigmoid(scores, labels)
	cal.SetFitted()
	m.setHandle(cal, model.Calibrated)
	m.cfg.Logger.Log("Applying probability calibration...", 1)
	return nil
}

// pooledScores collects out-of-fold decision scores on the training
// split so the calibrator never sees scores from data the base
// estimator trained on.
func (m *Model) pooledScores(cv int) ([]float64, []float64, error) {
	if cv == 0 {
		cv = 5
	}
	if cv < 2 {
		return nil, nil, errors.NewValidationError("cv",
			"should be equal or larger than 2, or use prefit", cv)
	}
	splitter := evaluate.StratifiedKFold{K: cv, Seed: m.cfg.RandomState}
	folds := splitter.Split(m.cfg.XTrain, m.cfg.YTrain)

	var scores, labels []float64
	for _, fold := range folds {
		est, err := m.cloneHandle()
		if err != nil {
			return nil, nil, err
		}
		xTrain := evaluate.SubsetRows(m.cfg.XTrain, fold.TrainIndices)
		yTrain := evaluate.SubsetRows(m.cfg.YTrain, fold.TrainIndices)
		if err := est.Fit(xTrain, yTrain); err != nil {
			return nil, nil, errors.Wrap(err, "calibration fold fit failed")
		}
		xVal := evaluate.SubsetRows(m.cfg.XTrain, fold.TestIndices)
		yVal := evaluate.SubsetRows(m.cfg.YTrain, fold.TestIndices)
		s, l, err := m.calibrationScores(est, xVal, yVal)
		if err != nil {
			return nil, nil, err
		}
		scores = append(scores, s...)
		labels = append(labels, l...)
	}
	return scores, labels, nil
}

// calibrationScores extracts one continuous score per row, preferring
// the decision function over the positive-class probability.
func (m *Model) calibrationScores(est model.Estimator, X, y mat.Matrix) ([]float64, []float64, error) {
	raw, err := rawScores(est, X)
	if err != nil {
		return nil, nil, err
	}
	rows, _ := y.Dims()
	labels := make([]float64, rows)
	for i := 0; i < rows; i++ {
		labels[i] = y.At(i, 0)
	}
	return raw, labels, nil
}

func rawScores(est model.Estimator, X mat.Matrix) ([]float64, error) {
	if dp, ok := est.(model.DecisionPredictor); ok {
		out, err := dp.DecisionFunction(X)
		if err != nil {
			return nil, err
		}
		return column(out, 0), nil
	}
	if pp, ok := est.(model.ProbaPredictor); ok {
		out, err := pp.PredictProba(X)
		if err != nil {
			return nil, err
		}
		_, cols := out.Dims()
		return column(out, cols-1), nil
	}
	return nil, errors.NewCapabilityError(model.EstimatorName(est), "DecisionFunction")
}

func column(m mat.Matrix, j int) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.At(i, j)
	}
	return out
}

// CalibratedClassifier maps a base classifier's continuous scores
// through a fitted sigmoid so the probabilities match observed label
// frequencies. Predictions threshold the calibrated probability.
type CalibratedClassifier struct {
	model.BaseEstimator

	Base model.Estimator

	// A and B parameterize the sigmoid 1/(1+exp(A*score+B)).
	A float64
	B float64
}

// fitSigmoid fits the two sigmoid parameters by gradient descent on the
// log loss of the calibrated probabilities.
func (c *CalibratedClassifier) fitSigmoid(scores, labels []float64) {
	c.A, c.B = -1, 0
	n := float64(len(scores))
	for iter := 0; iter < 200; iter++ {
		var gradA, gradB float64
		for i, s := range scores {
			p := 1.0 / (1.0 + math.Exp(c.A*s+c.B))
			diff := p - labels[i]
			// dp/dA = -s*p*(1-p); chain through the log loss gives the
			// negated score-weighted residual.
			gradA += -diff * s
			gradB += -diff
		}
		c.A -= 0.1 * gradA / n
		c.B -= 0.1 * gradB / n
	}
}

func (c *CalibratedClassifier) calibrate(score float64) float64 {
	return 1.0 / (1.0 + math.Exp(c.A*score+c.B))
}

// Fit refits the base estimator. The sigmoid parameters are kept;
// refitting the calibration requires a new Calibrate call.
func (c *CalibratedClassifier) Fit(X, y mat.Matrix) error {
	if err := c.Base.Fit(X, y); err != nil {
		return err
	}
	c.SetFitted()
	return nil
}

// PredictProba returns the calibrated class probabilities.
func (c *CalibratedClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("CalibratedClassifier", "PredictProba")
	}
	scores, err := rawScores(c.Base, X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(scores), 2, nil)
	for i, s := range scores {
		p := c.calibrate(s)
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// Predict returns the label with the highest calibrated probability.
func (c *CalibratedClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, _ := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		if proba.At(i, 1) >= 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// Score returns the accuracy of the calibrated predictions.
func (c *CalibratedClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	var correct float64
	for i := 0; i < rows; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return correct / float64(rows), nil
}
