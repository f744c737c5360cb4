package atom

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// predictionCache memoizes prediction results per (method, split) pair.
// It is dropped wholesale whenever the estimator handle changes, so an
// entry can never outlive the estimator that produced it.
type predictionCache struct {
	entries map[cacheKey]mat.Matrix
}

type cacheKey struct {
	method string
	split  string
}

func newPredictionCache() predictionCache {
	return predictionCache{entries: make(map[cacheKey]mat.Matrix)}
}

func (c *predictionCache) clear() {
	c.entries = make(map[cacheKey]mat.Matrix)
}

func (c *predictionCache) get(method, split string) (mat.Matrix, bool) {
	v, ok := c.entries[cacheKey{method, split}]
	return v, ok
}

func (c *predictionCache) put(method, split string, v mat.Matrix) {
	c.entries[cacheKey{method, split}] = v
}

// fitted guards every prediction accessor.
func (m *Model) fitted(method string) error {
	if m.handle == nil || !m.state.IsFitted() {
		return errors.NewNotFittedError(m.desc.Acronym, method)
	}
	return nil
}

// features applies the fitted scaler to caller-supplied rows. The
// internal splits are already scaled at construction.
func (m *Model) features(X mat.Matrix) (mat.Matrix, error) {
	if m.cfg.Scaler == nil {
		return X, nil
	}
	return m.cfg.Scaler.Transform(X)
}

// invoke dispatches a prediction method on the fitted handle. X must
// already be in model space; the scaler is never consulted here.
func (m *Model) invoke(method string, X mat.Matrix) (mat.Matrix, error) {
	switch method {
	case "predict":
		return m.handle.Predict(X)
	case "predict_proba":
		pp, ok := m.handle.(model.ProbaPredictor)
		if !ok {
			return nil, errors.NewCapabilityError(model.EstimatorName(m.handle), "PredictProba")
		}
		return pp.PredictProba(X)
	case "predict_log_proba":
		lp, ok := m.handle.(model.LogProbaPredictor)
		if !ok {
			return nil, errors.NewCapabilityError(model.EstimatorName(m.handle), "PredictLogProba")
		}
		return lp.PredictLogProba(X)
	case "decision_function":
		dp, ok := m.handle.(model.DecisionPredictor)
		if !ok {
			return nil, errors.NewCapabilityError(model.EstimatorName(m.handle), "DecisionFunction")
		}
		return dp.DecisionFunction(X)
	default:
		return nil, errors.NewValueError("predict", "unknown method: "+method)
	}
}

// Predict returns the estimator's predictions for X.
func (m *Model) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := m.fitted("Predict"); err != nil {
		return nil, err
	}
	X, err := m.features(X)
	if err != nil {
		return nil, err
	}
	return m.invoke("predict", X)
}

// PredictProba returns class probabilities; errors when the estimator
// cannot produce them.
func (m *Model) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := m.fitted("PredictProba"); err != nil {
		return nil, err
	}
	X, err := m.features(X)
	if err != nil {
		return nil, err
	}
	return m.invoke("predict_proba", X)
}

// PredictLogProba returns log class probabilities.
func (m *Model) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if err := m.fitted("PredictLogProba"); err != nil {
		return nil, err
	}
	X, err := m.features(X)
	if err != nil {
		return nil, err
	}
	return m.invoke("predict_log_proba", X)
}

// DecisionFunction returns the estimator's continuous decision scores.
func (m *Model) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := m.fitted("DecisionFunction"); err != nil {
		return nil, err
	}
	X, err := m.features(X)
	if err != nil {
		return nil, err
	}
	return m.invoke("decision_function", X)
}

// Score delegates to the estimator's own scoring method.
func (m *Model) Score(X, y mat.Matrix) (float64, error) {
	if err := m.fitted("Score"); err != nil {
		return 0, err
	}
	sc, ok := m.handle.(model.Scorer)
	if !ok {
		return 0, errors.NewCapabilityError(model.EstimatorName(m.handle), "Score")
	}
	X, err := m.features(X)
	if err != nil {
		return 0, err
	}
	return sc.Score(X, y)
}

// predictSplit returns the memoized prediction of the given method on
// the train or test split. The splits were transformed once at
// construction, so the handle is invoked on them directly; routing
// through the public accessors would scale them a second time.
func (m *Model) predictSplit(method, split string) (mat.Matrix, error) {
	if err := m.fitted(method); err != nil {
		return nil, err
	}
	if out, ok := m.cache.get(method, split); ok {
		return out, nil
	}
	X := m.cfg.XTrain
	if split == "test" {
		X = m.cfg.XTest
	}
	out, err := m.invoke(method, X)
	if err != nil {
		return nil, err
	}
	m.cache.put(method, split, out)
	return out, nil
}

// PredictTrain returns memoized predictions on the training split.
func (m *Model) PredictTrain() (mat.Matrix, error) { return m.predictSplit("predict", "train") }

// PredictTest returns memoized predictions on the test split.
func (m *Model) PredictTest() (mat.Matrix, error) { return m.predictSplit("predict", "test") }

// PredictProbaTrain returns memoized probabilities on the training split.
func (m *Model) PredictProbaTrain() (mat.Matrix, error) {
	return m.predictSplit("predict_proba", "train")
}

// PredictProbaTest returns memoized probabilities on the test split.
func (m *Model) PredictProbaTest() (mat.Matrix, error) {
	return m.predictSplit("predict_proba", "test")
}

// DecisionFunctionTrain returns memoized decision scores on the training split.
func (m *Model) DecisionFunctionTrain() (mat.Matrix, error) {
	return m.predictSplit("decision_function", "train")
}

// DecisionFunctionTest returns memoized decision scores on the test split.
func (m *Model) DecisionFunctionTest() (mat.Matrix, error) {
	return m.predictSplit("decision_function", "test")
}
