package metrics

import (
	"strings"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ScorerKind describes which prediction surface a scorer consumes. The
// reporting path uses it to pick the matching cached prediction.
type ScorerKind int

const (
	// KindPredict consumes plain label or value predictions.
	KindPredict ScorerKind = iota
	// KindProba consumes positive-class probabilities.
	KindProba
	// KindThreshold consumes continuous decision scores, falling back to
	// probabilities when the estimator has no decision function.
	KindThreshold
)

// Scorer evaluates an estimator on a dataset. All scorers are
// maximization-oriented: loss metrics carry a neg_ prefix and a flipped
// sign, following the sklearn convention the original results keep.
type Scorer struct {
	Name string
	Kind ScorerKind

	fn func(est model.Estimator, X mat.Matrix, y *mat.VecDense) (float64, error)
}

// Score evaluates the metric for est on (X, y).
func (s Scorer) Score(est model.Estimator, X mat.Matrix, y *mat.VecDense) (float64, error) {
	return s.fn(est, X, y)
}

// FromPredictions computes the metric directly from a prediction vector,
// bypassing the estimator. Used by the reporting path on cached predictions.
func (s Scorer) FromPredictions(yTrue, yPred *mat.VecDense) (float64, error) {
	raw, ok := rawMetrics[s.Name]
	if !ok {
		return 0, errors.NewValueError("Scorer.FromPredictions", "metric has no vector form: "+s.Name)
	}
	return raw(yTrue, yPred)
}

// acronyms maps the short names accepted throughout the API to canonical
// scorer names.
var acronyms = map[string]string{
	"auc":      "roc_auc",
	"logloss":  "neg_log_loss",
	"ce":       "neg_log_loss",
	"mae":      "neg_mean_absolute_error",
	"mse":      "neg_mean_squared_error",
	"rmse":     "neg_root_mean_squared_error",
	"acc":      "accuracy",
	"accuracy": "accuracy",
}

// rawMetrics holds the vector form of each scorer, keyed by canonical name.
// The prediction vector is interpreted per the scorer's Kind.
var rawMetrics = map[string]func(yTrue, yPred *mat.VecDense) (float64, error){
	"accuracy":  Accuracy,
	"precision": Precision,
	"recall":    Recall,
	"f1":        F1,
	"roc_auc":   AUC,
	"neg_log_loss": func(yt, yp *mat.VecDense) (float64, error) {
		v, err := LogLoss(yt, yp)
		return -v, err
	},
	"r2": R2Score,
	"neg_mean_squared_error": func(yt, yp *mat.VecDense) (float64, error) {
		v, err := MSE(yt, yp)
		return -v, err
	},
	"neg_root_mean_squared_error": func(yt, yp *mat.VecDense) (float64, error) {
		v, err := RMSE(yt, yp)
		return -v, err
	},
	"neg_mean_absolute_error": func(yt, yp *mat.VecDense) (float64, error) {
		v, err := MAE(yt, yp)
		return -v, err
	},
}

var scorerKinds = map[string]ScorerKind{
	"accuracy":                    KindPredict,
	"precision":                   KindPredict,
	"recall":                      KindPredict,
	"f1":                          KindPredict,
	"roc_auc":                     KindThreshold,
	"neg_log_loss":                KindProba,
	"r2":                          KindPredict,
	"neg_mean_squared_error":      KindPredict,
	"neg_root_mean_squared_error": KindPredict,
	"neg_mean_absolute_error":     KindPredict,
}

// Names returns the canonical scorer names, for error messages.
func Names() []string {
	names := make([]string, 0, len(rawMetrics))
	for name := range rawMetrics {
		names = append(names, name)
	}
	return names
}

// Resolve canonicalizes a metric name or acronym without building a scorer.
func Resolve(name string) (string, bool) {
	canon := strings.ToLower(strings.TrimSpace(name))
	if full, ok := acronyms[canon]; ok {
		canon = full
	}
	_, ok := rawMetrics[canon]
	return canon, ok
}

// Get resolves a metric name or acronym to a Scorer. Unknown names are a
// configuration error.
func Get(name string) (Scorer, error) {
	canon, ok := Resolve(name)
	if !ok {
		return Scorer{}, errors.NewValidationError(
			"metric", "unknown metric, try one of: "+strings.Join(Names(), ", "), name)
	}

	kind := scorerKinds[canon]
	raw := rawMetrics[canon]
	return Scorer{
		Name: canon,
		Kind: kind,
		fn: func(est model.Estimator, X mat.Matrix, y *mat.VecDense) (float64, error) {
			yPred, err := predictionFor(est, X, kind)
			if err != nil {
				return 0, err
			}
			return raw(y, yPred)
		},
	}, nil
}

// predictionFor extracts the prediction vector matching a scorer kind,
// using the estimator's optional capabilities.
func predictionFor(est model.Estimator, X mat.Matrix, kind ScorerKind) (*mat.VecDense, error) {
	switch kind {
	case KindThreshold:
		if d, ok := est.(model.DecisionPredictor); ok {
			scores, err := d.DecisionFunction(X)
			if err != nil {
				return nil, err
			}
			return ColVec(scores, 0), nil
		}
		fallthrough
	case KindProba:
		p, ok := est.(model.ProbaPredictor)
		if !ok {
			return nil, errors.NewCapabilityError(model.EstimatorName(est), "PredictProba")
		}
		proba, err := p.PredictProba(X)
		if err != nil {
			return nil, err
		}
		// Positive-class column for binary problems.
		_, cols := proba.Dims()
		return ColVec(proba, cols-1), nil
	default:
		pred, err := est.Predict(X)
		if err != nil {
			return nil, err
		}
		return ColVec(pred, 0), nil
	}
}

// ColVec copies column j of m into a vector.
func ColVec(m mat.Matrix, j int) *mat.VecDense {
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, j))
	}
	return v
}
