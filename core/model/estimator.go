// Package model defines the estimator contracts consumed by the ATOM
// model-fitting core. Every concrete estimator implements Estimator; the
// remaining interfaces are optional capabilities discovered by type
// assertion at the call site, never by reflection.
package model

import "gonum.org/v1/gonum/mat"

// Estimator is the minimal contract for a trainable model.
type Estimator interface {
	// Fit trains the model on the given features and targets.
	Fit(X, y mat.Matrix) error

	// Predict returns predictions for the given features.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// ProbaPredictor is implemented by classifiers that expose class
// probability estimates.
type ProbaPredictor interface {
	// PredictProba returns one column of probabilities per class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// LogProbaPredictor is implemented by classifiers that expose log
// probability estimates.
type LogProbaPredictor interface {
	PredictLogProba(X mat.Matrix) (mat.Matrix, error)
}

// DecisionPredictor is implemented by classifiers that expose a continuous
// decision score per sample.
type DecisionPredictor interface {
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is implemented by estimators that compute their default score
// (accuracy for classifiers, R^2 for regressors).
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Cloner is implemented by estimators that can produce an unfitted copy
// carrying the same hyperparameter configuration.
type Cloner interface {
	Clone() Estimator
}

// WeightedFitter is implemented by estimators that accept per-sample
// weights during training. The weight slice must align with the rows of X.
type WeightedFitter interface {
	FitWeighted(X, y mat.Matrix, sampleWeight []float64) error
}

// ValidationFitter is implemented by estimators that support in-training
// evaluation on a held-out validation split. Training stops when the
// validation metric has not improved for the configured number of rounds;
// earlyStopping values below 1 are a fraction of the estimator's iteration
// ceiling. Returns the iteration training stopped at and that ceiling.
type ValidationFitter interface {
	FitWithValidation(X, y, XVal, yVal mat.Matrix, earlyStopping float64) (stopped, limit int, err error)
}

// Transformer is the contract for feature transformers such as scalers.
// Transformers are external collaborators; the core only invokes them.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}
