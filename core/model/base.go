package model

// HandleState tracks the lifecycle of the single active estimator handle
// owned by a model. Transitions run Unfitted -> Tuned -> Fitted -> Bagged;
// Calibrated is a side branch reachable from Fitted or Bagged.
type HandleState int

const (
	// Unfitted means no estimator exists yet.
	Unfitted HandleState = iota
	// Tuned means the best hyperparameters are known but the estimator has
	// not been fit on the full training set.
	Tuned
	// Fitted means the estimator was fit on the full training set.
	Fitted
	// Bagged means a bootstrap uncertainty pass completed on top of Fitted.
	Bagged
	// Calibrated means the handle was replaced by a probability-calibrated
	// wrapper of the fitted estimator.
	Calibrated
)

func (s HandleState) String() string {
	switch s {
	case Unfitted:
		return "unfitted"
	case Tuned:
		return "tuned"
	case Fitted:
		return "fitted"
	case Bagged:
		return "bagged"
	case Calibrated:
		return "calibrated"
	default:
		return "unknown"
	}
}

// IsFitted reports whether the handle holds a trained estimator.
func (s HandleState) IsFitted() bool {
	return s == Fitted || s == Bagged || s == Calibrated
}

// Goal is the learning task of a model lifecycle.
type Goal int

const (
	// Classification predicts discrete class labels.
	Classification Goal = iota
	// Regression predicts continuous targets.
	Regression
)

func (g Goal) String() string {
	if g == Regression {
		return "regression"
	}
	return "classification"
}

// BaseEstimator carries the fitted/unfitted flag for concrete estimators.
// Embed it and call SetFitted at the end of a successful Fit.
type BaseEstimator struct {
	Trained bool
}

// IsFitted reports whether the estimator has been trained.
func (e *BaseEstimator) IsFitted() bool {
	return e.Trained
}

// SetFitted marks the estimator as trained.
func (e *BaseEstimator) SetFitted() {
	e.Trained = true
}

// Reset marks the estimator as untrained.
func (e *BaseEstimator) Reset() {
	e.Trained = false
}
