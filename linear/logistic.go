package linear

import (
	"encoding/gob"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/core/parallel"
	"github.com/jaswinder9051998/ATOM/metrics"
	"github.com/jaswinder9051998/ATOM/optimize"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// Logistic is a binary classifier trained by gradient descent on the
// regularized log loss. Labels must be 0 or 1.
type Logistic struct {
	model.BaseEstimator

	// C is the inverse regularization strength.
	C float64

	// MaxIter bounds the gradient descent iterations.
	MaxIter int

	// LearningRate is the gradient descent step size.
	LearningRate float64

	Weights   []float64
	Intercept float64

	// StoppedAt records the iteration early stopping ended training on,
	// zero when training ran to completion.
	StoppedAt int
}

// NewLogistic builds an unfitted classifier with the given inverse
// regularization strength.
func NewLogistic(c float64, maxIter int) *Logistic {
	return &Logistic{C: c, MaxIter: maxIter, LearningRate: 0.1}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains on (X, y) for the full iteration budget.
func (l *Logistic) Fit(X, y mat.Matrix) error {
	return l.train(X, y, nil, nil, nil, 0)
}

// FitWeighted trains with per-sample weights scaling each gradient
// contribution.
func (l *Logistic) FitWeighted(X, y mat.Matrix, sampleWeight []float64) error {
	rows, _ := X.Dims()
	if sampleWeight != nil && len(sampleWeight) != rows {
		return errors.NewDimensionError("Logistic.FitWeighted", rows, len(sampleWeight), 0)
	}
	return l.train(X, y, sampleWeight, nil, nil, 0)
}

// FitWithValidation trains while watching the log loss on the
// validation set, stopping once it fails to improve for the patience
// window. A patience below 1 is a fraction of MaxIter.
func (l *Logistic) FitWithValidation(X, y, xVal, yVal mat.Matrix, earlyStopping float64) (int, int, error) {
	if earlyStopping <= 0 {
		return 0, l.MaxIter, errors.NewValidationError("early_stopping",
			"should be larger than 0", earlyStopping)
	}
	err := l.train(X, y, nil, xVal, yVal, earlyStopping)
	stopped := l.StoppedAt
	if stopped == 0 {
		stopped = l.MaxIter
	}
	return stopped, l.MaxIter, err
}

func (l *Logistic) train(X, y mat.Matrix, sampleWeight []float64, xVal, yVal mat.Matrix, earlyStopping float64) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if yRows != rows {
		return errors.NewDimensionError("Logistic.Fit", rows, yRows, 0)
	}
	for i := 0; i < rows; i++ {
		if v := y.At(i, 0); v != 0 && v != 1 {
			return errors.NewValueError("Logistic.Fit", "labels must be 0 or 1")
		}
	}

	maxIter := l.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}
	lr := l.LearningRate
	if lr <= 0 {
		lr = 0.1
	}
	patience := 0
	if earlyStopping > 0 {
		if earlyStopping < 1 {
			patience = int(earlyStopping * float64(maxIter))
		} else {
			patience = int(earlyStopping)
		}
		if patience < 1 {
			patience = 1
		}
	}

	l.Weights = make([]float64, cols)
	l.Intercept = 0
	l.StoppedAt = 0

	bestLoss := math.Inf(1)
	sinceBest := 0
	grad := make([]float64, cols)

	for iter := 1; iter <= maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64
		for i := 0; i < rows; i++ {
			z := l.Intercept
			for j := 0; j < cols; j++ {
				z += l.Weights[j] * X.At(i, j)
			}
			residual := sigmoid(z) - y.At(i, 0)
			if sampleWeight != nil {
				residual *= sampleWeight[i]
			}
			for j := 0; j < cols; j++ {
				grad[j] += residual * X.At(i, j)
			}
			gradB += residual
		}
		n := float64(rows)
		for j := 0; j < cols; j++ {
			// L2 penalty scaled by 1/C.
			grad[j] = grad[j]/n + l.Weights[j]/(l.C*n)
			l.Weights[j] -= lr * grad[j]
		}
		l.Intercept -= lr * gradB / n

		if patience > 0 {
			loss, err := l.validationLoss(xVal, yVal)
			if err != nil {
				return err
			}
			if loss < bestLoss {
				bestLoss = loss
				sinceBest = 0
			} else {
				sinceBest++
				if sinceBest >= patience {
					l.StoppedAt = iter
					break
				}
			}
		}
	}
	l.SetFitted()
	return nil
}

func (l *Logistic) validationLoss(xVal, yVal mat.Matrix) (float64, error) {
	rows, cols := xVal.Dims()
	yTrue := mat.NewVecDense(rows, nil)
	proba := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		z := l.Intercept
		for j := 0; j < cols; j++ {
			z += l.Weights[j] * xVal.At(i, j)
		}
		proba.SetVec(i, sigmoid(z))
		yTrue.SetVec(i, yVal.At(i, 0))
	}
	loss, err := metrics.LogLoss(yTrue, proba)
	if err != nil {
		return 0, err
	}
	return loss, nil
}

// DecisionFunction returns the raw linear score per row.
func (l *Logistic) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("Logistic", "DecisionFunction")
	}
	rows, cols := X.Dims()
	if cols != len(l.Weights) {
		return nil, errors.NewDimensionError("Logistic.DecisionFunction", len(l.Weights), cols, 1)
	}
	out := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			z := l.Intercept
			for j := 0; j < cols; j++ {
				z += l.Weights[j] * X.At(i, j)
			}
			out.Set(i, 0, z)
		}
	})
	return out, nil
}

// PredictProba returns class probabilities, one column per class.
func (l *Logistic) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := l.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	rows, _ := scores.Dims()
	out := mat.NewDense(rows, 2, nil)
	for i := 0; i < rows; i++ {
		p := sigmoid(scores.At(i, 0))
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// PredictLogProba returns the natural log of the class probabilities.
func (l *Logistic) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	proba, err := l.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, cols := proba.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, math.Log(proba.At(i, j)))
		}
	}
	return out, nil
}

// Predict returns the label with the highest probability.
func (l *Logistic) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := l.PredictProba(X)
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

// Score returns the accuracy on (X, y).
func (l *Logistic) Score(X, y mat.Matrix) (float64, error) {
	pred, err := l.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	yVec := mat.NewVecDense(rows, nil)
	pVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
		pVec.SetVec(i, pred.At(i, 0))
	}
	return metrics.Accuracy(yVec, pVec)
}

// Clone returns an unfitted copy carrying the hyperparameters.
func (l *Logistic) Clone() model.Estimator {
	return &Logistic{C: l.C, MaxIter: l.MaxIter, LearningRate: l.LearningRate}
}

// LogisticDescriptor describes the classifier for the model registry.
func LogisticDescriptor() model.Descriptor {
	return model.Descriptor{
		Acronym:      "LR",
		FullName:     "Logistic regression",
		NeedsScaling: true,
		Explainer:    model.LinearExplainer,
		Params:       []string{"C", "max_iter", "learning_rate"},
		Make: func(params map[string]interface{}) (model.Estimator, error) {
			est := NewLogistic(1.0, 100)
			if v, ok := params["C"]; ok {
				f, ok := v.(float64)
				if !ok {
					return nil, errors.NewValidationError("C", "expected a float", v)
				}
				est.C = f
			}
			if v, ok := params["max_iter"]; ok {
				n, ok := v.(int)
				if !ok {
					return nil, errors.NewValidationError("max_iter", "expected an int", v)
				}
				est.MaxIter = n
			}
			if v, ok := params["learning_rate"]; ok {
				f, ok := v.(float64)
				if !ok {
					return nil, errors.NewValidationError("learning_rate", "expected a float", v)
				}
				est.LearningRate = f
			}
			return est, nil
		},
	}
}

func init() {
	gob.Register(&Logistic{})
	optimize.RegisterSpace("LR", optimize.Space{
		optimize.NewReal("C", 1e-3, 100, 3, 1.0),
		optimize.NewInteger("max_iter", 100, 1000, 100),
	})
}
