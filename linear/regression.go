// Package linear provides the built-in estimators: a ridge-regularized
// linear regressor and a binary logistic classifier, with descriptors
// and default hyperparameter spaces registered for the tuning layer.
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

// Row count above which prediction loops fan out across CPU cores.
const predictParallelThreshold = 1000

// Ridge is a linear regressor with L2 regularization. Learned
// parameters are plain exported fields so fitted models survive a gob
// round trip.
type Ridge struct {
	model.BaseEstimator

	// Alpha is the L2 penalty strength. Zero gives ordinary least
	// squares.
	Alpha float64

	Weights   []float64
	Intercept float64
}

// NewRidge builds an unfitted regressor with the given penalty.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

// Fit solves the regularized normal equations.
func (r *Ridge) Fit(X, y mat.Matrix) error {
	return r.fit(X, y, nil)
}

// FitWeighted solves the normal equations with per-sample weights.
func (r *Ridge) FitWeighted(X, y mat.Matrix, sampleWeight []float64) error {
	rows, _ := X.Dims()
	if sampleWeight != nil && len(sampleWeight) != rows {
		return errors.NewDimensionError("Ridge.FitWeighted", rows, len(sampleWeight), 0)
	}
	return r.fit(X, y, sampleWeight)
}

func (r *Ridge) fit(X, y mat.Matrix, sampleWeight []float64) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if yRows != rows {
		return errors.NewDimensionError("Ridge.Fit", rows, yRows, 0)
	}

	// Augment with a bias column, then solve (A'WA + alpha*I) w = A'Wb.
	a := mat.NewDense(rows, cols+1, nil)
	b := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		w := 1.0
		if sampleWeight != nil {
			w = math.Sqrt(sampleWeight[i])
		}
		for j := 0; j < cols; j++ {
			a.Set(i, j, w*X.At(i, j))
		}
		a.Set(i, cols, w)
		b.SetVec(i, w*y.At(i, 0))
	}

	var gram mat.Dense
	gram.Mul(a.T(), a)
	for j := 0; j <= cols; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(a.T(), b)

	var sol mat.VecDense
	if err := sol.SolveVec(&gram, &rhs); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, "Ridge.Fit")
	}

	r.Weights = make([]float64, cols)
	for j := 0; j < cols; j++ {
		r.Weights[j] = sol.AtVec(j)
	}
	r.Intercept = sol.AtVec(cols)
	r.SetFitted()
	return nil
}

// Predict returns the fitted linear response for each row.
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}
	rows, cols := X.Dims()
	if cols != len(r.Weights) {
		return nil, errors.NewDimensionError("Ridge.Predict", len(r.Weights), cols, 1)
	}
	out := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			sum := r.Intercept
			for j := 0; j < cols; j++ {
				sum += r.Weights[j] * X.At(i, j)
			}
			out.Set(i, 0, sum)
		}
	})
	return out, nil
}

// Score returns the coefficient of determination on (X, y).
func (r *Ridge) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
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
	return metrics.R2Score(yVec, pVec)
}

// Clone returns an unfitted copy carrying the hyperparameters.
func (r *Ridge) Clone() model.Estimator {
	return &Ridge{Alpha: r.Alpha}
}

// RidgeDescriptor describes the regressor for the model registry.
func RidgeDescriptor() model.Descriptor {
	return model.Descriptor{
		Acronym:      "Ridge",
		FullName:     "Ridge regression",
		NeedsScaling: true,
		Explainer:    model.LinearExplainer,
		Params:       []string{"alpha"},
		Make: func(params map[string]interface{}) (model.Estimator, error) {
			est := NewRidge(1.0)
			if v, ok := params["alpha"]; ok {
				f, ok := v.(float64)
				if !ok {
					return nil, errors.NewValidationError("alpha", "expected a float", v)
				}
				est.Alpha = f
			}
			return est, nil
		},
	}
}

func init() {
	// Registered so fitted regressors survive serialization behind an
	// interface field.
	gob.Register(&Ridge{})
	optimize.RegisterSpace("Ridge", optimize.Space{
		optimize.NewReal("alpha", 1e-3, 10, 3, 1.0),
	})
}
