package linear

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/optimize"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

func TestRidgeFitPredict(t *testing.T) {
	// y = 2x + 1, exactly recoverable without regularization.
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 3, 5, 7})

	est := NewRidge(0)
	require.NoError(t, est.Fit(X, y))
	assert.True(t, est.IsFitted())
	assert.InDelta(t, 2.0, est.Weights[0], 1e-8)
	assert.InDelta(t, 1.0, est.Intercept, 1e-8)

	pred, err := est.Predict(mat.NewDense(2, 1, []float64{4, 5}))
	require.NoError(t, err)
	assert.InDelta(t, 9.0, pred.At(0, 0), 1e-8)
	assert.InDelta(t, 11.0, pred.At(1, 0), 1e-8)

	score, err := est.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-8)
}

func TestRidgeRegularizationShrinksWeights(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 3, 5, 7})

	plain := NewRidge(0)
	require.NoError(t, plain.Fit(X, y))
	shrunk := NewRidge(10)
	require.NoError(t, shrunk.Fit(X, y))

	assert.Less(t, math.Abs(shrunk.Weights[0]), math.Abs(plain.Weights[0]))
}

func TestRidgePredictBeforeFit(t *testing.T) {
	_, err := NewRidge(1).Predict(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)

	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestRidgeFitWeighted(t *testing.T) {
	// Outlier carries no weight, so the clean line is recovered.
	X := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	y := mat.NewDense(5, 1, []float64{1, 3, 5, 7, 100})

	est := NewRidge(0)
	require.NoError(t, est.FitWeighted(X, y, []float64{1, 1, 1, 1, 0}))
	assert.InDelta(t, 2.0, est.Weights[0], 1e-6)

	err := est.FitWeighted(X, y, []float64{1, 1})
	assert.Error(t, err)
}

func TestRidgeClone(t *testing.T) {
	est := NewRidge(2.5)
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewDense(3, 1, []float64{0, 2, 4})
	require.NoError(t, est.Fit(X, y))

	clone, ok := est.Clone().(*Ridge)
	require.True(t, ok)
	assert.Equal(t, 2.5, clone.Alpha)
	assert.False(t, clone.IsFitted())
	assert.Nil(t, clone.Weights)
}

func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 1, []float64{-5, -4, -3, -2, -1, 1, 2, 3, 4, 5})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})
	return X, y
}

func TestLogisticFitPredict(t *testing.T) {
	X, y := separableData()
	est := NewLogistic(1.0, 500)
	require.NoError(t, est.Fit(X, y))

	pred, err := est.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.Equal(t, y.At(i, 0), pred.At(i, 0), "row %d", i)
	}

	acc, err := est.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestLogisticProba(t *testing.T) {
	X, y := separableData()
	est := NewLogistic(1.0, 500)
	require.NoError(t, est.Fit(X, y))

	proba, err := est.PredictProba(X)
	require.NoError(t, err)
	rows, cols := proba.Dims()
	assert.Equal(t, 10, rows)
	assert.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-10)
	}
	assert.Greater(t, proba.At(9, 1), 0.5, "strong positive gets high probability")
	assert.Less(t, proba.At(0, 1), 0.5, "strong negative gets low probability")

	logProba, err := est.PredictLogProba(X)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(proba.At(9, 1)), logProba.At(9, 1), 1e-10)
}

func TestLogisticDecisionFunction(t *testing.T) {
	X, y := separableData()
	est := NewLogistic(1.0, 500)
	require.NoError(t, est.Fit(X, y))

	scores, err := est.DecisionFunction(X)
	require.NoError(t, err)
	assert.Less(t, scores.At(0, 0), 0.0)
	assert.Greater(t, scores.At(9, 0), 0.0)
}

func TestLogisticRejectsNonBinaryLabels(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{0, 1, 2})
	err := NewLogistic(1.0, 10).Fit(X, y)
	assert.Error(t, err)
}

func TestLogisticEarlyStopping(t *testing.T) {
	X, y := separableData()
	est := NewLogistic(1.0, 1000)

	stopped, limit, err := est.FitWithValidation(X, y, X, y, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 1000, limit)
	assert.Greater(t, stopped, 0)
	assert.True(t, est.IsFitted())

	_, _, err = est.FitWithValidation(X, y, X, y, 0)
	assert.Error(t, err)
}

func TestDescriptors(t *testing.T) {
	for _, desc := range []model.Descriptor{RidgeDescriptor(), LogisticDescriptor()} {
		t.Run(desc.Acronym, func(t *testing.T) {
			require.NoError(t, desc.Validate())
			space, ok := optimize.DefaultSpace(desc.Acronym)
			require.True(t, ok)
			for _, name := range space.Names() {
				assert.True(t, desc.HasParam(name), name)
			}
			est, err := desc.Make(space.Defaults())
			require.NoError(t, err)
			assert.NotNil(t, est)
		})
	}

	t.Run("bad parameter type", func(t *testing.T) {
		_, err := RidgeDescriptor().Make(map[string]interface{}{"alpha": "high"})
		assert.Error(t, err)
	})
}

func TestRidgeGobRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 3, 5, 7})
	est := NewRidge(0.5)
	require.NoError(t, est.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, model.SaveEstimatorToWriter(est, &buf))

	restored := &Ridge{}
	require.NoError(t, model.LoadEstimatorFromReader(restored, &buf))
	assert.Equal(t, est.Weights, restored.Weights)
	assert.Equal(t, est.Intercept, restored.Intercept)
	assert.True(t, restored.IsFitted())

	want, err := est.Predict(X)
	require.NoError(t, err)
	got, err := restored.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestPredictLargeInputMatchesFormula(t *testing.T) {
	// Enough rows to cross the chunked-prediction threshold.
	est := NewRidge(0)
	require.NoError(t, est.Fit(
		mat.NewDense(4, 1, []float64{0, 1, 2, 3}),
		mat.NewDense(4, 1, []float64{1, 3, 5, 7}),
	))

	rows := 4096
	X := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		X.Set(i, 0, float64(i)/100)
	}
	pred, err := est.Predict(X)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 2*X.At(i, 0)+1, pred.At(i, 0), 1e-9, "row %d", i)
	}
}
