package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 1, 0, 1})
	yPred := mat.NewVecDense(4, []float64{0, 1, 1, 1})

	acc, err := Accuracy(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-10)
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := mat.NewVecDense(5, []float64{0, 1, 0, 1, 1})
	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 0, 1})

	cm, err := ConfusionMatrix(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cm.At(0, 0), "tn")
	assert.Equal(t, 1.0, cm.At(0, 1), "fp")
	assert.Equal(t, 1.0, cm.At(1, 0), "fn")
	assert.Equal(t, 2.0, cm.At(1, 1), "tp")

	t.Run("non-binary labels rejected", func(t *testing.T) {
		bad := mat.NewVecDense(3, []float64{0, 1, 2})
		pred := mat.NewVecDense(3, []float64{0, 1, 1})
		_, err := ConfusionMatrix(bad, pred)
		assert.Error(t, err)
	})
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := mat.NewVecDense(5, []float64{0, 1, 0, 1, 1})
	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 0, 1})

	precision, err := Precision(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, precision, 1e-10)

	recall, err := Recall(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, recall, 1e-10)

	f1, err := F1(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, f1, 1e-10)

	t.Run("zero division returns zero", func(t *testing.T) {
		allNeg := mat.NewVecDense(3, []float64{0, 0, 0})
		precision, err := Precision(mat.NewVecDense(3, []float64{1, 0, 0}), allNeg)
		require.NoError(t, err)
		assert.Equal(t, 0.0, precision)
	})
}

func TestAUC(t *testing.T) {
	t.Run("perfect separation", func(t *testing.T) {
		yTrue := mat.NewVecDense(4, []float64{0, 0, 1, 1})
		scores := mat.NewVecDense(4, []float64{0.1, 0.2, 0.8, 0.9})
		auc, err := AUC(yTrue, scores)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, auc, 1e-10)
	})

	t.Run("partial overlap", func(t *testing.T) {
		yTrue := mat.NewVecDense(4, []float64{0, 1, 0, 1})
		scores := mat.NewVecDense(4, []float64{0.1, 0.4, 0.5, 0.8})
		auc, err := AUC(yTrue, scores)
		require.NoError(t, err)
		assert.InDelta(t, 0.75, auc, 1e-10)
	})

	t.Run("single class present", func(t *testing.T) {
		yTrue := mat.NewVecDense(3, []float64{1, 1, 1})
		scores := mat.NewVecDense(3, []float64{0.2, 0.5, 0.8})
		auc, err := AUC(yTrue, scores)
		require.NoError(t, err)
		assert.Equal(t, 0.5, auc)
	})
}

func TestLogLoss(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{1, 0})
	proba := mat.NewVecDense(2, []float64{1, 0})

	// Clipping keeps perfectly confident predictions finite.
	loss, err := LogLoss(yTrue, proba)
	require.NoError(t, err)
	assert.Less(t, loss, 1e-10)
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	mse, err := MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, mse, 1e-10)

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rmse, 1e-10)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mae, 1e-10)

	r2, err := R2Score(yTrue, yTrue)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-10)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"auc", "roc_auc"},
		{"logloss", "neg_log_loss"},
		{"ce", "neg_log_loss"},
		{"mse", "neg_mean_squared_error"},
		{"acc", "accuracy"},
		{"f1", "f1"},
	}
	for _, tt := range tests {
		name, ok := Resolve(tt.alias)
		require.True(t, ok, tt.alias)
		assert.Equal(t, tt.want, name)
	}

	_, ok := Resolve("nope")
	assert.False(t, ok)
}

func TestGet(t *testing.T) {
	scorer, err := Get("mse")
	require.NoError(t, err)
	assert.Equal(t, "neg_mean_squared_error", scorer.Name)

	// Loss metrics flip sign so every scorer maximizes.
	yTrue := mat.NewVecDense(2, []float64{0, 1})
	yPred := mat.NewVecDense(2, []float64{0, 0})
	score, err := scorer.FromPredictions(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, score, 1e-10)

	_, err = Get("unknown_metric")
	assert.Error(t, err)
}
