package optimize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surrogateTrainingSet() ([][]float64, []float64) {
	X := [][]float64{{0.0}, {0.25}, {0.5}, {0.75}, {1.0}}
	y := []float64{1.0, 0.5, 0.0, 0.5, 1.0}
	return X, y
}

func TestNewSurrogate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, kind := range []string{"GP", "gp", "RF", "ET", "GBRT"} {
		s, err := NewSurrogate(kind, rng)
		require.NoError(t, err, kind)
		assert.NotNil(t, s)
	}

	_, err := NewSurrogate("SVM", rng)
	assert.Error(t, err)
}

func TestSurrogatePredictions(t *testing.T) {
	X, y := surrogateTrainingSet()
	rng := rand.New(rand.NewSource(7))

	for _, kind := range []string{"GP", "RF", "ET", "GBRT"} {
		t.Run(kind, func(t *testing.T) {
			s, err := NewSurrogate(kind, rng)
			require.NoError(t, err)
			require.NoError(t, s.Fit(X, y))

			mean, std := s.Predict([]float64{0.5})
			assert.GreaterOrEqual(t, std, 0.0)
			// The minimum sits at 0.5; the estimate should land in the
			// observed range.
			assert.GreaterOrEqual(t, mean, -0.1)
			assert.LessOrEqual(t, mean, 1.1)
		})
	}
}

func TestSurrogateRejectsEmptyData(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, kind := range []string{"GP", "RF", "GBRT"} {
		s, err := NewSurrogate(kind, rng)
		require.NoError(t, err)
		assert.Error(t, s.Fit(nil, nil), kind)
	}
}

func TestGaussianProcessUncertaintyShrinksNearData(t *testing.T) {
	X, y := surrogateTrainingSet()
	gp := &gaussianProcess{sigma: 0.1}
	require.NoError(t, gp.Fit(X, y))

	_, stdAt := gp.Predict([]float64{0.5})
	_, stdFar := gp.Predict([]float64{5.0})
	assert.Less(t, stdAt, stdFar)
}
