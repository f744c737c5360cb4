package optimize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadraticObjective(optimum float64) Objective {
	return func(call int, params map[string]interface{}) (Evaluation, error) {
		x := params["x"].(float64)
		// Score peaks at the optimum; the driver maximizes.
		return Evaluation{Scores: []float64{-(x - optimum) * (x - optimum)}}, nil
	}
}

func testSpace() Space {
	return Space{NewReal("x", -5, 5, 4, 1.0)}
}

func TestRunTrialCount(t *testing.T) {
	result, err := Run(testSpace(), quadraticObjective(2), 12, 5, Options{Seed: 42}, nil)
	require.NoError(t, err)
	assert.Len(t, result.Trials, 12)
	assert.Empty(t, result.Stopped)

	for i, trial := range result.Trials {
		assert.Equal(t, i+1, trial.Call)
		assert.Len(t, trial.Scores, 1)
	}
}

func TestRunBestIsMonotone(t *testing.T) {
	result, err := Run(testSpace(), quadraticObjective(0), 15, 5, Options{Seed: 7}, nil)
	require.NoError(t, err)

	running := math.Inf(-1)
	for _, trial := range result.Trials {
		if trial.Scores[0] > running {
			running = trial.Scores[0]
		}
		assert.GreaterOrEqual(t, running, trial.Scores[0])
	}
	assert.Equal(t, running, result.BestScore)
}

func TestRunSingleCallUsesDefaults(t *testing.T) {
	result, err := Run(testSpace(), quadraticObjective(2), 1, 1, Options{Seed: 1}, nil)
	require.NoError(t, err)
	require.Len(t, result.Trials, 1)
	assert.Equal(t, 1.0, result.BestParams["x"])
	assert.Equal(t, 1, result.BestCall)
}

func TestRunBestTieBreaksEarliest(t *testing.T) {
	constant := func(call int, params map[string]interface{}) (Evaluation, error) {
		return Evaluation{Scores: []float64{1.0}}, nil
	}
	result, err := Run(testSpace(), constant, 5, 2, Options{Seed: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BestCall)
}

func TestRunValidation(t *testing.T) {
	obj := quadraticObjective(0)
	tests := []struct {
		name           string
		nCalls, nInit  int
		opts           Options
	}{
		{"zero initial points", 5, 0, Options{}},
		{"calls below initial points", 2, 5, Options{}},
		{"unknown surrogate", 5, 2, Options{BaseEstimator: "XGB"}},
		{"negative delta_x", 5, 2, Options{DeltaX: -1}},
		{"negative delta_y", 5, 2, Options{DeltaY: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(testSpace(), obj, tt.nCalls, tt.nInit, tt.opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestRunPropagatesObjectiveError(t *testing.T) {
	boom := func(call int, params map[string]interface{}) (Evaluation, error) {
		return Evaluation{}, assert.AnError
	}
	_, err := Run(testSpace(), boom, 3, 1, Options{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRunSurrogates(t *testing.T) {
	for _, kind := range []string{"GP", "RF", "ET", "GBRT", "gp"} {
		t.Run(kind, func(t *testing.T) {
			result, err := Run(testSpace(), quadraticObjective(1), 10, 4,
				Options{BaseEstimator: kind, Seed: 11}, nil)
			require.NoError(t, err)
			assert.Len(t, result.Trials, 10)
		})
	}
}

func TestDeadlineStopper(t *testing.T) {
	slow := func(call int, params map[string]interface{}) (Evaluation, error) {
		time.Sleep(5 * time.Millisecond)
		return Evaluation{Scores: []float64{0}}, nil
	}
	result, err := Run(testSpace(), slow, 100, 2,
		Options{MaxTime: time.Millisecond, Seed: 5}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Stopped)
	assert.Less(t, len(result.Trials), 100)
}

func TestDeltaYStopper(t *testing.T) {
	// A constant objective makes the five best losses identical, so the
	// stopper fires at the fifth call.
	constant := func(call int, params map[string]interface{}) (Evaluation, error) {
		return Evaluation{Scores: []float64{1.0}}, nil
	}
	result, err := Run(testSpace(), constant, 50, 3, Options{DeltaY: 0.01, Seed: 5}, nil)
	require.NoError(t, err)
	assert.Len(t, result.Trials, 5)
	assert.Equal(t, "delta_y(0.01)", result.Stopped)
}

func TestDeltaXStopperProgress(t *testing.T) {
	s := DeltaXStopper{Delta: 0.1}
	p := Progress{Points: [][]float64{{0.5}, {0.55}}}
	assert.True(t, s.Stop(p))

	p.Points = [][]float64{{0.1}, {0.9}}
	assert.False(t, s.Stop(p))

	p.Points = [][]float64{{0.1}}
	assert.False(t, s.Stop(p))
}

func TestExpectedImprovement(t *testing.T) {
	// A candidate predicted well below the best loss with confidence
	// beats an uncertain one predicted at the best loss.
	confident := expectedImprovement(-1, 0.1, 0)
	uncertain := expectedImprovement(0, 0.1, 0)
	assert.Greater(t, confident, uncertain)

	assert.Equal(t, 0.0, expectedImprovement(0, 0, 0))
}
