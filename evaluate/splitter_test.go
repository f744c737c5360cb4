package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func balancedBinary(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%7))
		y.Set(i, 0, float64(i%2))
	}
	return X, y
}

func assertPartition(t *testing.T, folds []Fold, n int) {
	t.Helper()
	seen := make(map[int]int)
	for _, fold := range folds {
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
		assert.Len(t, fold.TrainIndices, n-len(fold.TestIndices))
	}
	require.Len(t, seen, n, "every row appears in exactly one test fold")
	for idx, count := range seen {
		assert.Equal(t, 1, count, "row %d", idx)
	}
}

func TestKFold(t *testing.T) {
	X, y := balancedBinary(30)
	folds := KFold{K: 3, Seed: 42}.Split(X, y)

	require.Len(t, folds, 3)
	assertPartition(t, folds, 30)
	for _, fold := range folds {
		assert.Len(t, fold.TestIndices, 10)
	}
}

func TestKFoldUnevenRows(t *testing.T) {
	X, y := balancedBinary(10)
	folds := KFold{K: 3, Seed: 1}.Split(X, y)

	assertPartition(t, folds, 10)
	// The remainder spreads over the first folds.
	assert.Len(t, folds[0].TestIndices, 4)
	assert.Len(t, folds[1].TestIndices, 3)
	assert.Len(t, folds[2].TestIndices, 3)
}

func TestKFoldDeterministic(t *testing.T) {
	X, y := balancedBinary(20)
	a := KFold{K: 4, Seed: 7}.Split(X, y)
	b := KFold{K: 4, Seed: 7}.Split(X, y)
	assert.Equal(t, a, b)
}

func TestStratifiedKFold(t *testing.T) {
	X, y := balancedBinary(30)
	folds := StratifiedKFold{K: 3, Seed: 42}.Split(X, y)

	require.Len(t, folds, 3)
	assertPartition(t, folds, 30)
	for _, fold := range folds {
		var pos int
		for _, idx := range fold.TestIndices {
			if y.At(idx, 0) == 1 {
				pos++
			}
		}
		assert.Equal(t, 5, pos, "balanced classes stay balanced per fold")
	}
}

func TestShuffleSplit(t *testing.T) {
	X, y := balancedBinary(20)
	folds := ShuffleSplit{TestSize: 0.25, Seed: 3}.Split(X, y)

	require.Len(t, folds, 1)
	assert.Len(t, folds[0].TestIndices, 5)
	assert.Len(t, folds[0].TrainIndices, 15)
}

func TestStratifiedShuffleSplit(t *testing.T) {
	X, y := balancedBinary(20)
	folds := StratifiedShuffleSplit{TestSize: 0.2, Seed: 3}.Split(X, y)

	require.Len(t, folds, 1)
	assert.Len(t, folds[0].TestIndices, 4)
	var pos int
	for _, idx := range folds[0].TestIndices {
		if y.At(idx, 0) == 1 {
			pos++
		}
	}
	assert.Equal(t, 2, pos)
}

func TestSubsetRows(t *testing.T) {
	X, _ := balancedBinary(5)
	sub := SubsetRows(X, []int{4, 0})
	assert.Equal(t, 4.0, sub.At(0, 0))
	assert.Equal(t, 0.0, sub.At(1, 0))
}
