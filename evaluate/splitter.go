// Package evaluate runs cross-validation and holdout evaluation for a
// single parameter set, producing the metric scores the optimizer
// consumes.
package evaluate

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Fold is one train/test index split.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter produces train/test index splits over a dataset.
type Splitter interface {
	Split(X, y mat.Matrix) []Fold
	NSplits() int
}

// KFold splits the shuffled index range into k contiguous folds.
type KFold struct {
	K    int
	Seed int64
}

func (kf KFold) NSplits() int { return kf.K }

func (kf KFold) Split(X, _ mat.Matrix) []Fold {
	nSamples, _ := X.Dims()
	indices := shuffledIndices(nSamples, kf.Seed)

	folds := make([]Fold, kf.K)
	foldSize := nSamples / kf.K
	remainder := nSamples % kf.K
	cur := 0
	for i := 0; i < kf.K; i++ {
		size := foldSize
		if i < remainder {
			size++
		}
		test := append([]int(nil), indices[cur:cur+size]...)
		folds[i] = Fold{
			TrainIndices: complement(indices, cur, cur+size),
			TestIndices:  test,
		}
		cur += size
	}
	return folds
}

// StratifiedKFold distributes every class proportionally across folds.
type StratifiedKFold struct {
	K    int
	Seed int64
}

func (skf StratifiedKFold) NSplits() int { return skf.K }

func (skf StratifiedKFold) Split(X, y mat.Matrix) []Fold {
	nSamples, _ := X.Dims()
	byClass := groupByClass(y, nSamples, skf.Seed)

	folds := make([]Fold, skf.K)
	for _, indices := range byClass {
		foldSize := len(indices) / skf.K
		remainder := len(indices) % skf.K
		cur := 0
		for i := 0; i < skf.K; i++ {
			size := foldSize
			if i < remainder {
				size++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, indices[cur:cur+size]...)
			cur += size
		}
	}
	for i := range folds {
		folds[i].TrainIndices = trainFromTest(nSamples, folds[i].TestIndices)
	}
	return folds
}

// ShuffleSplit draws a single random train/test split of the given test
// fraction.
type ShuffleSplit struct {
	TestSize float64
	Seed     int64
}

func (ss ShuffleSplit) NSplits() int { return 1 }

func (ss ShuffleSplit) Split(X, _ mat.Matrix) []Fold {
	nSamples, _ := X.Dims()
	indices := shuffledIndices(nSamples, ss.Seed)
	nTest := int(float64(nSamples) * ss.TestSize)
	if nTest < 1 {
		nTest = 1
	}
	return []Fold{{
		TrainIndices: append([]int(nil), indices[nTest:]...),
		TestIndices:  append([]int(nil), indices[:nTest]...),
	}}
}

// StratifiedShuffleSplit draws a single random split keeping class
// proportions in the test part.
type StratifiedShuffleSplit struct {
	TestSize float64
	Seed     int64
}

func (ss StratifiedShuffleSplit) NSplits() int { return 1 }

func (ss StratifiedShuffleSplit) Split(X, y mat.Matrix) []Fold {
	nSamples, _ := X.Dims()
	byClass := groupByClass(y, nSamples, ss.Seed)

	var test []int
	for _, indices := range byClass {
		nTest := int(float64(len(indices)) * ss.TestSize)
		if nTest < 1 && len(indices) > 1 {
			nTest = 1
		}
		test = append(test, indices[:nTest]...)
	}
	return []Fold{{
		TrainIndices: trainFromTest(nSamples, test),
		TestIndices:  test,
	}}
}

func shuffledIndices(n int, seed int64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

// groupByClass buckets row indices by label, shuffled within each class.
func groupByClass(y mat.Matrix, nSamples int, seed int64) map[float64][]int {
	byClass := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		byClass[label] = append(byClass[label], i)
	}
	rng := rand.New(rand.NewSource(seed))
	for label := range byClass {
		indices := byClass[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}
	return byClass
}

func complement(indices []int, lo, hi int) []int {
	out := make([]int, 0, len(indices)-(hi-lo))
	out = append(out, indices[:lo]...)
	return append(out, indices[hi:]...)
}

func trainFromTest(nSamples int, test []int) []int {
	inTest := make(map[int]bool, len(test))
	for _, idx := range test {
		inTest[idx] = true
	}
	train := make([]int, 0, nSamples-len(test))
	for i := 0; i < nSamples; i++ {
		if !inTest[i] {
			train = append(train, i)
		}
	}
	return train
}
