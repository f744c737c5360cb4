package evaluate

import (
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/core/parallel"
	"github.com/jaswinder9051998/ATOM/metrics"
	"github.com/jaswinder9051998/ATOM/optimize"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// Strategy fixes how one parameter set is scored during a search. With
// CV of 1 a single random holdout split is used, otherwise k-fold
// cross-validation with fold scores averaged per metric.
type Strategy struct {
	X mat.Matrix
	Y mat.Matrix

	// CV is the number of folds; 1 selects the holdout path.
	CV int

	// TestSize is the holdout fraction when CV is 1.
	TestSize float64

	// EarlyStopping, when positive and the estimator supports fitting
	// with a validation set, is the patience handed to the estimator.
	// Values below 1 are treated as a fraction of the iteration budget.
	EarlyStopping float64

	Goal    model.Goal
	Metrics []metrics.Scorer

	// NJobs bounds the number of folds fit concurrently.
	NJobs int

	// Seed is the base random state; each call derives its own seed by
	// adding the call index.
	Seed int64

	// SampleWeight, when set, is sliced per training fold and handed to
	// estimators that accept weighted fits.
	SampleWeight []float64
}

// Evaluate fits fresh estimators built by build on the splits for this
// call and returns the averaged metric scores together with the last
// fitted estimator.
func (s Strategy) Evaluate(build func() (model.Estimator, error), call int) (optimize.Evaluation, error) {
	if len(s.Metrics) == 0 {
		return optimize.Evaluation{}, errors.NewValueError("evaluate", "no metrics configured")
	}
	seed := s.Seed + int64(call)
	folds := s.splitter(seed).Split(s.X, s.Y)

	foldScores := make([][]float64, len(folds))
	estimators := make([]model.Estimator, len(folds))
	var mu sync.Mutex

	err := parallel.ForEach(len(folds), s.NJobs, func(i int) (ferr error) {
		defer errors.Recover(&ferr, "evaluate fold")
		est, err := build()
		if err != nil {
			return err
		}
		scores, err := s.runFold(est, folds[i])
		if err != nil {
			return err
		}
		mu.Lock()
		foldScores[i] = scores
		estimators[i] = est
		mu.Unlock()
		return nil
	})
	if err != nil {
		return optimize.Evaluation{}, err
	}

	// Average every metric over the folds.
	avg := make([]float64, len(s.Metrics))
	for m := range s.Metrics {
		col := make([]float64, len(folds))
		for i := range folds {
			col[i] = foldScores[i][m]
		}
		avg[m] = stat.Mean(col, nil)
	}
	return optimize.Evaluation{
		Estimator: estimators[len(estimators)-1],
		Scores:    avg,
	}, nil
}

func (s Strategy) splitter(seed int64) Splitter {
	if s.CV == 1 {
		testSize := s.TestSize
		if testSize <= 0 {
			testSize = 0.2
		}
		if s.Goal == model.Classification {
			return StratifiedShuffleSplit{TestSize: testSize, Seed: seed}
		}
		return ShuffleSplit{TestSize: testSize, Seed: seed}
	}
	if s.Goal == model.Classification {
		return StratifiedKFold{K: s.CV, Seed: seed}
	}
	return KFold{K: s.CV, Seed: seed}
}

// runFold fits est on the training part of the fold and scores it on
// the validation part.
func (s Strategy) runFold(est model.Estimator, fold Fold) ([]float64, error) {
	xTrain := SubsetRows(s.X, fold.TrainIndices)
	yTrain := SubsetRows(s.Y, fold.TrainIndices)
	xTest := SubsetRows(s.X, fold.TestIndices)
	yTest := SubsetRows(s.Y, fold.TestIndices)

	if err := s.fit(est, xTrain, yTrain, xTest, yTest, fold.TrainIndices); err != nil {
		return nil, errors.Wrap(err, "evaluate: fold fit failed")
	}

	scores := make([]float64, len(s.Metrics))
	for m, scorer := range s.Metrics {
		score, err := scorer.Score(est, xTest, vecFromColumn(yTest))
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate: scoring %s failed", scorer.Name)
		}
		scores[m] = score
	}
	return scores, nil
}

func (s Strategy) fit(est model.Estimator, xTrain, yTrain, xVal, yVal mat.Matrix, trainIdx []int) error {
	if s.EarlyStopping > 0 && s.CV == 1 {
		if vf, ok := est.(model.ValidationFitter); ok {
			_, _, err := vf.FitWithValidation(xTrain, yTrain, xVal, yVal, s.EarlyStopping)
			return err
		}
	}
	if len(s.SampleWeight) > 0 {
		if wf, ok := est.(model.WeightedFitter); ok {
			weights := make([]float64, len(trainIdx))
			for i, idx := range trainIdx {
				weights[i] = s.SampleWeight[idx]
			}
			return wf.FitWeighted(xTrain, yTrain, weights)
		}
	}
	return est.Fit(xTrain, yTrain)
}

// SubsetRows copies the given rows of m into a new dense matrix.
func SubsetRows(m mat.Matrix, indices []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(idx, j))
		}
	}
	return out
}

func vecFromColumn(m mat.Matrix) *mat.VecDense {
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
