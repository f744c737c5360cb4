package atom

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/evaluate"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// Bagging estimates the spread of the test score by refitting fresh
// clones of the final estimator on bootstrap resamples of the training
// set. Zero rounds is a no-op; the fitted handle is never touched.
func (m *Model) Bagging(rounds int) error {
	if rounds < 0 {
		return errors.NewValidationError("bagging",
			"should be equal or larger than 0", rounds)
	}
	if rounds == 0 {
		return nil
	}
	if !m.state.IsFitted() {
		return errors.NewNotFittedError(m.desc.Acronym, "Bagging")
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(m.cfg.RandomState))
	nRows, _ := m.cfg.XTrain.Dims()

	m.baggingScores = make([][]float64, 0, rounds)
	for round := 0; round < rounds; round++ {
		indices := make([]int, nRows)
		for i := range indices {
			indices[i] = rng.Intn(nRows)
		}
		est, err := m.cloneHandle()
		if err != nil {
			return err
		}
		xBoot := evaluate.SubsetRows(m.cfg.XTrain, indices)
		yBoot := evaluate.SubsetRows(m.cfg.YTrain, indices)
		if err := est.Fit(xBoot, yBoot); err != nil {
			return errors.Wrapf(err, "bagging round %d failed", round+1)
		}
		scores := make([]float64, len(m.scorers))
		for i, s := range m.scorers {
			score, err := s.Score(est, m.cfg.XTest, columnVec(m.cfg.YTest))
			if err != nil {
				return err
			}
			scores[i] = score
		}
		m.baggingScores = append(m.baggingScores, scores)
	}

	m.meanBagging = make([]float64, len(m.scorers))
	m.stdBagging = make([]float64, len(m.scorers))
	for i := range m.scorers {
		col := make([]float64, rounds)
		for r := range m.baggingScores {
			col[r] = m.baggingScores[r][i]
		}
		m.meanBagging[i] = stat.Mean(col, nil)
		m.stdBagging[i] = stat.PopStdDev(col, nil)
	}
	m.timeBagging = time.Since(start)
	m.state = model.Bagged

	m.cfg.Logger.Log("Bagging -----------------------------------------", 1)
	for i, s := range m.scorers {
		m.cfg.Logger.Logf(1, "Evaluation --> %s: %.4f ± %.4f",
			s.Name, m.meanBagging[i], m.stdBagging[i])
	}
	m.cfg.Logger.Logf(1, "Time elapsed: %.3fs", m.timeBagging.Seconds())
	return nil
}

// cloneHandle produces an unfitted estimator with the handle's
// configuration, preferring the estimator's own Clone and falling back
// to rebuilding from the selected parameters.
func (m *Model) cloneHandle() (model.Estimator, error) {
	if c, ok := m.handle.(model.Cloner); ok {
		return c.Clone(), nil
	}
	params := m.bestParams
	if params == nil {
		params = m.defaultParams()
	}
	return m.desc.Make(m.mergeParams(params))
}
