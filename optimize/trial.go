package optimize

import (
	"time"

	"github.com/jaswinder9051998/ATOM/core/model"
)

// Evaluation is what one objective call produced: the fitted estimator
// snapshot and the metric scores in the caller's metric order.
type Evaluation struct {
	Estimator model.Estimator
	Scores    []float64
}

// Objective evaluates one decoded parameter set. The call index is
// 1-based and lets the objective derive a per-iteration seed.
type Objective func(call int, params map[string]interface{}) (Evaluation, error)

// Trial is one row of the optimization ledger.
type Trial struct {
	Call      int
	Params    map[string]interface{}
	Estimator model.Estimator
	Scores    []float64
	// Duration is the time spent inside the objective for this call.
	Duration time.Duration
	// Elapsed is the total time since the search started.
	Elapsed time.Duration
}

// Loss is the minimized value for this trial, the negated primary score.
func (t Trial) Loss() float64 { return -t.Scores[0] }

// Result is the outcome of a search.
type Result struct {
	Trials []Trial
	// BestParams belong to the trial with the highest primary score;
	// ties resolve to the earliest call.
	BestParams map[string]interface{}
	BestScore  float64
	BestCall   int
	// Duration is the wall time of the whole search.
	Duration time.Duration
	// Stopped names the stopper that ended the search early, empty when
	// the search ran all calls.
	Stopped string
}

// best scans the trials for the maximum primary score with earliest-call
// tie breaking.
func best(trials []Trial) (int, float64) {
	idx, score := 0, trials[0].Scores[0]
	for i, t := range trials[1:] {
		if t.Scores[0] > score {
			idx, score = i+1, t.Scores[0]
		}
	}
	return idx, score
}
