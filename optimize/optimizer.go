package optimize

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
	"github.com/jaswinder9051998/ATOM/pkg/log"
)

// Options tune the search loop. The zero value selects a Gaussian
// process surrogate with no early stopping.
type Options struct {
	// BaseEstimator picks the surrogate: GP, RF, ET or GBRT.
	BaseEstimator string

	// MaxTime stops the search once the elapsed wall time exceeds it.
	MaxTime time.Duration

	// DeltaX stops the search when consecutive proposals are closer
	// than this in the normalized space.
	DeltaX float64

	// DeltaY stops the search when the five best losses lie within
	// this range.
	DeltaY float64

	// NCandidates is the number of random candidates scored by the
	// acquisition rule per iteration. Defaults to 250.
	NCandidates int

	// Stoppers are additional custom stopping callbacks.
	Stoppers []Stopper

	// Seed feeds the sampler so searches reproduce.
	Seed int64
}

func (o Options) validate() error {
	if o.MaxTime < 0 {
		return errors.NewValidationError("max_time", "should be a positive duration", o.MaxTime)
	}
	if o.DeltaX < 0 {
		return errors.NewValidationError("delta_x", "should be equal or larger than 0", o.DeltaX)
	}
	if o.DeltaY < 0 {
		return errors.NewValidationError("delta_y", "should be equal or larger than 0", o.DeltaY)
	}
	return nil
}

func (o Options) stoppers() []Stopper {
	var stoppers []Stopper
	if o.MaxTime > 0 {
		stoppers = append(stoppers, DeadlineStopper{Budget: o.MaxTime})
	}
	if o.DeltaX > 0 {
		stoppers = append(stoppers, DeltaXStopper{Delta: o.DeltaX})
	}
	if o.DeltaY > 0 {
		stoppers = append(stoppers, DeltaYStopper{Delta: o.DeltaY})
	}
	return append(stoppers, o.Stoppers...)
}

// Run performs a sequential model-based search over space. The first
// nInitialPoints calls sample at random, except that a single initial
// point starts from the dimension defaults. Remaining calls propose the
// candidate maximizing expected improvement under the surrogate.
func Run(space Space, obj Objective, nCalls, nInitialPoints int, opts Options, logger *log.Logger) (Result, error) {
	if nInitialPoints < 1 {
		return Result{}, errors.NewValidationError("n_initial_points",
			"should be equal or larger than 1", nInitialPoints)
	}
	if nCalls < nInitialPoints {
		return Result{}, errors.NewValidationError("n_calls",
			"should be equal or larger than n_initial_points", nCalls)
	}
	if len(space) == 0 {
		return Result{}, errors.NewValueError("optimize", "search space has no dimensions")
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	base := opts.BaseEstimator
	if base == "" {
		base = "GP"
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	surrogate, err := NewSurrogate(base, rng)
	if err != nil {
		return Result{}, err
	}
	nCandidates := opts.NCandidates
	if nCandidates <= 0 {
		nCandidates = 250
	}
	stoppers := opts.stoppers()

	start := time.Now()
	progress := Progress{Start: start}
	trials := make([]Trial, 0, nCalls)
	var stopped string

	for call := 1; call <= nCalls; call++ {
		var x []float64
		switch {
		case call == 1 && nInitialPoints == 1:
			x, err = space.DefaultPoint()
			if err != nil {
				return Result{}, err
			}
		case call <= nInitialPoints:
			x = space.Sample(rng)
		default:
			x = propose(space, surrogate, progress, nCandidates, rng)
		}

		params := space.Decode(x)
		callStart := time.Now()
		eval, err := obj(call, params)
		if err != nil {
			return Result{}, errors.Wrapf(err, "optimize: call %d failed", call)
		}
		duration := time.Since(callStart)
		trial := Trial{
			Call:      call,
			Params:    params,
			Estimator: eval.Estimator,
			Scores:    eval.Scores,
			Duration:  duration,
			Elapsed:   time.Since(start),
		}
		trials = append(trials, trial)
		progress.Points = append(progress.Points, space.Normalize(x))
		progress.Losses = append(progress.Losses, trial.Loss())

		_, bestScore := best(trials)
		logTrial(logger, trial, call <= nInitialPoints, bestScore)

		if name, stop := checkStoppers(stoppers, progress); stop {
			stopped = name
			logger.Event(2).Str(log.OperationKey, "optimize").
				Str("stopper", name).Int(log.CallKey, call).
				Msg("search stopped early")
			break
		}
	}

	bestIdx, bestScore := best(trials)
	return Result{
		Trials:     trials,
		BestParams: trials[bestIdx].Params,
		BestScore:  bestScore,
		BestCall:   trials[bestIdx].Call,
		Duration:   time.Since(start),
		Stopped:    stopped,
	}, nil
}

// propose fits the surrogate on everything seen so far and returns the
// random candidate with the highest expected improvement.
func propose(space Space, surrogate Surrogate, p Progress, nCandidates int, rng *rand.Rand) []float64 {
	if err := surrogate.Fit(p.Points, p.Losses); err != nil {
		return space.Sample(rng)
	}
	bestLoss := p.Losses[0]
	for _, l := range p.Losses[1:] {
		if l < bestLoss {
			bestLoss = l
		}
	}
	bestEI := math.Inf(-1)
	var bestX []float64
	for c := 0; c < nCandidates; c++ {
		x := space.Sample(rng)
		mean, std := surrogate.Predict(space.Normalize(x))
		if ei := expectedImprovement(mean, std, bestLoss); ei > bestEI {
			bestEI, bestX = ei, x
		}
	}
	return bestX
}

func checkStoppers(stoppers []Stopper, p Progress) (string, bool) {
	for _, s := range stoppers {
		if s.Stop(p) {
			return s.Name(), true
		}
	}
	return "", false
}

func logTrial(logger *log.Logger, t Trial, initial bool, bestScore float64) {
	label := "Iteration"
	if initial {
		label = "Initial point"
	}
	logger.Log(fmt.Sprintf("%s %d %s", label, t.Call,
		strings.Repeat("-", 33)), 2)
	logger.Log("Parameters: "+formatParams(t.Params), 2)
	logger.Log(fmt.Sprintf("Evaluation --> score: %.4f  Best score: %.4f",
		t.Scores[0], bestScore), 2)
	logger.Log(fmt.Sprintf("Time iteration: %.3fs   Total time: %.3fs",
		t.Duration.Seconds(), t.Elapsed.Seconds()), 2)
}

// formatParams renders a parameter map with sorted keys so log output
// is stable.
func formatParams(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, params[k])
	}
	b.WriteByte('}')
	return b.String()
}
