package optimize

import (
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// Surrogate approximates the objective over the normalized space and
// reports a mean and uncertainty estimate per candidate.
type Surrogate interface {
	// Fit trains the surrogate on the normalized points and their losses.
	Fit(X [][]float64, y []float64) error

	// Predict returns the estimated loss and its standard deviation.
	Predict(x []float64) (mean, std float64)
}

// NewSurrogate builds a surrogate by acronym. Supported kinds are "GP",
// "RF", "ET" and "GBRT"; the comparison is case-insensitive.
func NewSurrogate(kind string, rng *rand.Rand) (Surrogate, error) {
	switch strings.ToUpper(kind) {
	case "GP":
		return &gaussianProcess{sigma: 0.3}, nil
	case "RF":
		return &treeEnsemble{trees: 10, depth: 4, bootstrap: true, rng: rng}, nil
	case "ET":
		return &treeEnsemble{trees: 10, depth: 4, bootstrap: false, rng: rng}, nil
	case "GBRT":
		return &boostedStumps{rounds: 30, rate: 0.2}, nil
	default:
		return nil, errors.NewValidationError("base_estimator",
			"expected one of GP, RF, ET, GBRT", kind)
	}
}

// gaussianProcess is a kernel regression surrogate. The mean is an
// RBF-weighted average of observed losses and the uncertainty shrinks
// as candidates approach observed points.
type gaussianProcess struct {
	x     [][]float64
	y     []float64
	yStd  float64
	sigma float64
}

func (gp *gaussianProcess) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.ErrEmptyData
	}
	gp.x = X
	gp.y = y
	gp.yStd = stat.PopStdDev(y, nil)
	if gp.yStd == 0 {
		gp.yStd = 1
	}
	return nil
}

func (gp *gaussianProcess) kernel(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Exp(-sum / (2 * gp.sigma * gp.sigma))
}

func (gp *gaussianProcess) Predict(x []float64) (float64, float64) {
	var wSum, wySum, wMax float64
	for i := range gp.x {
		w := gp.kernel(x, gp.x[i])
		wSum += w
		wySum += w * gp.y[i]
		if w > wMax {
			wMax = w
		}
	}
	if wSum == 0 {
		return stat.Mean(gp.y, nil), gp.yStd
	}
	// Far from every observation wMax tends to 0 and the uncertainty
	// approaches the observed spread; on top of an observation it
	// vanishes.
	return wySum / wSum, gp.yStd * (1 - wMax)
}

// treeEnsemble is a forest of randomized regression trees. With
// bootstrap sampling it behaves like a random forest, without it like
// extremely randomized trees. The prediction spread across trees is the
// uncertainty estimate.
type treeEnsemble struct {
	trees     int
	depth     int
	bootstrap bool
	rng       *rand.Rand
	roots     []*treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

func (t *treeEnsemble) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.ErrEmptyData
	}
	t.roots = make([]*treeNode, t.trees)
	for i := range t.roots {
		xs, ys := X, y
		if t.bootstrap {
			xs = make([][]float64, len(X))
			ys = make([]float64, len(y))
			for j := range xs {
				k := t.rng.Intn(len(X))
				xs[j], ys[j] = X[k], y[k]
			}
		}
		t.roots[i] = t.grow(xs, ys, t.depth)
	}
	return nil
}

func (t *treeEnsemble) grow(X [][]float64, y []float64, depth int) *treeNode {
	if depth == 0 || len(y) < 2 {
		return &treeNode{feature: -1, value: stat.Mean(y, nil)}
	}
	feature := t.rng.Intn(len(X[0]))
	lo, hi := X[0][feature], X[0][feature]
	for _, row := range X {
		if row[feature] < lo {
			lo = row[feature]
		}
		if row[feature] > hi {
			hi = row[feature]
		}
	}
	if hi == lo {
		return &treeNode{feature: -1, value: stat.Mean(y, nil)}
	}
	threshold := lo + t.rng.Float64()*(hi-lo)
	var lX, rX [][]float64
	var lY, rY []float64
	for i, row := range X {
		if row[feature] < threshold {
			lX, lY = append(lX, row), append(lY, y[i])
		} else {
			rX, rY = append(rX, row), append(rY, y[i])
		}
	}
	if len(lY) == 0 || len(rY) == 0 {
		return &treeNode{feature: -1, value: stat.Mean(y, nil)}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(lX, lY, depth-1),
		right:     t.grow(rX, rY, depth-1),
	}
}

func (n *treeNode) eval(x []float64) float64 {
	for n.feature >= 0 {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func (t *treeEnsemble) Predict(x []float64) (float64, float64) {
	preds := make([]float64, len(t.roots))
	for i, root := range t.roots {
		preds[i] = root.eval(x)
	}
	return stat.Mean(preds, nil), stat.PopStdDev(preds, nil)
}

// boostedStumps is a gradient-boosted ensemble of depth-one trees fit on
// residuals. The residual RMSE after the final round serves as a
// constant uncertainty estimate.
type boostedStumps struct {
	rounds int
	rate   float64
	base   float64
	stumps []stump
	std    float64
}

type stump struct {
	feature   int
	threshold float64
	left      float64
	right     float64
}

func (b *boostedStumps) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.ErrEmptyData
	}
	b.base = stat.Mean(y, nil)
	b.stumps = b.stumps[:0]
	residual := make([]float64, len(y))
	for i, v := range y {
		residual[i] = v - b.base
	}
	for round := 0; round < b.rounds; round++ {
		s, ok := bestStump(X, residual)
		if !ok {
			break
		}
		b.stumps = append(b.stumps, s)
		for i, row := range X {
			residual[i] -= b.rate * s.eval(row)
		}
	}
	var sq float64
	for _, r := range residual {
		sq += r * r
	}
	b.std = math.Sqrt(sq / float64(len(residual)))
	return nil
}

// bestStump picks the single threshold split minimizing squared error.
func bestStump(X [][]float64, y []float64) (stump, bool) {
	bestErr := math.Inf(1)
	var bestS stump
	found := false
	for f := 0; f < len(X[0]); f++ {
		for _, row := range X {
			threshold := row[f]
			var lSum, rSum float64
			var lN, rN int
			for i, r := range X {
				if r[f] < threshold {
					lSum, lN = lSum+y[i], lN+1
				} else {
					rSum, rN = rSum+y[i], rN+1
				}
			}
			if lN == 0 || rN == 0 {
				continue
			}
			lMean, rMean := lSum/float64(lN), rSum/float64(rN)
			var sq float64
			for i, r := range X {
				if r[f] < threshold {
					sq += (y[i] - lMean) * (y[i] - lMean)
				} else {
					sq += (y[i] - rMean) * (y[i] - rMean)
				}
			}
			if sq < bestErr {
				bestErr = sq
				bestS = stump{feature: f, threshold: threshold, left: lMean, right: rMean}
				found = true
			}
		}
	}
	return bestS, found
}

func (s stump) eval(x []float64) float64 {
	if x[s.feature] < s.threshold {
		return s.left
	}
	return s.right
}

func (b *boostedStumps) Predict(x []float64) (float64, float64) {
	pred := b.base
	for _, s := range b.stumps {
		pred += b.rate * s.eval(x)
	}
	return pred, b.std
}
