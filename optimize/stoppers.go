package optimize

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Progress is the search state handed to stoppers after every call.
type Progress struct {
	Start time.Time
	// Points holds the normalized positions of every evaluated point.
	Points [][]float64
	// Losses holds the minimized objective values, one per point.
	Losses []float64
}

// Stopper decides after each call whether the search should end early.
type Stopper interface {
	// Stop returns true to end the search.
	Stop(p Progress) bool
	// Name identifies the stopper in logs and results.
	Name() string
}

// DeadlineStopper ends the search once the elapsed wall time passes
// Budget.
type DeadlineStopper struct {
	Budget time.Duration
	now    func() time.Time
}

func (s DeadlineStopper) Stop(p Progress) bool {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().Sub(p.Start) >= s.Budget
}

func (s DeadlineStopper) Name() string {
	return fmt.Sprintf("deadline(%s)", s.Budget)
}

// DeltaXStopper ends the search when the last two evaluated points are
// within Delta of each other in the normalized space.
type DeltaXStopper struct {
	Delta float64
}

func (s DeltaXStopper) Stop(p Progress) bool {
	n := len(p.Points)
	if n < 2 {
		return false
	}
	return euclidean(p.Points[n-1], p.Points[n-2]) < s.Delta
}

func (s DeltaXStopper) Name() string {
	return fmt.Sprintf("delta_x(%g)", s.Delta)
}

// DeltaYStopper ends the search when the spread of the NBest best losses
// is below Delta. NBest defaults to 5.
type DeltaYStopper struct {
	Delta float64
	NBest int
}

func (s DeltaYStopper) Stop(p Progress) bool {
	nBest := s.NBest
	if nBest <= 0 {
		nBest = 5
	}
	if len(p.Losses) < nBest {
		return false
	}
	sorted := append([]float64(nil), p.Losses...)
	sort.Float64s(sorted)
	return sorted[nBest-1]-sorted[0] < s.Delta
}

func (s DeltaYStopper) Name() string {
	return fmt.Sprintf("delta_y(%g)", s.Delta)
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
