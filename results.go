package atom

import (
	"fmt"
	"strings"
	"time"
)

// Result is one row of the run-level results ledger: everything a
// finished lifecycle produced, keyed by the model acronym.
type Result struct {
	Acronym  string
	FullName string

	MetricBO    []float64
	MetricTrain []float64
	MetricTest  []float64
	MeanBagging []float64
	StdBagging  []float64

	TimeBO      time.Duration
	TimeFit     time.Duration
	TimeBagging time.Duration
	TotalTime   time.Duration
}

// Results snapshots the lifecycle's ledger row.
func (m *Model) Results() Result {
	return Result{
		Acronym:     m.desc.Acronym,
		FullName:    m.desc.Name(),
		MetricBO:    m.metricBO,
		MetricTrain: m.metricTrain,
		MetricTest:  m.metricTest,
		MeanBagging: m.meanBagging,
		StdBagging:  m.stdBagging,
		TimeBO:      m.timeBO,
		TimeFit:     m.timeFit,
		TimeBagging: m.timeBagging,
		TotalTime:   m.timeBO + m.timeFit + m.timeBagging,
	}
}

// String renders the final summary line, see Scoring with an empty
// metric.
func (m *Model) String() string {
	return m.summary()
}

// MetricTrain returns the train-split metric vector from the last fit.
func (m *Model) MetricTrain() []float64 { return m.metricTrain }

// MetricTest returns the test-split metric vector from the last fit.
func (m *Model) MetricTest() []float64 { return m.metricTest }

// MetricBO returns the per-metric best over all search trials.
func (m *Model) MetricBO() []float64 { return m.metricBO }

// MeanBagging returns the per-metric bagging mean, nil before Bagging.
func (m *Model) MeanBagging() []float64 { return m.meanBagging }

// StdBagging returns the per-metric bagging spread, nil before Bagging.
func (m *Model) StdBagging() []float64 { return m.stdBagging }

// BaggingScores returns the raw per-round metric vectors.
func (m *Model) BaggingScores() [][]float64 { return m.baggingScores }

// String renders the ledger row for run-level reporting.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", r.Acronym, r.FullName)
	if r.MetricTest != nil {
		fmt.Fprintf(&b, " test: %v", r.MetricTest)
	}
	if r.MeanBagging != nil {
		fmt.Fprintf(&b, " bagging: %v ± %v", r.MeanBagging, r.StdBagging)
	}
	fmt.Fprintf(&b, " total time: %.3fs", r.TotalTime.Seconds())
	return b.String()
}
