package atom

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/jaswinder9051998/ATOM/metrics"
)

// Scoring answers reporting queries. With an empty metric it returns
// the final result summary string, annotated with "~" when the train
// score beats the test score by more than 20 percent relative.
// Otherwise it resolves the metric, including the confusion matrix and
// its derived counts, and computes it from cached predictions on the
// chosen dataset ("train" or "test", default "test"). Queries that
// cannot be answered return a descriptive string instead of an error;
// this path is informational only.
func (m *Model) Scoring(metric, dataset string) interface{} {
	if metric == "" {
		return m.summary()
	}
	if m.handle == nil || !m.state.IsFitted() {
		return "metrics are only available for fitted models"
	}
	if dataset == "" {
		dataset = "test"
	}
	if dataset != "train" && dataset != "test" {
		return fmt.Sprintf("unknown dataset: %s, choose train or test", dataset)
	}

	yTrue := columnVec(m.cfg.YTrain)
	if dataset == "test" {
		yTrue = columnVec(m.cfg.YTest)
	}

	switch strings.ToLower(metric) {
	case "cm", "confusion_matrix":
		cm, err := m.confusion(dataset, yTrue)
		if err != nil {
			return err.Error()
		}
		return cm
	case "tn", "fp", "fn", "tp", "lift", "fpr", "tpr", "sup":
		cm, err := m.confusion(dataset, yTrue)
		if err != nil {
			return err.Error()
		}
		return derivedFromConfusion(strings.ToLower(metric), cm)
	}

	name, ok := metrics.Resolve(metric)
	if !ok {
		return fmt.Sprintf("unknown metric: %s", metric)
	}
	scorer, err := metrics.Get(name)
	if err != nil {
		return err.Error()
	}
	yPred, err := m.predictionsFor(scorer.Kind, dataset)
	if err != nil {
		return fmt.Sprintf("metric %s is not available for this model: %s", name, err)
	}
	score, err := scorer.FromPredictions(yTrue, yPred)
	if err != nil {
		return fmt.Sprintf("metric %s failed on the %s set: %s", name, dataset, err)
	}
	return score
}

// predictionsFor returns the cached prediction vector matching what the
// scorer consumes.
func (m *Model) predictionsFor(kind metrics.ScorerKind, dataset string) (*mat.VecDense, error) {
	switch kind {
	case metrics.KindProba:
		out, err := m.predictSplit("predict_proba", dataset)
		if err != nil {
			return nil, err
		}
		_, cols := out.Dims()
		return colVec(out, cols-1), nil
	case metrics.KindThreshold:
		out, err := m.predictSplit("decision_function", dataset)
		if err == nil {
			return colVec(out, 0), nil
		}
		out, err = m.predictSplit("predict_proba", dataset)
		if err != nil {
			return nil, err
		}
		_, cols := out.Dims()
		return colVec(out, cols-1), nil
	default:
		out, err := m.predictSplit("predict", dataset)
		if err != nil {
			return nil, err
		}
		return colVec(out, 0), nil
	}
}

func (m *Model) confusion(dataset string, yTrue *mat.VecDense) (*mat.Dense, error) {
	pred, err := m.predictSplit("predict", dataset)
	if err != nil {
		return nil, err
	}
	return metrics.ConfusionMatrix(yTrue, colVec(pred, 0))
}

func derivedFromConfusion(metric string, cm *mat.Dense) float64 {
	tn, fp := cm.At(0, 0), cm.At(0, 1)
	fn, tp := cm.At(1, 0), cm.At(1, 1)
	total := tn + fp + fn + tp
	switch metric {
	case "tn":
		return tn
	case "fp":
		return fp
	case "fn":
		return fn
	case "tp":
		return tp
	case "lift":
		return (tp / (tp + fp)) / ((tp + fn) / total)
	case "fpr":
		return fp / (fp + tn)
	case "tpr":
		return tp / (tp + fn)
	default: // sup
		return (tp + fp) / total
	}
}

// summary renders the canonical one-line result for this model. Bagged
// lifecycles report the bagging mean and spread, others the test score.
func (m *Model) summary() string {
	if m.metricTest == nil {
		return m.desc.Acronym + " --> not fitted"
	}
	var parts []string
	for i, s := range m.scorers {
		if m.meanBagging != nil {
			parts = append(parts, fmt.Sprintf("%s: %.3f ± %.3f",
				s.Name, m.meanBagging[i], m.stdBagging[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %.3f", s.Name, m.metricTest[i]))
		}
	}
	out := m.desc.Acronym + " --> " + strings.Join(parts, "   ")
	if m.metricTrain[0]-0.2*m.metricTrain[0] > m.metricTest[0] {
		out += " ~"
	}
	return out
}

func colVec(m mat.Matrix, j int) *mat.VecDense {
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, j))
	}
	return v
}
