package metrics

import (
	"math"
	"sort"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy computes the fraction of exact label matches.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ConfusionMatrix computes the 2x2 confusion matrix for binary labels,
// laid out sklearn-style: [[tn, fp], [fn, tp]] with 1 as the positive class.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := mat.NewDense(2, 2, nil)
	for i := 0; i < n; i++ {
		yt, yp := yTrue.AtVec(i), yPred.AtVec(i)
		if (yt != 0 && yt != 1) || (yp != 0 && yp != 1) {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be binary (0 or 1)")
		}
		cm.Set(int(yt), int(yp), cm.At(int(yt), int(yp))+1)
	}
	return cm, nil
}

func binaryCounts(yTrue, yPred *mat.VecDense) (tn, fp, fn, tp float64, err error) {
	cm, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return cm.At(0, 0), cm.At(0, 1), cm.At(1, 0), cm.At(1, 1), nil
}

// Precision computes tp / (tp + fp) for binary labels. Returns 0 when no
// positive predictions exist, the sklearn zero-division convention.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	_, fp, _, tp, err := binaryCounts(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if tp+fp == 0 {
		return 0, nil
	}
	return tp / (tp + fp), nil
}

// Recall computes tp / (tp + fn) for binary labels. Returns 0 when no
// positive labels exist.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	_, _, fn, tp, err := binaryCounts(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if tp+fn == 0 {
		return 0, nil
	}
	return tp / (tp + fn), nil
}

// F1 computes the harmonic mean of precision and recall.
func F1(yTrue, yPred *mat.VecDense) (float64, error) {
	p, err := Precision(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r, err := Recall(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if p+r == 0 {
		return 0, nil
	}
	return 2 * p * r / (p + r), nil
}

// AUC computes the area under the ROC curve from continuous scores using
// the rank statistic, with the midrank correction for tied scores. When all
// labels belong to one class the AUC is undefined and 0.5 is returned.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yScore.Len(), 0)
	}

	var nPos, nNeg float64
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yScore.AtVec(idx[a]) < yScore.AtVec(idx[b])
	})

	// Midranks handle tied scores.
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n-1 && yScore.AtVec(idx[j+1]) == yScore.AtVec(idx[i]) {
			j++
		}
		midrank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = midrank
		}
		i = j + 1
	}

	var rankSum float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSum += ranks[i]
		}
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// LogLoss computes the binary cross-entropy from positive-class
// probabilities, clipping them away from 0 and 1.
func LogLoss(yTrue, yProba *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty vector")
	}
	if yProba.Len() != n {
		return 0, errors.NewDimensionError("LogLoss", n, yProba.Len(), 0)
	}

	const eps = 1e-15
	var loss float64
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yProba.AtVec(i), eps), 1-eps)
		if yTrue.AtVec(i) == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}
