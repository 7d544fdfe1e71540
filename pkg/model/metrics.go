package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrSingleClass is returned by ranking metrics when the labels hold only
	// one class.
	ErrSingleClass   = errors.New("only one class present in labels")
	ErrInvalidLabels = errors.New("labels must be 0 or 1")
	ErrInvalidScores = errors.New("invalid scores")
)

// Accuracy is the fraction of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// BinaryPredFromProba labels a row positive when its probability reaches threshold.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// PrecisionRecallF1 scores the positive class (1) from a confusion count of
// the predictions. A ratio with an empty denominator is 0.
func PrecisionRecallF1(yTrue []int, yPred []int) (prec, rec, f1 float64) {
	var tp, fp, fn float64
	for i, want := range yTrue {
		switch got := yPred[i]; {
		case got == 1 && want == 1:
			tp++
		case got == 1:
			fp++
		case want == 1:
			fn++
		}
	}
	if tp+fp > 0 {
		prec = tp / (tp + fp)
	}
	if tp+fn > 0 {
		rec = tp / (tp + fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return prec, rec, f1
}

// roc returns the ROC curve of scores against labels, ordered by increasing
// false positive rate, along with the positive and negative counts.
func roc(yTrue []int, scores []float64) (tpr, fpr []float64, pos, neg float64, err error) {
	if err := checkLabels(yTrue, len(scores)); err != nil {
		return nil, nil, 0, 0, err
	}
	if err := checkScores(scores, math.Inf(-1), math.Inf(1)); err != nil {
		return nil, nil, 0, 0, err
	}
	y := make([]float64, len(scores))
	copy(y, scores)
	classes := make([]bool, len(yTrue))
	for i, v := range yTrue {
		classes[i] = v == 1
		if classes[i] {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, nil, pos, neg, ErrSingleClass
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ = stat.ROC(nil, y, classes, nil)
	return tpr, fpr, pos, neg, nil
}

// ROCAUC is the area under the ROC curve of scores.
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	tpr, fpr, _, _, err := roc(yTrue, scores)
	if err != nil {
		return 0, fmt.Errorf("roc auc: %w", err)
	}
	return integrate.Trapezoidal(fpr, tpr), nil
}

// AveragePrecision summarises the precision-recall curve as the
// recall-weighted mean of precision at each distinct score threshold.
func AveragePrecision(yTrue []int, scores []float64) (float64, error) {
	tpr, fpr, pos, neg, err := roc(yTrue, scores)
	if err != nil {
		return 0, fmt.Errorf("average precision: %w", err)
	}
	ap, prevRecall := 0.0, 0.0
	for i := range tpr {
		tp, fp := tpr[i]*pos, fpr[i]*neg
		if tp+fp == 0 {
			continue
		}
		ap += (tpr[i] - prevRecall) * tp / (tp + fp)
		prevRecall = tpr[i]
	}
	return ap, nil
}

func checkLabels(yTrue []int, n int) error {
	if len(yTrue) != n {
		return fmt.Errorf("%w: %d labels for %d predictions", ErrInvalidLabels, len(yTrue), n)
	}
	for i, v := range yTrue {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: label %d at row %d", ErrInvalidLabels, v, i)
		}
	}
	return nil
}

// checkScores rejects NaN and any score outside [lo, hi].
func checkScores(scores []float64, lo, hi float64) error {
	for i, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			return fmt.Errorf("%w: %v at row %d", ErrInvalidScores, v, i)
		}
	}
	return nil
}
