package model

import "fmt"

// DefaultThreshold is the probability at which a row is labelled positive.
const DefaultThreshold = 0.5

// Metrics holds the scores of one evaluation. Accuracy, Recall, Precision
// and F1 depend on the threshold; AveragePrecision and ROCAUC do not.
type Metrics struct {
	Accuracy         float64 `json:"accuracy"`
	Recall           float64 `json:"recall"`
	Precision        float64 `json:"precision"`
	F1               float64 `json:"f1"`
	AveragePrecision float64 `json:"average_precision"`
	ROCAUC           float64 `json:"roc_auc"`
}

// AsMap returns the metrics keyed by their display names.
func (m Metrics) AsMap() map[string]float64 {
	return map[string]float64{
		"Accuracy":                m.Accuracy,
		"Recall":                  m.Recall,
		"Precision":               m.Precision,
		"F1 Score":                m.F1,
		"Average Precision Score": m.AveragePrecision,
		"ROC-AUC Score":           m.ROCAUC,
	}
}

// Evaluate scores clf on a held-out set. Rows whose positive-class
// probability is at least threshold are predicted positive.
func Evaluate(clf ProbabilityPredictor, X [][]float64, y []int, threshold float64) (Metrics, error) {
	proba := clf.PredictProba(X)
	if len(proba) != len(X) {
		return Metrics{}, fmt.Errorf("evaluate: classifier returned %d probabilities for %d rows", len(proba), len(X))
	}
	return EvaluateScores(y, proba, threshold)
}

// EvaluateScores computes the metrics from precomputed probabilities.
func EvaluateScores(y []int, proba []float64, threshold float64) (Metrics, error) {
	if err := checkLabels(y, len(proba)); err != nil {
		return Metrics{}, fmt.Errorf("evaluate: %w", err)
	}
	if err := checkScores(proba, 0, 1); err != nil {
		return Metrics{}, fmt.Errorf("evaluate: probabilities: %w", err)
	}

	var m Metrics
	var err error
	if m.AveragePrecision, err = AveragePrecision(y, proba); err != nil {
		return Metrics{}, fmt.Errorf("evaluate: %w", err)
	}
	if m.ROCAUC, err = ROCAUC(y, proba); err != nil {
		return Metrics{}, fmt.Errorf("evaluate: %w", err)
	}

	pred := BinaryPredFromProba(proba, threshold)
	m.Accuracy = Accuracy(y, pred)
	m.Precision, m.Recall, m.F1 = PrecisionRecallF1(y, pred)
	return m, nil
}
