package model

// ProbabilityPredictor is any binary classifier that reports p(y=1) per row.
type ProbabilityPredictor interface {
	PredictProba(X [][]float64) []float64
}

// Classifier is a trainable binary classifier.
type Classifier interface {
	ProbabilityPredictor
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}
