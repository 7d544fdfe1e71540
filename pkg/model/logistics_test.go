package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separable() ([][]float64, []float64) {
	X := [][]float64{{-2, 1}, {-1.5, 0}, {-1, -1}, {-0.5, 1}, {0.5, -1}, {1, 0}, {1.5, 1}, {2, -1}}
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	return X, y
}

func TestLogisticRegressionLearnsSeparableData(t *testing.T) {
	X, y := separable()
	m := NewLogisticRegression(2, 0.5, 300, 4, 7)
	require.NoError(t, m.Fit(X, y))

	assert.Equal(t, y, m.Predict(X))
	assert.Greater(t, m.W[0], 0.0)

	labels := make([]int, len(y))
	for i, v := range y {
		labels[i] = int(v)
	}
	metrics, err := Evaluate(m, X, labels, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1.0, metrics.Accuracy)
	assert.InDelta(t, 1.0, metrics.ROCAUC, 1e-9)
}

func TestLogisticRegressionFitValidation(t *testing.T) {
	m := NewLogisticRegression(2, 0.1, 1, 2, 1)
	require.Error(t, m.Fit(nil, nil))
	require.Error(t, m.Fit([][]float64{{1, 2}}, []float64{0, 1}))
	require.Error(t, m.Fit([][]float64{{1}}, []float64{0}))
}

func TestLogisticRegressionBinaryRoundTrip(t *testing.T) {
	X, y := separable()
	m := NewLogisticRegression(2, 0.5, 50, 0, 3)
	require.NoError(t, m.Fit(X, y))

	b, err := m.MarshalBinary()
	require.NoError(t, err)

	var got LogisticRegression
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, m.W, got.W)
	assert.Equal(t, m.Bias(), got.Bias())
	assert.Equal(t, m.PredictProba(X), got.PredictProba(X))
}

func TestLogisticRegressionL2ShrinksWeights(t *testing.T) {
	X, y := separable()
	plain := NewLogisticRegression(2, 0.5, 200, 4, 7)
	require.NoError(t, plain.Fit(X, y))

	decayed := NewLogisticRegression(2, 0.5, 200, 4, 7)
	decayed.L2 = 0.1
	require.NoError(t, decayed.Fit(X, y))

	assert.Less(t, decayed.W[0], plain.W[0])
	assert.Greater(t, decayed.W[0], 0.0)
}
