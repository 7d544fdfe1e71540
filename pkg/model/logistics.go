package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/byq630/us-census-income-analysis/pkg/optim"
)

// LogisticRegression is a binary classifier trained with mini-batch
// gradient descent on the binary cross-entropy loss.
type LogisticRegression struct {
	W         []float64 // weights
	b         float64   // bias
	Lr        float64
	L2        float64 // weight decay; the bias is not penalized
	Epochs    int
	BatchSize int
	Seed      int64
}

// NewLogisticRegression initializes the weights with small random values
// drawn from a source seeded with seed.
func NewLogisticRegression(nFeatures int, lr float64, epochs, batchSize int, seed int64) *LogisticRegression {
	rng := rand.New(rand.NewSource(seed))
	w := make([]float64, nFeatures)
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	return &LogisticRegression{W: w, Lr: lr, Epochs: epochs, BatchSize: batchSize, Seed: seed}
}

func (m *LogisticRegression) Bias() float64 { return m.b }

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

func (m *LogisticRegression) proba(x []float64) float64 {
	sum := m.b
	for j, v := range x {
		sum += m.W[j] * v
	}
	return sigmoid(sum)
}

// PredictProba returns p(y=1) for each row of X, splitting rows across
// GOMAXPROCS workers.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = m.proba(X[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns class labels at a 0.5 probability threshold.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	proba := m.PredictProba(X)
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= DefaultThreshold {
			out[i] = 1
		}
	}
	return out
}

// Fit runs Epochs passes of mini-batch gradient descent over X and y,
// visiting the rows in a fresh random order each epoch.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("logistic: no training rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("logistic: %d rows but %d labels", len(X), len(y))
	}
	for i, row := range X {
		if len(row) != len(m.W) {
			return fmt.Errorf("logistic: row %d has %d features, model has %d", i, len(row), len(m.W))
		}
	}
	batchSize := m.BatchSize
	if batchSize <= 0 || batchSize > len(X) {
		batchSize = len(X)
	}

	opt := optim.NewSGD(m.Lr).WithL2(m.L2)
	rng := rand.New(rand.NewSource(m.Seed))
	gW := make([]float64, len(m.W))

	for ep := 0; ep < m.Epochs; ep++ {
		order := rng.Perm(len(X))
		for s := 0; s < len(order); s += batchSize {
			idx := order[s:min(s+batchSize, len(order))]

			clear(gW)
			gb := 0.0
			n := float64(len(idx))
			for _, i := range idx {
				d := (m.proba(X[i]) - y[i]) / n
				for j, xij := range X[i] {
					gW[j] += d * xij
				}
				gb += d
			}
			opt.Step(m.W, gW)
			m.b -= m.Lr * gb
		}
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (m *LogisticRegression) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []any{m.W, m.b, m.Lr, m.L2, m.Epochs, m.BatchSize, m.Seed} {
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (m *LogisticRegression) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	for _, v := range []any{&m.W, &m.b, &m.Lr, &m.L2, &m.Epochs, &m.BatchSize, &m.Seed} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	return nil
}
