package pipeline

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/byq630/us-census-income-analysis/pkg/dataprep"
	"github.com/byq630/us-census-income-analysis/pkg/model"
	"github.com/byq630/us-census-income-analysis/pkg/stats"
)

// Pipeline scales the named feature columns and feeds them to a classifier.
// Encoder, when set, holds the categorical codes the model was trained on and
// is saved with it.
type Pipeline struct {
	Features []string
	Encoder  *dataprep.CategoricalEncoder
	Scaler   *stats.StandardScaler
	Model    *model.LogisticRegression
}

var _ model.Classifier = (*model.LogisticRegression)(nil)

// NewBaseline returns a standard-scaled logistic regression over features.
func NewBaseline(features []string, lr float64, epochs, batchSize int, seed int64) *Pipeline {
	return &Pipeline{
		Features: append([]string(nil), features...),
		Scaler:   stats.NewStandardScaler(),
		Model:    model.NewLogisticRegression(len(features), lr, epochs, batchSize, seed),
	}
}

func (p *Pipeline) Fit(X [][]float64, y []float64) error {
	Xs, err := p.Scaler.FitTransform(X)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return p.Model.Fit(Xs, y)
}

// PredictProba scales X and returns the classifier's probabilities. Rows
// that cannot be scaled yield nil, which Evaluate reports as a size mismatch.
func (p *Pipeline) PredictProba(X [][]float64) []float64 {
	Xs, err := p.Scaler.Transform(X)
	if err != nil {
		return nil
	}
	return p.Model.PredictProba(Xs)
}

// Save writes the fitted pipeline to path using gob.
func (p *Pipeline) Save(path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("pipeline: encode: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads a pipeline written by Save.
func Load(path string) (*Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	var p Pipeline
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&p); err != nil {
		return nil, fmt.Errorf("pipeline: decode %s: %w", path, err)
	}
	if p.Scaler == nil || p.Model == nil || len(p.Features) == 0 {
		return nil, errors.New("pipeline: " + path + " holds an incomplete pipeline")
	}
	return &p, nil
}
