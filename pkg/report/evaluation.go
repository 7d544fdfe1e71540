package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/byq630/us-census-income-analysis/pkg/model"
)

// Evaluation records one scoring of a classifier on a held-out set.
type Evaluation struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Source    string        `json:"source,omitempty"`
	Rows      int           `json:"rows"`
	Threshold float64       `json:"threshold"`
	Metrics   model.Metrics `json:"metrics"`
}

func NewEvaluation(source string, rows int, threshold float64, m model.Metrics) Evaluation {
	return Evaluation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Rows:      rows,
		Threshold: threshold,
		Metrics:   m,
	}
}

func (e Evaluation) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// SaveEvaluation writes e as indented JSON to path.
func SaveEvaluation(path string, e Evaluation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := e.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return f.Close()
}
