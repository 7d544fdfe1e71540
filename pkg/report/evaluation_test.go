package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byq630/us-census-income-analysis/pkg/model"
)

func TestSaveEvaluation(t *testing.T) {
	e := NewEvaluation("holdout.csv", 4, 0.5, model.Metrics{Accuracy: 1, ROCAUC: 0.9})
	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "eval.json")
	require.NoError(t, SaveEvaluation(path, e))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Evaluation
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, 4, got.Rows)
	assert.Equal(t, 0.9, got.Metrics.ROCAUC)
	assert.True(t, e.CreatedAt.Equal(got.CreatedAt))
}

func TestNewEvaluationIDsAreUnique(t *testing.T) {
	a := NewEvaluation("", 0, 0.5, model.Metrics{})
	b := NewEvaluation("", 0, 0.5, model.Metrics{})
	assert.NotEqual(t, a.ID, b.ID)
}
