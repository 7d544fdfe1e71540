package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/byq630/us-census-income-analysis/pkg/stats"
)

func sampleMatrix() *stats.AssociationMatrix {
	return &stats.AssociationMatrix{
		Names: []string{"sex", "education", "income_level"},
		Values: mat.NewSymDense(3, []float64{
			1, 0.2, 0.4,
			0.2, 1, math.NaN(),
			0.4, math.NaN(), 1,
		}),
	}
}

func TestAssociationGridOrientation(t *testing.T) {
	g := associationGrid{m: sampleMatrix()}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 3, r)
	// top row (r = 2) is the first column name
	assert.Equal(t, 1.0, g.Z(0, 2))
	assert.Equal(t, 0.4, g.Z(2, 2))
	assert.Equal(t, 0.4, g.Z(0, 0))
}

func TestSaveHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assoc.png")
	require.NoError(t, SaveHeatmap(sampleMatrix(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveHeatmapEmpty(t *testing.T) {
	require.Error(t, SaveHeatmap(&stats.AssociationMatrix{}, "unused.png"))
}
