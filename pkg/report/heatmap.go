package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/byq630/us-census-income-analysis/pkg/stats"
)

// associationGrid adapts an AssociationMatrix to plotter.GridXYZ. The first
// column is drawn at the top.
type associationGrid struct {
	m *stats.AssociationMatrix
}

func (g associationGrid) Dims() (c, r int) { n := len(g.m.Names); return n, n }

func (g associationGrid) Z(c, r int) float64 {
	n := len(g.m.Names)
	return g.m.At(n-1-r, c)
}

func (g associationGrid) X(c int) float64 { return float64(c) }
func (g associationGrid) Y(r int) float64 { return float64(r) }

// SaveHeatmap renders the association matrix to an image file. The format
// follows the file extension (png, svg, pdf, ...).
func SaveHeatmap(m *stats.AssociationMatrix, path string) error {
	n := len(m.Names)
	if n == 0 {
		return errors.New("report: empty association matrix")
	}

	p := plot.New()
	p.Title.Text = "Categorical associations (Cramér's V)"

	h := plotter.NewHeatMap(associationGrid{m: m}, palette.Heat(16, 1))
	h.Min, h.Max = 0, 1
	h.NaN = color.Gray{Y: 200}
	p.Add(h)

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, name := range m.Names {
		xTicks[i] = plot.Tick{Value: float64(i), Label: name}
		yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Rotation = math.Pi / 2

	size := vg.Length(n)*0.5*vg.Inch + 3*vg.Inch
	if err := p.Save(size, size, path); err != nil {
		return fmt.Errorf("report: save heatmap: %w", err)
	}
	return nil
}
