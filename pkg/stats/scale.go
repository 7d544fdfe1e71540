package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

var ErrScalerNotFitted = errors.New("scaler not fitted")

// StandardScaler rescales every feature to zero mean and unit population
// variance. Constant features keep a unit divisor.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("stats.scaler: no rows to fit")
	}
	r, c := len(X), len(X[0])
	mean := make([]float64, c)
	std := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if len(X[i]) != c {
				return fmt.Errorf("stats.scaler: row %d has %d features, want %d", i, len(X[i]), c)
			}
			col[i] = X[i][j]
		}
		mean[j], std[j] = stat.PopMeanStdDev(col, nil)
		if std[j] == 0 {
			std[j] = 1
		}
	}
	s.Mean, s.Std = mean, std
	return nil
}

// Transform returns a scaled copy of X.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if len(s.Mean) == 0 {
		return nil, ErrScalerNotFitted
	}
	Y := make([][]float64, len(X))
	for i, x := range X {
		if len(x) != len(s.Mean) {
			return nil, fmt.Errorf("stats.scaler: row %d has %d features, want %d", i, len(x), len(s.Mean))
		}
		row := make([]float64, len(x))
		for j, v := range x {
			row[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
