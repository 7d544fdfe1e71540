package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/byq630/us-census-income-analysis/internal/logger"
)

var (
	// ErrDegenerateTable is returned when a contingency table has a single
	// row or column, which leaves Cramér's V undefined.
	ErrDegenerateTable = errors.New("contingency table has fewer than two rows or columns")
	ErrNoCategorical   = errors.New("no categorical columns")
)

// Contingency is a cross-tabulation of joint counts of two categorical
// variables. Rows and Cols hold the sorted labels of each axis.
type Contingency struct {
	Rows   []string
	Cols   []string
	Counts *mat.Dense
}

// Crosstab counts the joint occurrences of a[i] and b[i].
func Crosstab(a, b []string) (Contingency, error) {
	if len(a) != len(b) {
		return Contingency{}, fmt.Errorf("stats.crosstab: length mismatch %d != %d", len(a), len(b))
	}
	if len(a) == 0 {
		return Contingency{}, ErrDegenerateTable
	}
	rows, rowIdx := labels(a)
	cols, colIdx := labels(b)

	counts := mat.NewDense(len(rows), len(cols), nil)
	for i := range a {
		r, c := rowIdx[a[i]], colIdx[b[i]]
		counts.Set(r, c, counts.At(r, c)+1)
	}
	return Contingency{Rows: rows, Cols: cols, Counts: counts}, nil
}

func labels(x []string) ([]string, map[string]int) {
	idx := map[string]int{}
	for _, v := range x {
		idx[v] = 0
	}
	out := make([]string, 0, len(idx))
	for v := range idx {
		out = append(out, v)
	}
	sort.Strings(out)
	for i, v := range out {
		idx[v] = i
	}
	return out, idx
}

// ChiSquaredResult is the outcome of a chi-squared test of independence.
type ChiSquaredResult struct {
	Statistic float64
	DoF       int
	PValue    float64
}

// ChiSquared tests the independence of the two variables of a contingency
// table. With yates set and one degree of freedom, every observed count is
// moved up to 0.5 towards its expected count first.
func ChiSquared(table mat.Matrix, yates bool) (ChiSquaredResult, error) {
	r, k := table.Dims()
	rowSums := make([]float64, r)
	colSums := make([]float64, k)
	total := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			v := table.At(i, j)
			if v < 0 {
				return ChiSquaredResult{}, fmt.Errorf("stats.chi_squared: negative count %v at (%d, %d)", v, i, j)
			}
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}
	if total == 0 {
		return ChiSquaredResult{}, ErrDegenerateTable
	}

	dof := (r - 1) * (k - 1)
	obs := make([]float64, 0, r*k)
	exp := make([]float64, 0, r*k)
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			e := rowSums[i] * colSums[j] / total
			o := table.At(i, j)
			if yates && dof == 1 {
				d := e - o
				o += math.Copysign(math.Min(0.5, math.Abs(d)), d)
			}
			obs = append(obs, o)
			exp = append(exp, e)
		}
	}

	res := ChiSquaredResult{DoF: dof, PValue: 1}
	if dof == 0 {
		return res, nil
	}
	res.Statistic = stat.ChiSquare(obs, exp)
	res.PValue = distuv.ChiSquared{K: float64(dof)}.Survival(res.Statistic)
	return res, nil
}

// Option configures CramersV and CategoricalAssociations.
type Option func(*options)

type options struct {
	yates bool
}

// WithYatesCorrection applies Yates' continuity correction to 2x2 tables.
func WithYatesCorrection() Option {
	return func(o *options) { o.yates = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// CramersV returns sqrt(chi2 / (n * (min(r, k) - 1))) for a contingency
// table, clamped to [0, 1]. Tables with a single row or column yield NaN and
// ErrDegenerateTable.
func CramersV(table mat.Matrix, opts ...Option) (float64, error) {
	o := buildOptions(opts)
	r, k := table.Dims()
	if min(r, k) < 2 {
		return math.NaN(), ErrDegenerateTable
	}
	res, err := ChiSquared(table, o.yates)
	if err != nil {
		return math.NaN(), err
	}
	n := mat.Sum(table)
	v := math.Sqrt(res.Statistic / (n * float64(min(r, k)-1)))
	return math.Min(v, 1), nil
}

// AssociationMatrix is a symmetric table of Cramér's V between categorical
// columns. The diagonal is 1.
type AssociationMatrix struct {
	Names  []string
	Values *mat.SymDense
}

// At returns the association between the i-th and j-th columns.
func (m *AssociationMatrix) At(i, j int) float64 { return m.Values.At(i, j) }

// Get returns the association between two named columns.
func (m *AssociationMatrix) Get(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values.At(i, j), true
}

func (m *AssociationMatrix) index(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Pair is one off-diagonal entry of an AssociationMatrix.
type Pair struct {
	A, B string
	V    float64
}

// Pairs lists every unordered column pair, strongest association first.
// Undefined (NaN) entries sort last.
func (m *AssociationMatrix) Pairs() []Pair {
	n := len(m.Names)
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Pair{A: m.Names[i], B: m.Names[j], V: m.Values.At(i, j)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].V, out[j].V
		if math.IsNaN(vj) {
			return !math.IsNaN(vi)
		}
		return vi > vj
	})
	return out
}

// CategoricalAssociations computes Cramér's V between every pair of string
// columns of df. The target column is converted to strings first so a
// numeric label takes part too. Rows where either value is missing are left
// out of a pair's table. A pair whose table is degenerate is recorded as NaN.
func CategoricalAssociations(df dataframe.DataFrame, target string, opts ...Option) (*AssociationMatrix, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("stats.associations: %w", df.Err)
	}
	if target != "" {
		found := false
		for _, n := range df.Names() {
			if n == target {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("stats.associations: target column %q not found", target)
		}
		if col := df.Col(target); col.Type() != series.String {
			df = df.Mutate(series.New(col.Records(), series.String, target))
		}
	}

	var names []string
	for i, t := range df.Types() {
		if t == series.String {
			names = append(names, df.Names()[i])
		}
	}
	if len(names) == 0 {
		return nil, ErrNoCategorical
	}

	values := make([][]string, len(names))
	missing := make([][]bool, len(names))
	for i, name := range names {
		col := df.Col(name)
		values[i] = col.Records()
		missing[i] = col.IsNaN()
	}

	log := logger.L()
	m := mat.NewSymDense(len(names), nil)
	for i := range names {
		m.SetSym(i, i, 1)
		for j := i + 1; j < len(names); j++ {
			a, b := present(values[i], values[j], missing[i], missing[j])
			v := math.NaN()
			table, err := Crosstab(a, b)
			if err == nil {
				v, err = CramersV(table.Counts, opts...)
			}
			if err != nil {
				if !errors.Is(err, ErrDegenerateTable) {
					return nil, fmt.Errorf("stats.associations: %s x %s: %w", names[i], names[j], err)
				}
				log.Warn("stats.associations.degenerate", "a", names[i], "b", names[j])
			}
			m.SetSym(i, j, v)
		}
	}
	return &AssociationMatrix{Names: names, Values: m}, nil
}

func present(a, b []string, na, nb []bool) ([]string, []string) {
	outA := make([]string, 0, len(a))
	outB := make([]string, 0, len(b))
	for i := range a {
		if na[i] || nb[i] {
			continue
		}
		outA = append(outA, a[i])
		outB = append(outB, b[i])
	}
	return outA, outB
}
