package dataprep

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/byq630/us-census-income-analysis/internal/logger"
	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

// EncoderConfig is the list form of an encoder layout, as stored in YAML.
type EncoderConfig struct {
	Ordered map[string][]string `yaml:"ordered"`
	Nominal []string            `yaml:"nominal"`
	Integer []string            `yaml:"integer"`
}

// Specs converts the configuration into column specs. Ordered columns come
// first, sorted by name. Integer entries that are also ordered or nominal are
// dropped since encoded codes are already integers.
func (c EncoderConfig) Specs() []schema.Spec {
	encoded := make(map[string]bool, len(c.Ordered)+len(c.Nominal))
	names := make([]string, 0, len(c.Ordered))
	for name := range c.Ordered {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]schema.Spec, 0, len(c.Ordered)+len(c.Nominal)+len(c.Integer))
	for _, name := range names {
		specs = append(specs, schema.Ordered(name, c.Ordered[name]...))
		encoded[name] = true
	}
	for _, name := range c.Nominal {
		specs = append(specs, schema.Nominal(name))
		encoded[name] = true
	}
	for _, name := range c.Integer {
		if !encoded[name] {
			specs = append(specs, schema.Integer(name))
		}
	}
	return specs
}

// CategoricalEncoder turns categorical dataframe columns into integer codes.
// Ordered columns are ranked by their configured order; nominal columns share
// one NominalEncoder whose categories are learned at fit time. Integer
// columns are cast after encoding.
type CategoricalEncoder struct {
	ordered []schema.Spec
	nominal []string
	integer []string

	ordinal map[string]*OrdinalEncoder
	joint   *NominalEncoder
	types   map[string]series.Type // series type of each encoded column at fit time
	fit     bool
}

// NewCategoricalEncoder validates specs and returns an unfitted encoder.
// Continuous specs are accepted and left untouched.
func NewCategoricalEncoder(specs ...schema.Spec) (*CategoricalEncoder, error) {
	e := &CategoricalEncoder{}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if strings.TrimSpace(s.Column) == "" {
			return nil, &EncodingError{Op: "dataprep.new_encoder", Kind: KindInvalidSpec, Err: ErrInvalidSpec}
		}
		if seen[s.Column] {
			return nil, &EncodingError{Op: "dataprep.new_encoder", Kind: KindInvalidSpec, Column: s.Column, Err: ErrDuplicateColumn}
		}
		seen[s.Column] = true

		switch s.Kind {
		case schema.SpecOrdered:
			if _, err := NewOrdinalEncoder(s.Column, s.Order); err != nil {
				return nil, err
			}
			e.ordered = append(e.ordered, s)
		case schema.SpecNominal:
			e.nominal = append(e.nominal, s.Column)
		case schema.SpecInteger:
			e.integer = append(e.integer, s.Column)
		case schema.SpecContinuous:
		default:
			return nil, &EncodingError{Op: "dataprep.new_encoder", Kind: KindInvalidSpec, Column: s.Column, Err: fmt.Errorf("%w: kind %s", ErrInvalidSpec, s.Kind)}
		}
	}
	return e, nil
}

// Fit learns the encoders from df. Leading whitespace is stripped from
// ordered columns before matching them against their order. The encoder's
// previous state is kept when Fit fails.
func (e *CategoricalEncoder) Fit(df dataframe.DataFrame) error {
	ordinal := make(map[string]*OrdinalEncoder, len(e.ordered))
	types := make(map[string]series.Type, len(e.ordered)+len(e.nominal))
	for _, s := range e.ordered {
		values, err := column(df, s.Column, "dataprep.fit")
		if err != nil {
			return err
		}
		types[s.Column] = values.Type()
		enc, err := NewOrdinalEncoder(s.Column, s.Order)
		if err != nil {
			return err
		}
		if err := enc.Fit(lstrip(values.Records())); err != nil {
			return err
		}
		ordinal[s.Column] = enc
	}

	var joint *NominalEncoder
	if len(e.nominal) > 0 {
		cols := make([][]string, len(e.nominal))
		for j, name := range e.nominal {
			values, err := column(df, name, "dataprep.fit")
			if err != nil {
				return err
			}
			cols[j] = values.Records()
			types[name] = values.Type()
		}
		joint = NewNominalEncoder(e.nominal...)
		joint.Fit(cols)
	}

	e.ordinal, e.joint, e.types, e.fit = ordinal, joint, types, true
	logger.L().Debug("dataprep.encoder.fit",
		"rows", df.Nrow(),
		"ordered", len(e.ordered),
		"nominal", len(e.nominal),
		"integer", len(e.integer),
	)
	return nil
}

// Transform returns a copy of df with ordered and nominal columns replaced by
// integer codes and integer columns cast to int, truncating fractions.
// Columns whose labels are numbers are encoded from their text form. A column
// that held strings at fit time and is numeric now is taken to be encoded
// already and passed through, so transforming an encoded frame again leaves
// it unchanged.
func (e *CategoricalEncoder) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !e.fit {
		return dataframe.DataFrame{}, &EncodingError{Op: "dataprep.transform", Kind: KindNotFitted, Err: ErrNotFitted}
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("dataprep.transform: %w", df.Err)
	}
	out := df.Copy()

	for _, s := range e.ordered {
		values, err := column(out, s.Column, "dataprep.transform")
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		if e.encoded(s.Column, values) {
			continue
		}
		codes, err := e.ordinal[s.Column].Transform(lstrip(values.Records()))
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		out = out.Mutate(series.New(codes, series.Int, s.Column))
	}

	for j, name := range e.nominal {
		values, err := column(out, name, "dataprep.transform")
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		if e.encoded(name, values) {
			continue
		}
		codes, err := e.joint.TransformColumn(j, values.Records())
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		out = out.Mutate(series.New(codes, series.Int, name))
	}

	for _, name := range e.integer {
		values, err := column(out, name, "dataprep.transform")
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		ints, err := toInts(values)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		out = out.Mutate(series.New(ints, series.Int, name))
	}

	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("dataprep.transform: %w", out.Err)
	}
	return out, nil
}

func (e *CategoricalEncoder) encoded(name string, values series.Series) bool {
	return e.types[name] == series.String && values.Type() != series.String
}

// FitTransform fits the encoder on df and transforms it.
func (e *CategoricalEncoder) FitTransform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := e.Fit(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return e.Transform(df)
}

// Categories returns the learned or configured categories of an encoded column.
func (e *CategoricalEncoder) Categories(name string) ([]string, bool) {
	if enc, ok := e.ordinal[name]; ok {
		return enc.Categories, true
	}
	if e.joint != nil {
		for j, c := range e.joint.Columns {
			if c == name {
				return e.joint.Categories[j], true
			}
		}
	}
	return nil, false
}

func column(df dataframe.DataFrame, name, op string) (series.Series, error) {
	for _, n := range df.Names() {
		if n == name {
			return df.Col(name), nil
		}
	}
	return series.Series{}, &EncodingError{Op: op, Kind: KindMissingColumn, Column: name, Err: ErrMissingColumn}
}

func toInts(s series.Series) ([]int, error) {
	out := make([]int, s.Len())
	switch s.Type() {
	case series.Int:
		for i := 0; i < s.Len(); i++ {
			v, err := s.Elem(i).Int()
			if err != nil {
				return nil, invalidInteger(s.Name, s.Elem(i).String())
			}
			out[i] = v
		}
	case series.String:
		for i, rec := range s.Records() {
			v, err := strconv.Atoi(strings.TrimSpace(rec))
			if err != nil {
				return nil, invalidInteger(s.Name, rec)
			}
			out[i] = v
		}
	default:
		for i, f := range s.Float() {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, invalidInteger(s.Name, strconv.FormatFloat(f, 'g', -1, 64))
			}
			out[i] = int(f)
		}
	}
	return out, nil
}

func invalidInteger(column, value string) error {
	return &EncodingError{Op: "dataprep.transform", Kind: KindInvalidInteger, Column: column, Value: value, Err: ErrInvalidInteger}
}
