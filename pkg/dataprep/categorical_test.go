package dataprep

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

var levels = []string{"Low", "Mid", "High"}

func sampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{" Mid", "Low", " High", "Mid"}, series.String, "level"),
		series.New([]string{"Male", "Female", "Female", "Male"}, series.String, "sex"),
		series.New([]string{"red", "blue", "green", "red"}, series.String, "color"),
		series.New([]float64{52, 0, 13, 40}, series.Float, "weeks"),
		series.New([]float64{31.5, 22, 48, 60}, series.Float, "age"),
	)
}

func sampleEncoder(t *testing.T) *CategoricalEncoder {
	t.Helper()
	enc, err := NewCategoricalEncoder(
		schema.Ordered("level", levels...),
		schema.Nominal("sex"),
		schema.Nominal("color"),
		schema.Integer("weeks"),
		schema.ContinuousSpec("age"),
	)
	require.NoError(t, err)
	return enc
}

func ints(t *testing.T, df dataframe.DataFrame, name string) []int {
	t.Helper()
	s := df.Col(name)
	require.Equal(t, series.Int, s.Type(), "column %s", name)
	out, err := s.Int()
	require.NoError(t, err)
	return out
}

func TestFitTransform(t *testing.T) {
	df := sampleFrame()
	enc := sampleEncoder(t)

	out, err := enc.FitTransform(df)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0, 2, 1}, ints(t, out, "level"))
	assert.Equal(t, []int{1, 0, 0, 1}, ints(t, out, "sex"))
	assert.Equal(t, []int{2, 0, 1, 2}, ints(t, out, "color"))
	assert.Equal(t, []int{52, 0, 13, 40}, ints(t, out, "weeks"))
	assert.Equal(t, []float64{31.5, 22, 48, 60}, out.Col("age").Float())

	// the caller's frame is untouched
	assert.Equal(t, []string{" Mid", "Low", " High", "Mid"}, df.Col("level").Records())
	assert.Equal(t, series.Float, df.Col("weeks").Type())

	cats, ok := enc.Categories("color")
	require.True(t, ok)
	assert.Equal(t, []string{"blue", "green", "red"}, cats)
	cats, ok = enc.Categories("level")
	require.True(t, ok)
	assert.Equal(t, levels, cats)
	_, ok = enc.Categories("age")
	assert.False(t, ok)
}

func TestTransformIsIdempotent(t *testing.T) {
	enc := sampleEncoder(t)
	once, err := enc.FitTransform(sampleFrame())
	require.NoError(t, err)

	twice, err := enc.Transform(once)
	require.NoError(t, err)

	require.Equal(t, once.Names(), twice.Names())
	for _, name := range once.Names() {
		assert.Equal(t, once.Col(name).Records(), twice.Col(name).Records(), name)
		assert.Equal(t, once.Col(name).Type(), twice.Col(name).Type(), name)
	}
}

func TestTransformBeforeFit(t *testing.T) {
	_, err := sampleEncoder(t).Transform(sampleFrame())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFitted))
	assert.True(t, IsKind(err, KindNotFitted))
}

func TestFitRejectsValueOutsideOrder(t *testing.T) {
	df := sampleFrame().Mutate(series.New([]string{"Low", "Top", "Mid", "High"}, series.String, "level"))

	err := sampleEncoder(t).Fit(df)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnseenCategory))

	var ee *EncodingError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "level", ee.Column)
	assert.Equal(t, "Top", ee.Value)
}

func TestTransformUnseenCategory(t *testing.T) {
	enc := sampleEncoder(t)
	require.NoError(t, enc.Fit(sampleFrame()))

	holdout := sampleFrame().Mutate(series.New([]string{"red", "blue", "purple", "red"}, series.String, "color"))
	_, err := enc.Transform(holdout)
	require.ErrorIs(t, err, ErrUnseenCategory)
	assert.Contains(t, err.Error(), `value="purple"`)
}

func TestTransformMissingColumn(t *testing.T) {
	enc := sampleEncoder(t)
	require.NoError(t, enc.Fit(sampleFrame()))

	_, err := enc.Transform(sampleFrame().Drop("sex"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMissingColumn))
}

func TestFitMissingColumnKeepsPreviousState(t *testing.T) {
	enc := sampleEncoder(t)
	require.NoError(t, enc.Fit(sampleFrame()))

	err := enc.Fit(sampleFrame().Drop("level"))
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = enc.Transform(sampleFrame())
	require.NoError(t, err)
}

func TestIntegerCastRejectsMissing(t *testing.T) {
	enc := sampleEncoder(t)
	df := sampleFrame().Mutate(series.New([]float64{1, math.NaN(), 3, 4}, series.Float, "weeks"))

	_, err := enc.FitTransform(df)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidInteger))
}

func TestIntegerCastParsesStrings(t *testing.T) {
	enc, err := NewCategoricalEncoder(schema.Integer("n"))
	require.NoError(t, err)

	df := dataframe.New(series.New([]string{" 3", "4"}, series.String, "n"))
	out, err := enc.FitTransform(df)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ints(t, out, "n"))
}

func TestNewCategoricalEncoderValidation(t *testing.T) {
	_, err := NewCategoricalEncoder(schema.Nominal("sex"), schema.Integer("sex"))
	require.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = NewCategoricalEncoder(schema.Ordered("level"))
	require.ErrorIs(t, err, ErrInvalidSpec)

	_, err = NewCategoricalEncoder(schema.Ordered("level", "a", "b", "a"))
	require.ErrorIs(t, err, ErrInvalidSpec)

	_, err = NewCategoricalEncoder(schema.Spec{Column: "x", Kind: schema.SpecKind(42)})
	require.ErrorIs(t, err, ErrInvalidSpec)
}

func TestEncoderConfigSpecs(t *testing.T) {
	ec := EncoderConfig{
		Ordered: map[string][]string{"b": {"x"}, "a": {"y"}},
		Nominal: []string{"sex"},
		Integer: []string{"weeks", "a", "sex"},
	}
	specs := ec.Specs()
	require.Len(t, specs, 4)
	assert.Equal(t, schema.Ordered("a", "y"), specs[0])
	assert.Equal(t, schema.Ordered("b", "x"), specs[1])
	assert.Equal(t, schema.Nominal("sex"), specs[2])
	assert.Equal(t, schema.Integer("weeks"), specs[3])

	_, err := NewCategoricalEncoder(specs...)
	require.NoError(t, err)
}

func TestOrdinalEncoderTransformBeforeFit(t *testing.T) {
	enc, err := NewOrdinalEncoder("level", levels)
	require.NoError(t, err)
	_, err = enc.Transform([]string{"Low"})
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestFitTransformNumericLabelColumns(t *testing.T) {
	enc, err := NewCategoricalEncoder(
		schema.Ordered("year", "95", "94"),
		schema.Nominal("detailed_industry_recode"),
	)
	require.NoError(t, err)

	df := dataframe.New(
		series.New([]int{95, 94, 95, 94}, series.Int, "year"),
		series.New([]int{40, 5, 10, 40}, series.Int, "detailed_industry_recode"),
	)
	out, err := enc.FitTransform(df)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 0, 1}, ints(t, out, "year"))
	assert.Equal(t, []int{2, 1, 0, 2}, ints(t, out, "detailed_industry_recode"))

	cats, ok := enc.Categories("detailed_industry_recode")
	require.True(t, ok)
	assert.Equal(t, []string{"10", "40", "5"}, cats)

	holdout := dataframe.New(
		series.New([]int{94, 95}, series.Int, "year"),
		series.New([]int{5, 7}, series.Int, "detailed_industry_recode"),
	)
	_, err = enc.Transform(holdout)
	require.ErrorIs(t, err, ErrUnseenCategory)
}

func TestEncoderBinaryRoundTrip(t *testing.T) {
	enc := sampleEncoder(t)
	want, err := enc.FitTransform(sampleFrame())
	require.NoError(t, err)

	b, err := enc.MarshalBinary()
	require.NoError(t, err)

	var restored CategoricalEncoder
	require.NoError(t, restored.UnmarshalBinary(b))

	// a frame missing "green" would shift every later code on a refit
	holdout := sampleFrame().Mutate(series.New([]string{"red", "blue", "red", "red"}, series.String, "color"))
	got, err := restored.Transform(holdout)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 2, 2}, ints(t, got, "color"))
	assert.Equal(t, ints(t, want, "level"), ints(t, got, "level"))

	cats, ok := restored.Categories("color")
	require.True(t, ok)
	assert.Equal(t, []string{"blue", "green", "red"}, cats)
}

func TestEncoderBinaryRoundTripUnfitted(t *testing.T) {
	b, err := sampleEncoder(t).MarshalBinary()
	require.NoError(t, err)

	var restored CategoricalEncoder
	require.NoError(t, restored.UnmarshalBinary(b))
	_, err = restored.Transform(sampleFrame())
	require.ErrorIs(t, err, ErrNotFitted)
}
