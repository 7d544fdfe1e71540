package dataprep

import (
	"sort"
	"strings"
)

// OrdinalEncoder maps the labels of one column to their rank in a fixed
// category order.
type OrdinalEncoder struct {
	Column     string
	Categories []string
	index      map[string]int
	fit        bool
}

// NewOrdinalEncoder builds an encoder for column constrained to order.
func NewOrdinalEncoder(column string, order []string) (*OrdinalEncoder, error) {
	if len(order) == 0 {
		return nil, &EncodingError{Op: "dataprep.ordinal", Kind: KindInvalidSpec, Column: column, Err: ErrInvalidSpec}
	}
	index := make(map[string]int, len(order))
	for i, v := range order {
		if _, dup := index[v]; dup {
			return nil, &EncodingError{Op: "dataprep.ordinal", Kind: KindInvalidSpec, Column: column, Value: v, Err: ErrInvalidSpec}
		}
		index[v] = i
	}
	cats := make([]string, len(order))
	copy(cats, order)
	return &OrdinalEncoder{Column: column, Categories: cats, index: index}, nil
}

// Fit checks that every observed label belongs to the category order.
func (e *OrdinalEncoder) Fit(values []string) error {
	for _, v := range values {
		if _, ok := e.index[v]; !ok {
			return &EncodingError{Op: "dataprep.fit", Kind: KindUnseenCategory, Column: e.Column, Value: v, Err: ErrUnseenCategory}
		}
	}
	e.fit = true
	return nil
}

// Transform returns the rank of each label.
func (e *OrdinalEncoder) Transform(values []string) ([]int, error) {
	if !e.fit {
		return nil, &EncodingError{Op: "dataprep.transform", Kind: KindNotFitted, Column: e.Column, Err: ErrNotFitted}
	}
	return encodeWith(e.index, e.Column, values)
}

// NominalEncoder encodes several unordered columns at once. Each column's
// categories are learned from the data and numbered in sorted order.
type NominalEncoder struct {
	Columns    []string
	Categories [][]string
	index      []map[string]int
}

func NewNominalEncoder(columns ...string) *NominalEncoder {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &NominalEncoder{Columns: cols}
}

// Fit learns the categories of every column; values[j] holds column j.
func (e *NominalEncoder) Fit(values [][]string) {
	e.Categories = make([][]string, len(e.Columns))
	e.index = make([]map[string]int, len(e.Columns))
	for j := range e.Columns {
		e.Categories[j], e.index[j] = uniqueSorted(values[j])
	}
}

// restore installs categories learned by an earlier Fit.
func (e *NominalEncoder) restore(categories [][]string) {
	e.Categories = categories
	e.index = make([]map[string]int, len(categories))
	for j, cats := range categories {
		e.index[j] = make(map[string]int, len(cats))
		for i, v := range cats {
			e.index[j][v] = i
		}
	}
}

// TransformColumn encodes the values of column j.
func (e *NominalEncoder) TransformColumn(j int, values []string) ([]int, error) {
	if e.index == nil {
		return nil, &EncodingError{Op: "dataprep.transform", Kind: KindNotFitted, Column: e.Columns[j], Err: ErrNotFitted}
	}
	return encodeWith(e.index[j], e.Columns[j], values)
}

// uniqueSorted collects the distinct labels of data and numbers them in
// lexical order.
func uniqueSorted(data []string) ([]string, map[string]int) {
	unique := map[string]int{}
	for _, v := range data {
		unique[v] = 0
	}
	cats := make([]string, 0, len(unique))
	for v := range unique {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	for i, v := range cats {
		unique[v] = i
	}
	return cats, unique
}

func encodeWith(index map[string]int, column string, values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		code, ok := index[v]
		if !ok {
			return nil, &EncodingError{Op: "dataprep.transform", Kind: KindUnseenCategory, Column: column, Value: v, Err: ErrUnseenCategory}
		}
		out[i] = code
	}
	return out, nil
}

func lstrip(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimLeft(v, " \t\n\r\v\f")
	}
	return out
}
