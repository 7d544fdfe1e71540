package dataprep

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/go-gota/gota/series"

	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

// encoderState is the gob form of a CategoricalEncoder.
type encoderState struct {
	Ordered           []schema.Spec
	Nominal           []string
	Integer           []string
	NominalCategories [][]string
	Types             map[string]series.Type
	Fitted            bool
}

// MarshalBinary implements encoding.BinaryMarshaler. A fitted encoder keeps
// its learned categories, so a decoded copy encodes without refitting.
func (e *CategoricalEncoder) MarshalBinary() ([]byte, error) {
	st := encoderState{
		Ordered: e.ordered,
		Nominal: e.nominal,
		Integer: e.integer,
		Types:   e.types,
		Fitted:  e.fit,
	}
	if e.joint != nil {
		st.NominalCategories = e.joint.Categories
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("dataprep.encoder: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *CategoricalEncoder) UnmarshalBinary(data []byte) error {
	var st encoderState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("dataprep.encoder: decode: %w", err)
	}

	specs := make([]schema.Spec, 0, len(st.Ordered)+len(st.Nominal)+len(st.Integer))
	specs = append(specs, st.Ordered...)
	for _, name := range st.Nominal {
		specs = append(specs, schema.Nominal(name))
	}
	for _, name := range st.Integer {
		specs = append(specs, schema.Integer(name))
	}
	dec, err := NewCategoricalEncoder(specs...)
	if err != nil {
		return err
	}
	if !st.Fitted {
		*e = *dec
		return nil
	}

	dec.ordinal = make(map[string]*OrdinalEncoder, len(st.Ordered))
	for _, s := range dec.ordered {
		enc, err := NewOrdinalEncoder(s.Column, s.Order)
		if err != nil {
			return err
		}
		enc.fit = true
		dec.ordinal[s.Column] = enc
	}
	if len(dec.nominal) > 0 {
		if len(st.NominalCategories) != len(dec.nominal) {
			return fmt.Errorf("dataprep.encoder: decode: %d category lists for %d nominal columns", len(st.NominalCategories), len(dec.nominal))
		}
		dec.joint = NewNominalEncoder(dec.nominal...)
		dec.joint.restore(st.NominalCategories)
	}
	dec.types = st.Types
	dec.fit = true
	*e = *dec
	return nil
}
