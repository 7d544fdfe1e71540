package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Target is the name of the label column appended after the dictionary columns.
const Target = "income_level"

// SelectedFeatures is the feature subset used for modelling the census data.
var SelectedFeatures = []string{
	"detailed_occupation_recode", "major_occupation_code",
	"education", "detailed_industry_recode", "major_industry_code",
	"detailed_household_and_family_stat", "class_of_worker",
	"tax_filer_stat", "detailed_household_summary_in_household",
	"marital_stat", "family_members_under_18", "veterans_benefits", "sex",
	"full_or_part_time_employment_stat",
	"weeks_worked_in_year",
	"num_persons_worked_for_employer",
	"capital_gains", "capital_losses",
	"dividends_from_stocks",
}

// DomainKind tells whether a raw column holds measurements or labels.
type DomainKind string

const (
	Continuous  DomainKind = "continuous"
	Categorical DomainKind = "categorical"
)

// Column describes one raw column of the dataset as listed in the data dictionary.
type Column struct {
	Name       string     `yaml:"name"`
	Kind       DomainKind `yaml:"kind"`
	Categories []string   `yaml:"categories,omitempty"`
}

// Normalized returns the column name in its dataframe form.
func (c Column) Normalized() string { return NormalizeName(c.Name) }

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeName lower-cases a raw column name and collapses every whitespace
// run into a single underscore.
func NormalizeName(raw string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "_")
}

// ColumnNames returns the normalized names of columns in dictionary order
// with target appended last.
func ColumnNames(columns []Column, target string) []string {
	names := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		names = append(names, c.Normalized())
	}
	return append(names, target)
}

// SpecKind is the encoding role of a column.
type SpecKind int

const (
	SpecContinuous SpecKind = iota
	SpecInteger
	SpecOrdered
	SpecNominal
)

func (k SpecKind) String() string {
	switch k {
	case SpecContinuous:
		return "continuous"
	case SpecInteger:
		return "integer"
	case SpecOrdered:
		return "ordered"
	case SpecNominal:
		return "nominal"
	default:
		return fmt.Sprintf("SpecKind(%d)", int(k))
	}
}

// Spec tells the categorical encoder how to treat one column. Order is only
// meaningful for SpecOrdered and lists the categories from lowest to highest rank.
type Spec struct {
	Column string
	Kind   SpecKind
	Order  []string
}

func Ordered(column string, order ...string) Spec {
	return Spec{Column: column, Kind: SpecOrdered, Order: order}
}

func Nominal(column string) Spec { return Spec{Column: column, Kind: SpecNominal} }

func Integer(column string) Spec { return Spec{Column: column, Kind: SpecInteger} }

func ContinuousSpec(column string) Spec { return Spec{Column: column, Kind: SpecContinuous} }
