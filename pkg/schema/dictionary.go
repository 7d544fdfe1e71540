package schema

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed census_columns.yaml
var censusColumns []byte

// Dictionary is the ordered set of raw columns of a dataset.
type Dictionary struct {
	Columns []Column `yaml:"columns"`
}

// Names returns ColumnNames for the dictionary.
func (d Dictionary) Names(target string) []string { return ColumnNames(d.Columns, target) }

// Lookup finds a column by its normalized name.
func (d Dictionary) Lookup(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Normalized() == name {
			return c, true
		}
	}
	return Column{}, false
}

// CensusDictionary returns the embedded census-income data dictionary.
func CensusDictionary() (Dictionary, error) {
	return decodeDictionary(censusColumns, "census_columns.yaml")
}

// LoadDictionary reads a YAML data dictionary from path.
func LoadDictionary(path string) (Dictionary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dictionary{}, fmt.Errorf("schema.load_dictionary: %w", err)
	}
	return decodeDictionary(b, path)
}

func decodeDictionary(b []byte, source string) (Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Dictionary{}, fmt.Errorf("schema.load_dictionary (%s): %w", source, err)
	}
	for i, c := range d.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return Dictionary{}, fmt.Errorf("schema.load_dictionary (%s): columns[%d].name is required", source, i)
		}
		switch c.Kind {
		case Continuous, Categorical:
		default:
			return Dictionary{}, fmt.Errorf("schema.load_dictionary (%s): columns[%d].kind %q is not continuous or categorical", source, i, c.Kind)
		}
	}
	return d, nil
}

// ParseDictionary reads the plain-text dictionary format, one
// "<name>: <domain>." entry per line. Lines without a colon are skipped.
func ParseDictionary(r io.Reader) (Dictionary, error) {
	var d Dictionary
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		name, domain, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		d.Columns = append(d.Columns, parseColumn(name, domain))
	}
	if err := sc.Err(); err != nil {
		return Dictionary{}, fmt.Errorf("schema.parse_dictionary: %w", err)
	}
	return d, nil
}

func parseColumn(name, domain string) Column {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	c := Column{Name: strings.TrimSpace(name)}
	if strings.EqualFold(domain, string(Continuous)) {
		c.Kind = Continuous
		return c
	}
	c.Kind = Categorical
	for _, v := range strings.Split(domain, ",") {
		if v = strings.TrimSpace(v); v != "" {
			c.Categories = append(c.Categories, v)
		}
	}
	return c
}
