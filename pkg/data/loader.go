package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

// ErrEmpty is returned when a file holds no data rows.
var ErrEmpty = errors.New("no data rows")

// MissingValues are the fields read as missing. gota's defaults also treat
// "NA" as missing, which is a real hispanic-origin category in the census data.
var MissingValues = []string{"", "NaN"}

// PositiveLabel marks the high-income class in the census target column.
const PositiveLabel = "50000+"

// LoadCSV opens a header-less census CSV and names its columns from dict.
func LoadCSV(path string, dict schema.Dictionary, target string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("data.load_csv: %w", err)
	}
	defer file.Close()

	df, err := ReadCSV(bufio.NewReader(file), dict, target)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("data.load_csv %s: %w", path, err)
	}
	return df, nil
}

// ReadCSV parses header-less census rows. Leading blanks after each comma are
// dropped, and dictionary columns get their declared type: categorical
// columns stay strings even when their labels look numeric.
func ReadCSV(r io.Reader, dict schema.Dictionary, target string) (dataframe.DataFrame, error) {
	names := dict.Names(target)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(names)
	reader.TrimLeadingSpace = true

	records := [][]string{names}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		records = append(records, rec)
	}
	if len(records) == 1 {
		return dataframe.DataFrame{}, ErrEmpty
	}

	types := make(map[string]series.Type, len(names))
	for _, c := range dict.Columns {
		if c.Kind == schema.Continuous {
			types[c.Normalized()] = series.Float
		} else {
			types[c.Normalized()] = series.String
		}
	}
	types[target] = series.String

	df := dataframe.LoadRecords(records,
		dataframe.WithTypes(types),
		dataframe.NaNValues(MissingValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// Labels converts the target column into 0/1 labels. String targets are
// positive when they contain PositiveLabel; numeric targets must already be 0 or 1.
func Labels(df dataframe.DataFrame, target string) ([]int, error) {
	col := df.Col(target)
	if col.Err != nil {
		return nil, fmt.Errorf("data.labels: %w", col.Err)
	}

	out := make([]int, col.Len())
	if col.Type() == series.String {
		for i, v := range col.Records() {
			if strings.Contains(v, PositiveLabel) {
				out[i] = 1
			}
		}
		return out, nil
	}

	for i, v := range col.Float() {
		switch v {
		case 0, 1:
			out[i] = int(v)
		default:
			return nil, fmt.Errorf("data.labels: row %d: %v is not a binary label", i, v)
		}
	}
	return out, nil
}

// Matrix extracts the named numeric columns as a row-major feature matrix.
func Matrix(df dataframe.DataFrame, columns []string) ([][]float64, error) {
	cols := make([][]float64, len(columns))
	for j, name := range columns {
		s := df.Col(name)
		if s.Err != nil {
			return nil, fmt.Errorf("data.matrix: %w", s.Err)
		}
		if s.Type() == series.String {
			return nil, fmt.Errorf("data.matrix: column %q is not numeric", name)
		}
		cols[j] = s.Float()
	}

	X := make([][]float64, df.Nrow())
	for i := range X {
		row := make([]float64, len(columns))
		for j := range columns {
			v := cols[j][i]
			if math.IsNaN(v) {
				return nil, fmt.Errorf("data.matrix: column %q row %d is missing", columns[j], i)
			}
			row[j] = v
		}
		X[i] = row
	}
	return X, nil
}

// SaveCSV writes df with a header row to path.
func SaveCSV(path string, df dataframe.DataFrame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("data.save_csv: %w", err)
	}
	if err := df.WriteCSV(file); err != nil {
		file.Close()
		return fmt.Errorf("data.save_csv %s: %w", path, err)
	}
	return file.Close()
}
