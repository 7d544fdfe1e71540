package cli

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/byq630/us-census-income-analysis/internal/logger"
	"github.com/byq630/us-census-income-analysis/pkg/data"
	"github.com/byq630/us-census-income-analysis/pkg/dataprep"
)

func encodeCmd(a *app) *cobra.Command {
	var in, out string

	c := &cobra.Command{
		Use:   "encode",
		Short: "Encode the categorical columns of a raw census file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			df, err := a.loadFrame(in)
			if err != nil {
				return err
			}
			enc, err := a.newEncoder()
			if err != nil {
				return err
			}
			encoded, err := enc.FitTransform(df)
			if err != nil {
				return err
			}
			if err := data.SaveCSV(out, encoded); err != nil {
				return err
			}
			logger.L().Info("encode.done", "in", in, "out", out, "rows", encoded.Nrow())
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", encoded.Nrow(), out)
			return nil
		},
	}

	c.Flags().StringVarP(&in, "in", "i", "", "raw header-less census CSV (defaults to CENSUS_TRAIN_PATH)")
	c.Flags().StringVarP(&out, "out", "o", "", "encoded CSV with a header row (required)")
	_ = c.MarkFlagRequired("out")
	return c
}

// loadFrame reads a raw census file, falling back to the configured
// training path.
func (a *app) loadFrame(path string) (dataframe.DataFrame, error) {
	if path == "" {
		path = a.cfg.TrainPath
	}
	dict, err := a.loadDictionary()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return data.LoadCSV(path, dict, a.cfg.Target)
}

// newEncoder builds the configured encoder. Every layout column must be in
// the data dictionary.
func (a *app) newEncoder() (*dataprep.CategoricalEncoder, error) {
	layout, err := a.cfg.EncoderLayout()
	if err != nil {
		return nil, err
	}
	dict, err := a.loadDictionary()
	if err != nil {
		return nil, err
	}
	specs := layout.Specs()
	for _, s := range specs {
		if _, ok := dict.Lookup(s.Column); !ok {
			return nil, fmt.Errorf("encoder layout: column %q is not in the data dictionary", s.Column)
		}
	}
	return dataprep.NewCategoricalEncoder(specs...)
}
