package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/byq630/us-census-income-analysis/pkg/report"
	"github.com/byq630/us-census-income-analysis/pkg/stats"
)

func associationsCmd(a *app) *cobra.Command {
	var in, plot string
	var top int
	var yates bool

	c := &cobra.Command{
		Use:   "associations",
		Short: "Rank pairs of categorical columns by Cramér's V",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			df, err := a.loadFrame(in)
			if err != nil {
				return err
			}
			var opts []stats.Option
			if yates {
				opts = append(opts, stats.WithYatesCorrection())
			}
			m, err := stats.CategoricalAssociations(df, a.cfg.Target, opts...)
			if err != nil {
				return err
			}

			pairs := m.Pairs()
			if top > 0 && top < len(pairs) {
				pairs = pairs[:top]
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "A\tB\tCRAMERS_V")
			for _, p := range pairs {
				fmt.Fprintf(tw, "%s\t%s\t%.4f\n", p.A, p.B, p.V)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if plot != "" {
				return report.SaveHeatmap(m, plot)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&in, "in", "i", "", "raw header-less census CSV (defaults to CENSUS_TRAIN_PATH)")
	c.Flags().IntVarP(&top, "top", "n", 20, "number of pairs to print (0 prints all)")
	c.Flags().StringVar(&plot, "plot", "", "write the association heatmap to this image file")
	c.Flags().BoolVar(&yates, "yates", false, "apply Yates' correction to 2x2 tables")
	return c
}
