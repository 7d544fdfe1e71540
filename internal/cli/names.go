package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func namesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "Print the normalized column names, target last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dict, err := a.loadDictionary()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range dict.Names(a.cfg.Target) {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
