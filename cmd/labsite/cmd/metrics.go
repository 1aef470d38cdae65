package cmd

import (
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	var facets facetFlags

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show citation metrics for the selected publications",
		Long: `Show the publication count, total and average citations and the
open-access count over exactly the publications the facets select.`,
		Example: `  labsite metrics
  labsite metrics --year 2022 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			_, s, err := openSite(cmd.Context())
			if err != nil {
				return err
			}
			view, err := facets.apply(s)
			if err != nil {
				return err
			}
			return out.Metrics(view.Metrics)
		},
	}

	facets.register(cmd)
	return cmd
}
