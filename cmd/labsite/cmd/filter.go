package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/output"
)

func newFilterCmd() *cobra.Command {
	var facets facetFlags

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List publications matching the year, topic and access facets",
		Long: `List the publications that pass all three facets, followed by their
citation metrics. Facets default to "all".`,
		Example: `  labsite filter --year 2021
  labsite filter --topic crypto --access open
  labsite filter --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilter(cmd, facets)
		},
	}

	facets.register(cmd)
	return cmd
}

func runFilter(cmd *cobra.Command, facets facetFlags) error {
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

	if out.JSONMode() {
		return out.JSON(view)
	}
	if err := out.Publications(view.Publications); err != nil {
		return err
	}
	if !view.NoResults {
		out.Newline()
		out.Line(output.MetricsLine(view.Metrics))
	}
	return nil
}
