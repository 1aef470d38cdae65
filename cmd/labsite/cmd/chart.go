package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/metrics"
	"github.com/digital-finance/labsite/internal/ui"
)

func newChartCmd() *cobra.Command {
	var (
		facets facetFlags
		width  int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Publications per year",
		Long: `Count the selected publications per year, oldest first. Text output is
a bar chart scaled to the busiest year; JSON output is the histogram the
analytics page plots. Publications without a year are left out.`,
		Example: `  labsite chart
  labsite chart --topic esg --width 30
  labsite chart --format json`,
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

			hist := metrics.YearHistogram(view.Publications)
			if out.JSONMode() {
				return out.JSON(hist)
			}
			styles := ui.NewConfig(cmd.OutOrStdout(), currentTheme()).Styles()
			out.Raw(ui.BarChart(hist, width, styles))
			return nil
		},
	}

	facets.register(cmd)
	cmd.Flags().IntVarP(&width, "width", "w", 40, "Bar width in columns")
	return cmd
}
