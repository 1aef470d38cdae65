package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/graph"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Co-authorship network data",
		Long: `Derive the co-authorship network from the publication list: one node per
author and one weighted link per pair of co-authors. Authors listed under
"team" in the configuration form group 1, everyone else group 2.

JSON output is the node-link data for the analytics page; text output
summarizes the lab members.`,
		Example: `  labsite graph --format json > coauthors.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			cfg, s, err := openSite(cmd.Context())
			if err != nil {
				return err
			}

			g := graph.Build(s.Catalog().All(), cfg.Team)
			if out.JSONMode() {
				return out.JSON(g)
			}

			out.Linef("%d authors · %d co-author links", len(g.Nodes), len(g.Links))
			team := g.Team()
			if len(team) == 0 {
				out.Status("", "No lab members configured; set team in .labsite.yaml")
				return nil
			}
			out.Newline()
			for _, n := range team {
				out.Linef("%-24s %d publications", n.Name, n.Publications)
			}
			return nil
		},
	}
}
