package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/bibtex"
	"github.com/digital-finance/labsite/internal/catalog"
	laberrors "github.com/digital-finance/labsite/internal/errors"
)

func newBibtexCmd() *cobra.Command {
	var (
		facets  facetFlags
		ids     []string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "bibtex",
		Short: "Export BibTeX entries",
		Long: `Export BibTeX entries for the publications selected by the facets, or
for specific publications with --id. The citation key is the publication
id.`,
		Example: `  labsite bibtex --year 2021
  labsite bibtex --id W3200000001 --id W3200000002
  labsite bibtex -o publications.bib`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBibtex(cmd, facets, ids, outPath)
		},
	}

	facets.register(cmd)
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Publication id (repeatable); overrides the facets")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout (e.g. "+bibtex.FileName+")")
	return cmd
}

func runBibtex(cmd *cobra.Command, facets facetFlags, ids []string, outPath string) error {
	_, s, err := openSite(cmd.Context())
	if err != nil {
		return err
	}

	var pubs []catalog.Publication
	if len(ids) > 0 {
		cat := s.Catalog()
		for _, id := range ids {
			p, ok := cat.ByID(id)
			if !ok {
				return laberrors.ValidationError(fmt.Sprintf("unknown publication id: %s", id), nil).
					WithSuggestion("Run 'labsite filter --format json' to list ids")
			}
			pubs = append(pubs, p)
		}
	} else {
		view, err := facets.apply(s)
		if err != nil {
			return err
		}
		pubs = view.Publications
	}

	if outPath == "" {
		return bibtex.Write(cmd.OutOrStdout(), pubs)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return laberrors.New(laberrors.ErrCodeFilePermission, "cannot create "+outPath, err)
	}
	if err := bibtex.Write(f, pubs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	out, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if !out.JSONMode() {
		out.Successf("Wrote %d entries to %s", len(pubs), outPath)
	}
	return nil
}
