package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/catalog"
	laberrors "github.com/digital-finance/labsite/internal/errors"
)

func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the publication data for problems",
		Long: `Inspect the raw publication records for HTML remnants in titles and
abstracts, missing titles or years, and duplicate ids. Records with
problems are still loaded by the other commands; this only reports them.`,
		Example: `  labsite check
  labsite check --strict   # exit non-zero when issues are found`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cfg.Data.Publications)
			if err != nil {
				return laberrors.IOError("cannot read "+cfg.Data.Publications, err).
					WithSuggestion("Set data.publications in .labsite.yaml or LABSITE_PUBLICATIONS")
			}
			records, err := catalog.DecodeRaw(data)
			if err != nil {
				return laberrors.New(laberrors.ErrCodeCatalogMalformed, "publication data is not a JSON array of records", err)
			}

			issues := catalog.Check(records)
			if err := out.Issues(issues); err != nil {
				return err
			}
			if strict && len(issues) > 0 {
				return laberrors.ValidationError(fmt.Sprintf("%d data issue(s) found", len(issues)), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any issue is found")
	return cmd
}
