package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/search"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search site sections and publications",
		Long: `Search the site with prefix matching: the last word matches as a
prefix, so partial input works. Title matches rank above body text.

The pre-generated index payload is used when available; otherwise the
index is built from the site sections and the publication list.`,
		Example: `  labsite search volat
  labsite search "credit risk"
  labsite search "title:bitcoin" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 uses search.max_results)")
	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int) error {
	out, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if search.Normalize(query) == "" {
		return laberrors.New(laberrors.ErrCodeInvalidQuery, "search query is empty", nil).
			WithSuggestion("Pass at least one word, e.g. 'labsite search volat'")
	}
	_, s, err := openSite(cmd.Context())
	if err != nil {
		return err
	}

	if err := s.BuildIndex(cmd.Context()); err != nil {
		slog.Warn("index_unavailable", slog.String("error", err.Error()))
	}

	res := s.Search(cmd.Context(), query)
	if limit > 0 && len(res.Hits) > limit {
		res.Hits = res.Hits[:limit]
	}
	slog.Debug("search_completed", slog.String("query", query), slog.Int("hits", len(res.Hits)))
	return out.SearchResults(res)
}
