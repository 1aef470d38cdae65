package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/config"
	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/site"
	"github.com/digital-finance/labsite/internal/ui"
	"github.com/digital-finance/labsite/internal/watcher"
)

func newBrowseCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse publications interactively",
		Long: `Open the interactive publication browser: type to search the site,
cycle the year, topic and access facets with ctrl+y, ctrl+t and ctrl+o,
reset with ctrl+r and quit with esc.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !ui.Interactive(cmd.OutOrStdout()) {
				return laberrors.ValidationError("browse needs an interactive terminal", nil).
					WithSuggestion("Use 'labsite filter' or 'labsite search' in scripts")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg, s, err := openSite(ctx)
			if err != nil {
				return err
			}
			s.Start(ctx)
			if watch || cfg.Watch.Enabled {
				startWatch(ctx, cfg, s)
			}

			return ui.RunBrowse(ctx, s, ui.NewConfig(cmd.OutOrStdout(), currentTheme()))
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Reload publications when the data file changes")
	return cmd
}

// startWatch reloads the catalog on data file changes until ctx ends.
func startWatch(ctx context.Context, cfg *config.Config, s *site.Site) {
	opts := watcher.Options{Debounce: cfg.WatchDebounce()}
	go func() {
		if err := s.WatchCatalog(ctx, cfg.Data.Publications, opts); err != nil {
			slog.Warn("catalog_watch_unavailable", slog.String("error", err.Error()))
		}
	}()
}
