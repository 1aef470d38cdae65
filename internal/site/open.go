package site

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/config"
	"github.com/digital-finance/labsite/internal/index"
	"github.com/digital-finance/labsite/internal/search"
	"github.com/digital-finance/labsite/internal/sections"
	"github.com/digital-finance/labsite/internal/telemetry"
)

// Open loads the catalog and site sections described by cfg and wires a
// Site around them. The index build is not started.
func Open(ctx context.Context, cfg *config.Config) (*Site, error) {
	loader := catalog.NewLoader(cfg.ReadyWait())
	go loader.LoadFile(cfg.Data.Publications)

	var (
		cat  *catalog.Catalog
		secs []sections.Section
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := loader.Wait(gctx)
		if err != nil {
			return fmt.Errorf("load publications: %w", err)
		}
		cat = c
		return nil
	})
	g.Go(func() error {
		// Sections only feed the fallback index, so a bad source degrades.
		secs = Sections(cfg)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	builder := index.NewBuilder(index.BuilderConfig{
		PayloadLocation: cfg.Data.IndexPayload,
		FetchTimeout:    cfg.FetchTimeout(),
		Sections:        secs,
	}, func(context.Context) (*catalog.Catalog, error) {
		return cat, nil
	})

	exec := search.NewExecutor(builder, search.Options{
		MaxResults: cfg.Search.MaxResults,
		TitleBoost: cfg.Search.TitleBoost,
		CacheSize:  cfg.Search.CacheSize,
		Metrics:    telemetry.New(telemetry.DefaultConfig()),
	})

	slog.Debug("site_opened",
		slog.Int("publications", cat.Len()),
		slog.Int("sections", len(secs)),
		slog.String("index_payload", cfg.Data.IndexPayload))

	return New(Config{
		Catalog:  cat,
		Builder:  builder,
		Executor: exec,
	}), nil
}

// Sections loads the configured site sections, falling back to the
// defaults.
func Sections(cfg *config.Config) []sections.Section {
	s, err := sections.Load(cfg.Data.SiteHTML, cfg.Data.SectionsDir)
	if err != nil {
		slog.Warn("sections_load_failed", slog.String("error", err.Error()))
		return sections.Defaults()
	}
	return s
}
