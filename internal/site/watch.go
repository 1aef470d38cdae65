package site

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/watcher"
)

// WatchCatalog reloads the catalog each time the file at path changes,
// until ctx is done. A deleted or unreadable file keeps the current
// catalog.
func (s *Site) WatchCatalog(ctx context.Context, path string, opts watcher.Options) error {
	w, err := watcher.New([]string{path}, opts)
	if err != nil {
		return fmt.Errorf("watch catalog: %w", err)
	}
	defer func() { _ = w.Stop() }()

	go func() {
		if err := w.Start(ctx); err != nil {
			slog.Warn("catalog_watch_failed", slog.String("error", err.Error()))
		}
	}()
	slog.Info("catalog_watch_started", slog.String("path", path), slog.String("mode", w.Mode()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			s.reloadFrom(ctx, path, batch)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("catalog_watch_error", slog.String("error", err.Error()))
		}
	}
}

func (s *Site) reloadFrom(ctx context.Context, path string, batch []watcher.FileEvent) {
	for _, ev := range batch {
		if ev.Operation == watcher.OpDelete {
			slog.Warn("catalog_file_removed", slog.String("path", path))
			return
		}
	}

	cat, err := catalog.LoadFile(path)
	if err != nil {
		slog.Warn("catalog_reload_failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	s.Reload(ctx, cat)
}
