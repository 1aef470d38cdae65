package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/digital-finance/labsite/internal/async"
)

// ErrCatalogNotReady is returned when publication data did not arrive in time.
var ErrCatalogNotReady = errors.New("publication data not ready")

// Loader delivers the catalog to consumers that may start before the data
// is available. The catalog is resolved exactly once.
type Loader struct {
	future  *async.Future[*Catalog]
	timeout time.Duration
}

// NewLoader returns an unresolved Loader. Wait gives up after timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Loader{
		future:  async.NewFuture[*Catalog](),
		timeout: timeout,
	}
}

// Resolve hands over the catalog, or the error that prevented loading it.
// Later calls are ignored.
func (l *Loader) Resolve(c *Catalog, err error) {
	if !l.future.Resolve(c, err) {
		slog.Debug("catalog_resolve_ignored")
	}
}

// LoadFile loads path and resolves the loader with the outcome.
// It is meant to run in its own goroutine.
func (l *Loader) LoadFile(path string) {
	start := time.Now()
	c, err := LoadFile(path)
	if err != nil {
		slog.Warn("catalog_load_failed", slog.String("path", path), slog.String("error", err.Error()))
	} else {
		slog.Debug("catalog_loaded",
			slog.String("path", path),
			slog.Int("publications", c.Len()),
			slog.Duration("duration", time.Since(start)))
	}
	l.Resolve(c, err)
}

// Wait blocks until the catalog is available, ctx ends or the loader's
// timeout passes. A timeout is reported as ErrCatalogNotReady.
func (l *Loader) Wait(ctx context.Context) (*Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	c, err := l.future.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrCatalogNotReady, l.timeout)
	}
	return c, err
}

// Ready returns the catalog if it has already been resolved successfully.
func (l *Loader) Ready() (*Catalog, bool) {
	c, err, ok := l.future.Peek()
	if !ok || err != nil {
		return nil, false
	}
	return c, true
}
