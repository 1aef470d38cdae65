package index

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/digital-finance/labsite/internal/async"
	"github.com/digital-finance/labsite/internal/catalog"
	"github.com/digital-finance/labsite/internal/sections"
)

// Index sources reported by Status and Index.Source.
const (
	SourcePayload  = "payload"
	SourceFallback = "fallback"
)

// ErrIndexNotReady is returned when the index has not been built.
var ErrIndexNotReady = errors.New("search index not ready")

// CatalogFunc supplies the catalog for the fallback build.
type CatalogFunc func(ctx context.Context) (*catalog.Catalog, error)

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	// PayloadLocation is a file path or http(s) URL. Empty skips the fetch.
	PayloadLocation string
	// FetchTimeout bounds the payload fetch.
	FetchTimeout time.Duration
	// Sections feed the fallback build.
	Sections []sections.Section
	// Client fetches URL payloads. Nil uses a client with FetchTimeout.
	Client *http.Client
}

// Builder produces the search index at most once per catalog. Concurrent
// Build calls share one build; a successful build is kept until
// Invalidate; a failed build may be retried.
type Builder struct {
	cfg     BuilderConfig
	client  *http.Client
	group   singleflight.Group
	catalog CatalogFunc

	mu       sync.RWMutex
	current  *Index
	epoch    uint64
	progress *async.BuildProgress
}

// NewBuilder returns a Builder that falls back to the catalog from catFn.
func NewBuilder(cfg BuilderConfig, catFn CatalogFunc) *Builder {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 3 * time.Second
	}
	if cfg.Sections == nil {
		cfg.Sections = sections.Defaults()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &Builder{
		cfg:      cfg,
		client:   client,
		catalog:  catFn,
		progress: async.NewBuildProgress(),
	}
}

// Start builds in the background and returns immediately.
func (b *Builder) Start(ctx context.Context) {
	go func() {
		if _, err := b.Build(ctx); err != nil {
			slog.Warn("index_build_failed", slog.String("error", err.Error()))
		}
	}()
}

// Build returns the cached index or builds it: fetch the payload, fall
// back to sections plus catalog on any fetch error, then index.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	if idx, ok := b.Index(); ok {
		return idx, nil
	}

	b.mu.RLock()
	key := flightKey(b.epoch)
	b.mu.RUnlock()

	// The shared build outlives any one caller; each caller stops waiting
	// when its own ctx ends.
	ch := b.group.DoChan(key, func() (any, error) {
		return b.build(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			slog.Debug("index_build_shared")
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Index), nil
	}
}

func (b *Builder) build(ctx context.Context) (*Index, error) {
	if idx, ok := b.Index(); ok {
		return idx, nil
	}

	b.mu.RLock()
	epoch := b.epoch
	b.mu.RUnlock()

	b.progress.Begin()
	start := time.Now()
	slog.Debug("index_build_started", slog.String("payload", b.cfg.PayloadLocation))

	payload, source, err := b.resolvePayload(ctx)
	if err != nil {
		b.progress.SetError(err.Error())
		return nil, err
	}

	idx, err := New(payload.Documents())
	if err != nil {
		b.progress.SetError(err.Error())
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.epoch != epoch {
		// invalidated while building; the result belongs to a stale catalog
		_ = idx.Close()
		return nil, ErrIndexNotReady
	}
	idx.source = source
	idx.generation = b.progress.Generation() + 1
	b.current = idx
	b.progress.SetReady(source, idx.Len())

	slog.Info("index_build_completed",
		slog.String("source", source),
		slog.Int("documents", idx.Len()),
		slog.Duration("duration", time.Since(start)))
	return idx, nil
}

func (b *Builder) resolvePayload(ctx context.Context) (*Payload, string, error) {
	if b.cfg.PayloadLocation != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, b.cfg.FetchTimeout)
		payload, err := FetchPayload(fetchCtx, b.client, b.cfg.PayloadLocation)
		cancel()
		if err == nil {
			return payload, SourcePayload, nil
		}
		slog.Warn("payload_fetch_failed",
			slog.String("location", b.cfg.PayloadLocation),
			slog.String("error", err.Error()))
	}

	b.mu.RLock()
	catFn := b.catalog
	b.mu.RUnlock()
	if catFn == nil {
		return nil, "", ErrIndexNotReady
	}
	cat, err := catFn(ctx)
	if err != nil {
		return nil, "", err
	}
	slog.Debug("index_fallback_build", slog.Int("publications", cat.Len()))
	return FallbackPayload(b.cfg.Sections, cat), SourceFallback, nil
}

// Index returns the built index without blocking.
func (b *Builder) Index() (*Index, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current, b.current != nil
}

// Ready reports whether an index is available.
func (b *Builder) Ready() bool {
	_, ok := b.Index()
	return ok
}

// Status reports the build lifecycle.
func (b *Builder) Status() async.ProgressSnapshot {
	return b.progress.Snapshot()
}

// SetCatalog replaces the fallback catalog and invalidates the index.
func (b *Builder) SetCatalog(cat *catalog.Catalog) {
	b.mu.Lock()
	b.catalog = func(context.Context) (*catalog.Catalog, error) { return cat, nil }
	b.mu.Unlock()
	b.Invalidate()
}

// Invalidate drops the cached index. The next Build starts afresh.
func (b *Builder) Invalidate() {
	b.mu.Lock()
	old := b.current
	b.current = nil
	b.epoch++
	b.mu.Unlock()

	b.progress.Reset()
	if old != nil {
		_ = old.Close()
	}
	slog.Debug("index_invalidated")
}

func flightKey(epoch uint64) string {
	return "build-" + strconv.FormatUint(epoch, 10)
}
