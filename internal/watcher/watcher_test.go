package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpCreate, "CREATE"},
		{OpModify, "MODIFY"},
		{OpDelete, "DELETE"},
		{OpRename, "RENAME"},
		{Operation(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	got := Options{Debounce: time.Second}.WithDefaults()

	assert.Equal(t, time.Second, got.Debounce)
	assert.Equal(t, DefaultOptions().PollInterval, got.PollInterval)
}

func TestNew_RequiresFiles(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.Error(t, err)
}

func TestFileWatcher_ReportsWatchedFileOnly(t *testing.T) {
	for _, polling := range []bool{false, true} {
		name := "fsnotify"
		if polling {
			name = "polling"
		}
		t.Run(name, func(t *testing.T) {
			// Given: a watched file next to an unwatched one
			dir := t.TempDir()
			target := filepath.Join(dir, "publications.json")
			other := filepath.Join(dir, "notes.txt")
			require.NoError(t, os.WriteFile(target, []byte("[]"), 0o644))

			w, err := New([]string{target}, Options{
				Debounce:     20 * time.Millisecond,
				PollInterval: 20 * time.Millisecond,
				ForcePolling: polling,
			})
			require.NoError(t, err)
			defer w.Stop()
			if polling {
				assert.Equal(t, "polling", w.Mode())
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() { _ = w.Start(ctx) }()
			time.Sleep(50 * time.Millisecond)

			// When: both files change
			require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
			require.NoError(t, os.WriteFile(target, []byte(`[{"title":"x"}]`), 0o644))

			// Then: only the watched file is reported
			select {
			case batch := <-w.Events():
				require.NotEmpty(t, batch)
				for _, ev := range batch {
					assert.Equal(t, target, ev.Path)
				}
			case <-time.After(3 * time.Second):
				t.Fatal("timeout waiting for change")
			}
		})
	}
}

func TestFileWatcher_StopClosesChannels(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "a.json")}, Options{Debounce: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return")
	}
	require.NoError(t, w.Stop())

	require.Eventually(t, func() bool {
		_, ok := <-w.Events()
		return !ok
	}, time.Second, 10*time.Millisecond)
	_, ok := <-w.Errors()
	assert.False(t, ok)
}

func TestPoller_DetectsLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	p := newPoller([]string{path}, time.Millisecond)

	assert.Empty(t, p.poll())

	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	evs := p.poll()
	require.Len(t, evs, 1)
	assert.Equal(t, OpCreate, evs[0].Operation)

	require.NoError(t, os.WriteFile(path, []byte("12"), 0o644))
	evs = p.poll()
	require.Len(t, evs, 1)
	assert.Equal(t, OpModify, evs[0].Operation)

	require.NoError(t, os.Remove(path))
	evs = p.poll()
	require.Len(t, evs, 1)
	assert.Equal(t, OpDelete, evs[0].Operation)
}
