package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_WaitReturnsCatalogLoadedLater(t *testing.T) {
	// Given: a loader resolved after the consumer started waiting
	l := NewLoader(time.Second)
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.LoadFile("testdata/publications.json")
	}()

	// When: waiting
	c, err := l.Wait(context.Background())

	// Then: the catalog arrives without polling
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	ready, ok := l.Ready()
	assert.True(t, ok)
	assert.Same(t, c, ready)
}

func TestLoader_WaitIsBounded(t *testing.T) {
	l := NewLoader(20 * time.Millisecond)

	_, err := l.Wait(context.Background())

	assert.ErrorIs(t, err, ErrCatalogNotReady)
	_, ok := l.Ready()
	assert.False(t, ok)
}

func TestLoader_PropagatesLoadError(t *testing.T) {
	l := NewLoader(time.Second)
	l.LoadFile(filepath.Join(t.TempDir(), "missing.json"))

	_, err := l.Wait(context.Background())

	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_FirstResolveWins(t *testing.T) {
	l := NewLoader(time.Second)
	first := New([]Publication{{ID: "a"}})
	l.Resolve(first, nil)
	l.Resolve(New(nil), nil)

	c, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, c)
}
