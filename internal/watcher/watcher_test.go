package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesAndFilters(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "ROADMAP.md")
	require.NoError(t, os.WriteFile(doc, []byte("v0"), 0o600))

	var calls atomic.Int32
	w, err := New([]string{doc}, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	// Changes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queue.json"), []byte("{}"), 0o600))
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(0), calls.Load())

	for i := range 5 {
		require.NoError(t, os.WriteFile(doc, []byte{byte('a' + i)}, 0o600))
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(1), calls.Load(), "burst coalesced into one callback")
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "ROADMAP.md")}, func() {})
	assert.Error(t, err)
}
