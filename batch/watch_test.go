package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/webpcheck"
	"github.com/deepteams/webpcheck/internal/webptest"
)

func TestNewWatcherErrors(t *testing.T) {
	s := newScanner(t, Config{})

	_, err := NewWatcher(s, nil, t.TempDir())
	assert.Error(t, err)

	_, err = NewWatcher(s, func(Report) {})
	assert.Error(t, err)

	_, err = NewWatcher(s, func(Report) {}, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	reports := make(chan Report, 16)
	w, err := NewWatcher(newScanner(t, Config{}), func(r Report) { reports <- r }, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Ignored by the include pattern.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644))

	fake := filepath.Join(dir, "fake.webp")
	require.NoError(t, os.WriteFile(fake, webptest.JPEG(), 0o644))

	select {
	case r := <-reports:
		assert.Equal(t, fake, r.Path)
		assert.False(t, r.IsValid)
		assert.Equal(t, webpcheck.KindSignature, r.ErrorKind)
	case <-time.After(5 * time.Second):
		t.Fatal("no report for created file")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
