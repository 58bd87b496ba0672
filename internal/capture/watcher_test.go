package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitFor = 2 * time.Second

func startWatcher(t *testing.T, dir string, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := Watch(context.Background(), dir, Options{Debounce: debounce})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func expectCapture(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case path, ok := <-w.Captures():
		require.True(t, ok, "captures channel closed early")
		return path
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for capture")
		return ""
	}
}

func expectNoCapture(t *testing.T, w *Watcher, within time.Duration) {
	t.Helper()
	select {
	case path := <-w.Captures():
		t.Fatalf("unexpected capture %s", path)
	case <-time.After(within):
	}
}

func TestWatch_EmitsImageOnce(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir, 100*time.Millisecond)

	path := filepath.Join(dir, "snap.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.Write([]byte("chunk"))
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	got := expectCapture(t, w)
	assert.Equal(t, path, got)
	expectNoCapture(t, w, 300*time.Millisecond)
}

func TestWatch_IgnoresNonImages(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".partial.png"), []byte("hi"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album.png"), 0o750))

	expectNoCapture(t, w, 200*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dinner.PNG"), []byte("png"), 0o600))
	assert.Equal(t, filepath.Join(dir, "dinner.PNG"), expectCapture(t, w))
}

func TestWatch_DroppedBeforeSettling(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir, 150*time.Millisecond)

	path := filepath.Join(dir, "gone.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg"), 0o600))
	require.NoError(t, os.Remove(path))

	expectNoCapture(t, w, 400*time.Millisecond)
}

func TestWatch_NoDebounce(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir, 0)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.webp"), []byte("x"), 0o600))
	assert.Equal(t, filepath.Join(dir, "a.webp"), expectCapture(t, w))
}

func TestWatch_ContextCancelClosesCaptures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w, err := Watch(ctx, t.TempDir(), Options{})
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-w.Captures():
		assert.False(t, ok)
	case <-time.After(waitFor):
		t.Fatal("captures channel not closed after cancel")
	}
	require.NoError(t, w.Close())
}

func TestWatch_CloseIsIdempotent(t *testing.T) {
	w, err := Watch(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatch_InvalidDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	tests := []struct {
		name string
		dir  string
	}{
		{"empty", "  "},
		{"missing", filepath.Join(dir, "nope")},
		{"not a directory", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Watch(context.Background(), tt.dir, Options{})
			assert.Error(t, err)
			assert.Nil(t, w)
		})
	}
}
