package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, debounce time.Duration) (*Watcher, chan string) {
	t.Helper()
	changes := make(chan string, 16)
	w, err := New(debounce, func(path string) { changes <- path })
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w, changes
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	write(t, path, "v 0 0 0\n")

	w, changes := newTestWatcher(t, 100*time.Millisecond)
	require.NoError(t, w.Watch(path))

	for i := 0; i < 5; i++ {
		write(t, path, "v 1 1 1\n")
	}

	select {
	case got := <-changes:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, got)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case got := <-changes:
		t.Fatalf("expected one notification for a burst, got another for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	write(t, path, "v 0 0 0\n")

	w, changes := newTestWatcher(t, 20*time.Millisecond)
	require.NoError(t, w.Watch(path))

	write(t, filepath.Join(dir, "other.obj"), "v 0 0 0\n")

	select {
	case got := <-changes:
		t.Fatalf("unexpected notification for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_SwitchesFiles(t *testing.T) {
	first := filepath.Join(t.TempDir(), "a.obj")
	second := filepath.Join(t.TempDir(), "b.obj")
	write(t, first, "")
	write(t, second, "")

	w, changes := newTestWatcher(t, 20*time.Millisecond)
	require.NoError(t, w.Watch(first))
	require.NoError(t, w.Watch(second))
	abs, _ := filepath.Abs(second)
	assert.Equal(t, abs, w.Path())

	write(t, first, "v 0 0 0\n")
	write(t, second, "v 0 0 0\n")

	select {
	case got := <-changes:
		assert.Equal(t, abs, got)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, _ := newTestWatcher(t, time.Millisecond)
	err := w.Watch(filepath.Join(t.TempDir(), "gone", "model.obj"))
	assert.Error(t, err)
}
