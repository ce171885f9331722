package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type seen struct {
	mu    sync.Mutex
	paths []string
}

func (s *seen) handle(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths = append(s.paths, path)
}

func (s *seen) contains(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.paths, path)
}

func (s *seen) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.paths {
		if p == path {
			n++
		}
	}
	return n
}

func startWatcher(t *testing.T, root string) *seen {
	t.Helper()

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(root))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	s := &seen{}
	go func() { done <- w.Run(ctx, s.handle) }()

	t.Cleanup(func() {
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	})
	return s
}

func TestWatchNewFile(t *testing.T) {
	root := t.TempDir()
	s := startWatcher(t, root)

	path := filepath.Join(root, "photo.png")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF}, 0644))

	require.Eventually(t, func() bool { return s.contains(path) }, 5*time.Second, 20*time.Millisecond)
}

func TestWatchNewDirectory(t *testing.T) {
	root := t.TempDir()
	s := startWatcher(t, root)

	dir := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(dir, 0755))

	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0644))

	require.Eventually(t, func() bool { return s.contains(path) }, 5*time.Second, 20*time.Millisecond)
}

func TestWatchExistingSubdirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	s := startWatcher(t, root)

	path := filepath.Join(sub, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	require.Eventually(t, func() bool { return s.contains(path) }, 5*time.Second, 20*time.Millisecond)
}

func TestWatchCoalescesWrites(t *testing.T) {
	root := t.TempDir()
	s := startWatcher(t, root)

	path := filepath.Join(root, "big.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.Write([]byte("chunk"))
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return s.contains(path) }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, s.count(path))
}

func TestWatchRemovedFileIsIgnored(t *testing.T) {
	root := t.TempDir()
	s := startWatcher(t, root)

	gone := filepath.Join(root, "gone.txt")
	require.NoError(t, os.WriteFile(gone, []byte("x"), 0644))
	require.NoError(t, os.Remove(gone))

	kept := filepath.Join(root, "kept.txt")
	require.NoError(t, os.WriteFile(kept, []byte("y"), 0644))

	require.Eventually(t, func() bool { return s.contains(kept) }, 5*time.Second, 20*time.Millisecond)
	require.False(t, s.contains(gone))
}

func TestAddMissingRoot(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)
	defer w.Close()

	require.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
}

func TestWatchTinySettle(t *testing.T) {
	root := t.TempDir()

	w, err := New(time.Nanosecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(root))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &seen{}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, s.handle) }()

	path := filepath.Join(root, "fast.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.Eventually(t, func() bool { return s.contains(path) }, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
