package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/adapters/watcher"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/stamp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const eventTimeout = 5 * time.Second

func startWatcher(ctx context.Context, t *testing.T, root string) (*watcher.Watcher, <-chan ports.WatchEvent) {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w := watcher.NewWatcher(log)
	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() { _ = w.Stop() })

	out := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(out)
		for ev := range w.Events() {
			out <- ev
		}
	}()
	return w, out
}

// waitFor returns the first event on path, failing after eventTimeout.
func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	deadline := time.After(eventTimeout)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "watcher stopped before %s changed", path)
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			require.FailNow(t, "no event for "+path)
		}
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, domain.DirPerm))
	file := filepath.Join(src, "main.cpp")
	require.NoError(t, os.WriteFile(file, []byte("int main() {}"), domain.FilePerm))

	_, events := startWatcher(t.Context(), t, root)

	require.NoError(t, os.WriteFile(file, []byte("int main() { return 1; }"), domain.FilePerm))
	ev := waitFor(t, events, file)
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)

	require.NoError(t, os.Remove(file))
	for ev.Operation != ports.OpRemove {
		ev = waitFor(t, events, file)
	}
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, events := startWatcher(t.Context(), t, root)

	dir := filepath.Join(root, "include")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))
	waitFor(t, events, dir)

	// The new directory may be added after the file lands; retry until it is seen.
	file := filepath.Join(dir, "util.h")
	deadline := time.Now().Add(eventTimeout)
	for {
		require.NoError(t, os.WriteFile(file, []byte("#pragma once"), domain.FilePerm))
		select {
		case ev := <-events:
			if ev.Path == file {
				return
			}
		case <-time.After(100 * time.Millisecond):
		}
		require.True(t, time.Now().Before(deadline), "no event for "+file)
	}
}

func TestWatcher_SkipsCacheDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cache := filepath.Join(root, domain.DefaultCacheDir)
	require.NoError(t, os.MkdirAll(cache, domain.DirPerm))
	_, events := startWatcher(t.Context(), t, root)

	require.NoError(t, os.WriteFile(filepath.Join(cache, domain.UIDCacheFile), []byte("x"), domain.FilePerm))
	marker := filepath.Join(root, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), domain.FilePerm))

	deadline := time.After(eventTimeout)
	for {
		select {
		case ev := <-events:
			require.NotEqual(t, filepath.Join(cache, domain.UIDCacheFile), ev.Path)
			if ev.Path == marker {
				return
			}
		case <-deadline:
			require.FailNow(t, "no event for marker")
		}
	}
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	_, events := startWatcher(ctx, t, t.TempDir())
	cancel()

	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(eventTimeout):
		require.FailNow(t, "events did not end")
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, _ := startWatcher(t.Context(), t, root)
	require.Error(t, w.Start(t.Context(), root))
}

func TestWatcher_NotStarted(t *testing.T) {
	t.Parallel()

	w := watcher.NewWatcher(mocks.NewMockLogger(gomock.NewController(t)))
	for range w.Events() {
		require.FailNow(t, "unexpected event")
	}
	require.NoError(t, w.Stop())
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, first := startWatcher(t.Context(), t, root)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	for range first {
	}

	require.NoError(t, w.Start(t.Context(), root))
	marker := filepath.Join(root, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), domain.FilePerm))

	out := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(out)
		for ev := range w.Events() {
			out <- ev
		}
	}()
	waitFor(t, out, marker)
	require.NoError(t, w.Stop())
}
