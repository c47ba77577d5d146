package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/adapters/watcher"
)

// batches records every delivered batch.
type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) all() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.got
}

func TestDebouncer_CoalescesSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("/ws/src/util.h")
		d.Add("/ws/src/main.cpp")
		d.Add("/ws/src/util.h")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.all(), 1)
		assert.Equal(t, []string{"/ws/src/main.cpp", "/ws/src/util.h"}, b.all()[0])
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("/ws/a")
		time.Sleep(60 * time.Millisecond)
		d.Add("/ws/b")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.all())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		require.Len(t, b.all(), 1)
		assert.Equal(t, []string{"/ws/a", "/ws/b"}, b.all()[0])
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add("/ws/a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Add("/ws/b")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/ws/a"}, {"/ws/b"}}, b.all())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("/ws/b")
		d.Add("/ws/a")
		d.Flush()
		require.Equal(t, [][]string{{"/ws/a", "/ws/b"}}, b.all())

		// The stopped timer delivers nothing more.
		time.Sleep(200 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, b.all(), 1)
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	t.Parallel()

	var b batches
	d := watcher.NewDebouncer(100*time.Millisecond, b.add)
	d.Flush()
	assert.Empty(t, b.all())
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add("/ws/a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Len(t, b.all(), 1)

		d.Flush()
		assert.Len(t, b.all(), 1)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)
		d.Add("/ws/a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Add("/ws/b")
		d.Flush()
	})
}
