package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"freightdash/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingCache struct {
	loads       atomic.Int32
	invalidates atomic.Int32
}

func (c *countingCache) Orders(context.Context) ([]model.OrderRecord, error) {
	c.loads.Add(1)
	return nil, nil
}

func (c *countingCache) Invalidate() { c.invalidates.Add(1) }

func TestRefreshWorker_Ticks(t *testing.T) {
	cache := &countingCache{}
	w := NewRefreshWorker(cache, 10*time.Millisecond, "")

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	require.Eventually(t, func() bool { return cache.loads.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	require.Zero(t, cache.invalidates.Load())
}

func TestRefreshWorker_WatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	cache := &countingCache{}
	w := NewRefreshWorker(cache, 0, path)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	require.Eventually(t, func() bool { return cache.loads.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	// the watcher is registered after the first load; give it a moment
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))

	require.Eventually(t, func() bool { return cache.invalidates.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return cache.loads.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-w.Done()
}
