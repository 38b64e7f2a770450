package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"freightdash/internal/metrics"
	"freightdash/internal/model"
	"freightdash/internal/source"
)

// Cache memoizes the decoded order table. The table is re-read when the
// source reports a new version or after Invalidate.
type Cache struct {
	src source.Source

	mu      sync.Mutex
	version string
	loaded  bool
	records []model.OrderRecord
}

func NewCache(src source.Source) *Cache {
	return &Cache{src: src}
}

func (c *Cache) Source() source.Source { return c.src }

// Orders returns the full table. The returned slice is shared; callers must not
// modify it.
func (c *Cache) Orders(ctx context.Context) ([]model.OrderRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	version, err := c.src.Version(ctx)
	if err != nil {
		metrics.SourceLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	if c.loaded && version == c.version {
		return c.records, nil
	}

	start := time.Now()
	records, err := c.read(ctx)
	if err != nil {
		metrics.SourceLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	c.records = records
	c.version = version
	c.loaded = true

	metrics.SourceLoadsTotal.WithLabelValues("ok").Inc()
	metrics.SourceRecords.Set(float64(len(records)))
	slog.Info("orders loaded", "source", c.src.String(), "records", len(records), "version", version, "took", time.Since(start))
	return records, nil
}

// Invalidate forces the next Orders call to re-read the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.records = nil
	c.mu.Unlock()
}

func (c *Cache) read(ctx context.Context) ([]model.OrderRecord, error) {
	rc, err := c.src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	defer rc.Close()
	return ReadOrders(rc)
}
