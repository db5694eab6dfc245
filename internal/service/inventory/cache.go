package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/repository"
)

// Snapshot is one full load of the store. Callers treat its slices as read-only.
type Snapshot struct {
	Stock     []models.StockRecord
	Locations []models.LocationRecord
	Minimums  []models.MinimumThreshold
	LoadedAt  time.Time
}

// Cache holds the last snapshot loaded from the store. It is never patched:
// a mutation invalidates it and the next read (or an explicit Refresh)
// reloads everything.
type Cache struct {
	store    repository.Store
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	recorder Recorder
	onLoad   func(Snapshot)

	loadMu sync.Mutex

	mu    sync.RWMutex
	snap  Snapshot
	valid bool
}

// NewCache builds a cache over store. A ttl <= 0 disables time-based
// staleness so only Invalidate forces a reload.
func NewCache(store repository.Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		recorder: nopRecorder{},
	}
}

// Get returns the cached snapshot, reloading it first when invalid or stale.
func (c *Cache) Get(ctx context.Context) (Snapshot, error) {
	if snap, ok := c.fresh(); ok {
		return snap, nil
	}
	return c.Refresh(ctx)
}

// Refresh reloads stock, locations and minimums from the store.
func (c *Cache) Refresh(ctx context.Context) (Snapshot, error) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	start := c.now()
	snap, err := c.load(ctx)
	elapsed := c.now().Sub(start)
	c.recorder.Refresh(elapsed, err)
	if err != nil {
		c.logger.Error("failed refreshing inventory cache", zap.Error(err))
		return Snapshot{}, fmt.Errorf("refresh inventory cache: %w", err)
	}

	c.mu.Lock()
	c.snap = snap
	c.valid = true
	c.mu.Unlock()

	c.logger.Debug("inventory cache refreshed",
		zap.Int("stock", len(snap.Stock)),
		zap.Int("locations", len(snap.Locations)),
		zap.Duration("elapsed", elapsed),
	)

	if c.onLoad != nil {
		c.onLoad(snap)
	}
	return snap, nil
}

// Invalidate marks the snapshot stale without reloading it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Valid reports whether a fresh snapshot is held.
func (c *Cache) Valid() bool {
	_, ok := c.fresh()
	return ok
}

func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return Snapshot{}, false
	}
	if c.ttl > 0 && c.now().Sub(c.snap.LoadedAt) >= c.ttl {
		return Snapshot{}, false
	}
	return c.snap, true
}

func (c *Cache) load(ctx context.Context) (Snapshot, error) {
	stock, err := c.store.ListStock(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	locations, err := c.store.ListLocations(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	minimums, err := c.store.ListMinimums(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Stock:     stock,
		Locations: locations,
		Minimums:  minimums,
		LoadedAt:  c.now(),
	}, nil
}
