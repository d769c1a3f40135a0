package service

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sitetraffic/backend/internal/domain"
)

// WeekKey identifies one cached project-week table. The counter fingerprint
// is part of the key so changing the station selection never serves a stale
// table.
type WeekKey struct {
	ProjectID   string
	Year        int
	Week        int
	Fingerprint string
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%s|%d|%d|%s", k.ProjectID, k.Year, k.Week, k.Fingerprint)
}

type cacheEntry struct {
	table *domain.WeekTable
	seq   uint64 // last-access tick for eviction
}

// WeekCache memoizes full project-week result tables so interactive hour
// changes never re-run the simulator. Tables are immutable once stored;
// eviction drops the map entry only, so in-flight readers keep a consistent
// table. Concurrent cold requests for the same key share one computation.
type WeekCache struct {
	mu         sync.Mutex
	entries    map[WeekKey]*cacheEntry
	tick       uint64
	maxEntries int

	group singleflight.Group
}

// NewWeekCache creates a cache bounded to maxEntries tables. Values below 1
// fall back to a single entry.
func NewWeekCache(maxEntries int) *WeekCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &WeekCache{
		entries:    make(map[WeekKey]*cacheEntry),
		maxEntries: maxEntries,
	}
}

// GetOrCompute returns the cached table for key, computing and storing it on
// a miss. compute must be pure for the key: the same key always yields an
// equivalent table, so sharing one in-flight computation is safe.
func (c *WeekCache) GetOrCompute(key WeekKey, compute func() (*domain.WeekTable, error)) (*domain.WeekTable, error) {
	if table, ok := c.lookup(key); ok {
		return table, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// Re-check: another flight may have stored it between lookup and Do.
		if table, ok := c.lookup(key); ok {
			return table, nil
		}
		table, err := compute()
		if err != nil {
			return nil, err
		}
		c.store(key, table)
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.WeekTable), nil
}

// Invalidate drops every cached table for the project-week, across all
// counter fingerprints. Returns how many entries were removed.
func (c *WeekCache) Invalidate(projectID string, year, week int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if key.ProjectID == projectID && key.Year == year && key.Week == week {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of cached tables.
func (c *WeekCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *WeekCache) lookup(key WeekKey) (*domain.WeekTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.tick++
	entry.seq = c.tick
	return entry.table, true
}

func (c *WeekCache) store(key WeekKey, table *domain.WeekTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &cacheEntry{table: table, seq: c.tick}

	for len(c.entries) > c.maxEntries {
		var oldest WeekKey
		var oldestSeq uint64
		first := true
		for k, e := range c.entries {
			if first || e.seq < oldestSeq {
				oldest, oldestSeq, first = k, e.seq, false
			}
		}
		delete(c.entries, oldest)
	}
}
