// Package cache is a small TTL cache for materialized query results. Chunked
// queries are never cached; their cursors cannot be replayed.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/minereport/dwquery/pkg/frame"
)

// DefaultLimit bounds the cache the same way the report portal always has:
// once full, the oldest entry is dropped.
const DefaultLimit = 100

type entry struct {
	at time.Time
	f  *frame.Frame
}

// Cache maps query keys to frames with per-lookup freshness. Safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	limit   int
	entries map[string]entry
	order   []string
	now     func() time.Time
}

func New(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Cache{
		limit:   limit,
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// Key derives the cache key for a query and its parameters.
func Key(query string, args []interface{}) string {
	if len(args) == 0 {
		return query
	}
	return fmt.Sprintf("%s|%v", query, args)
}

// Get returns a copy of the cached frame when one exists and is younger than
// maxAge.
func (c *Cache) Get(key string, maxAge time.Duration) (*frame.Frame, bool) {
	if maxAge <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= maxAge {
		return nil, false
	}
	return e.f.Clone(), true
}

// Put stores a copy of the frame. When the cache is full the entry inserted
// longest ago is evicted.
func (c *Cache) Put(key string, f *frame.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.limit {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{at: c.now(), f: f.Clone()}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
