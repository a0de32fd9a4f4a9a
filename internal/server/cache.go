package server

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
)

// fileCache is an LRU of records keyed by ID. Entries are only valid for
// the store state they were read at: the whole cache is purged as soon as
// the store reports a newer change.
type fileCache struct {
	reader dumper.Reader
	lru    *expirable.LRU[int64, *sqlc.File]

	mu sync.Mutex
	at dumper.Change
}

func newFileCache(reader dumper.Reader, size int, ttl time.Duration) *fileCache {
	_, at := reader.Watch()
	return &fileCache{
		reader: reader,
		lru:    expirable.NewLRU[int64, *sqlc.File](size, nil, ttl),
		at:     at,
	}
}

// sync purges the cache if the store has changed since it was filled.
func (c *fileCache) sync() dumper.Change {
	_, now := c.reader.Watch()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now != c.at {
		c.lru.Purge()
		c.at = now
		cachePurgesTotal.Inc()
	}
	return now
}

// Get returns the cached record for id, if still current.
func (c *fileCache) Get(id int64) (*sqlc.File, bool) {
	c.sync()
	f, ok := c.lru.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return f, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Add caches f, which was read at state change. Records read before the
// most recent purge are dropped.
func (c *fileCache) Add(f *sqlc.File, change dumper.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if change != c.at {
		return
	}
	c.lru.Add(f.ID, f)
}

// Len returns the number of cached records.
func (c *fileCache) Len() int {
	return c.lru.Len()
}
