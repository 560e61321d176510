package ledger

import (
	"fmt"
	"sync"
	"time"
)

const reportCacheTTL = 5 * time.Minute

type cacheItem struct {
	value   any
	expires time.Time
}

// reportCache is a small in-process TTL cache for report view data.
// Every successful write busts it wholesale; reports tolerate at most
// reportCacheTTL of staleness otherwise.
type reportCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]cacheItem
}

func newReportCache(ttl time.Duration) *reportCache {
	return &reportCache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
	}
}

func (c *reportCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expires) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (c *reportCache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items[key] = cacheItem{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *reportCache) Bust() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items = make(map[string]cacheItem)
	c.mu.Unlock()
}

func reportCacheKey(tenantID int64, report string, dr DateRange) string {
	from, to := "", ""
	if dr.From != nil {
		from = dr.From.Format("2006-01-02")
	}
	if dr.To != nil {
		to = dr.To.Format("2006-01-02")
	}
	return fmt.Sprintf("report:%d:%s|%s..%s", tenantID, report, from, to)
}
