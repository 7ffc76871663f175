package match

import (
	"sync"

	"github.com/vmunix/linkview/internal/api"
)

type cacheKey struct {
	query     string
	mediaType string
	year      int
}

// searchCache holds candidate lists for one match session. Repeating a
// search with the same (query, mediaType, year) hits the cache instead of
// the network. Cleared when the session commits or closes.
type searchCache struct {
	mu      sync.Mutex
	entries map[cacheKey][]api.SearchResult
}

func newSearchCache() *searchCache {
	return &searchCache{entries: make(map[cacheKey][]api.SearchResult)}
}

func (c *searchCache) get(key cacheKey) ([]api.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.entries[key]
	return results, ok
}

func (c *searchCache) set(key cacheKey, results []api.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = results
}

func (c *searchCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]api.SearchResult)
}
