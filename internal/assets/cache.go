package assets

import "sync"

// CacheStats reports cache usage since the last Clear.
type CacheStats struct {
	Hits    int
	Misses  int
	Entries int
	Bytes   int
}

// Cache keeps fetched OBJ text in memory, keyed by resolved location.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	bytes   int
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// Get returns the text stored for key and counts a hit or a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return data, true
}

// Set stores data under key, replacing any previous entry.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytes += len(data) - len(c.entries[key])
	c.entries[key] = data
}

// Delete drops key so the next load fetches it again.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytes -= len(c.entries[key])
	delete(c.entries, key)
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.bytes, c.hits, c.misses = 0, 0, 0
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.entries),
		Bytes:   c.bytes,
	}
}
