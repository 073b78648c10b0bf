package ai

import "sync"

// Cache memoizes responses by exact prompt text. It never evicts; call
// volume is low enough that the process lifetime bounds it.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached response for prompt.
func (c *Cache) Get(prompt string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[prompt]
	return text, ok
}

// Put stores the response for prompt, replacing any previous entry.
func (c *Cache) Put(prompt, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[prompt] = text
}

// Len returns the number of cached prompts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
