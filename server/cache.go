package server

import (
	"strings"
	"sync"
)

// responseCache memoizes rendered bodies for the current session.
type responseCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newResponseCache() *responseCache {
	return &responseCache{entries: map[string][]byte{}}
}

func (c *responseCache) memoKey(args ...string) string {
	return strings.Join(args, "|")
}

// get returns the cached body for key, building it on a miss. Build errors are
// not cached.
func (c *responseCache) get(key string, build func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.entries[key]; ok {
		return b, nil
	}
	b, err := build()
	if err != nil {
		return nil, err
	}
	c.entries[key] = b
	return b, nil
}
