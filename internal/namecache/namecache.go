// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package namecache remembers recent Mac OS Roman to UTF-8 name conversions.
// Directory names recur in every path beneath them,
// so an archive listing converts the same few names over and over.
package namecache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
	"github.com/elliotnunn/macroman/macroman"
)

// A Cache is safe for concurrent use by multiple goroutines.
// The zero value and nil both convert without caching.
type Cache struct {
	mu  sync.Mutex
	lfu *tinylfu.T[string, string]

	hits, misses int
}

func New(n int) *Cache {
	if n <= 0 {
		return &Cache{}
	}
	return &Cache{
		lfu: tinylfu.New[string, string](n, n*10, xxhash.Sum64String),
	}
}

// String is macroman.String, cached.
func (c *Cache) String(legacy []byte) string {
	if c == nil || c.lfu == nil {
		return macroman.String(legacy)
	}

	c.mu.Lock()
	s, ok := c.lfu.Get(string(legacy))
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	if ok {
		return s
	}

	s = macroman.String(legacy)
	c.mu.Lock()
	c.lfu.Add(string(legacy), s)
	c.mu.Unlock()
	return s
}

// Stats returns the hit and miss counts so far.
func (c *Cache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
