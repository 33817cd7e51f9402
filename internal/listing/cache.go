package listing

import (
	"sync"
	"time"
)

// Entry is a cached fetch outcome. A failed fetch is cached too so the
// error can be shown; the next lookup retries it.
type Entry[V any] struct {
	FetchedAt time.Time
	Value     V
	Err       error
}

func (e Entry[V]) OK() bool { return e.Err == nil }

// Cache is an in-memory map of fetch outcomes. It is safe for concurrent
// use.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]Entry[V]
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]Entry[V])}
}

func (c *Cache[K, V]) Get(key K) (Entry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	return e, ok
}

func (c *Cache[K, V]) Set(key K, e Entry[V]) {
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Retain drops every entry keep rejects and returns how many were dropped.
func (c *Cache[K, V]) Retain(keep func(K, Entry[V]) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.items {
		if !keep(k, e) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Update replaces the entry at key with fn's result when present.
func (c *Cache[K, V]) Update(key K, fn func(Entry[V]) Entry[V]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.items[key] = fn(e)
	return true
}

// Keys returns a snapshot of the cached keys.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]K, 0, len(c.items))
	for k := range c.items {
		out = append(out, k)
	}
	return out
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]Entry[V])
	c.mu.Unlock()
}
