// Package cache provides a bounded in-memory image cache with
// least-recently-used eviction, limited both by entry count and by total
// byte size.
package cache

import (
	"container/list"
	"sync"
)

type entry struct {
	key   string
	value []byte
}

// LRU is a concurrency-safe, access-ordered cache. If maxEntries is <= 0 the
// entry count is unlimited; likewise for maxBytes.
type LRU struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64

	bytes     int64
	evictions int64
	order     *list.List
	items     map[string]*list.Element
}

func NewLRU(maxEntries int, maxBytes int64) *LRU {
	return &LRU{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Get returns the cached value and marks it most recently used.
func (c *LRU) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Put stores a value, replacing any previous entry for the key, then evicts
// least-recently-used entries until both limits hold again.
func (c *LRU) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		c.bytes += int64(len(value)) - int64(len(ent.value))
		ent.value = value
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&entry{key: key, value: value})
		c.items[key] = el
		c.bytes += int64(len(value))
	}

	for c.overLimit() {
		c.evictOldest()
	}
}

// Remove drops the entry for key if present. A targeted removal does not
// count as an eviction.
func (c *LRU) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

// Purge drops all entries.
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.bytes = 0
}

// Len returns the current entry count.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Bytes returns the current total value size.
func (c *LRU) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// EvictionCount returns how many entries were evicted to enforce limits.
func (c *LRU) EvictionCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictions
}

func (c *LRU) overLimit() bool {
	if c.order.Len() == 0 {
		return false
	}
	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		return true
	}
	if c.maxBytes > 0 && c.bytes > c.maxBytes {
		return true
	}
	return false
}

func (c *LRU) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.remove(el)
	c.evictions++
}

func (c *LRU) remove(el *list.Element) {
	ent := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, ent.key)
	c.bytes -= int64(len(ent.value))
}
