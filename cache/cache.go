// Package cache provides the in-memory LRU used in front of the dedupe
// table, so hot ASINs skip a database round trip.
package cache

import (
	"container/list"
	"sync"
)

// Cacher is an interface that adds expected methods for memory caching
type Cacher interface {
	Purge()
	Add(key, value interface{}) bool
	Get(key interface{}) (interface{}, bool)
	Contains(key interface{}) bool
}

type entry struct {
	key   interface{}
	value interface{}
}

// LRUCache is a simple LRU cache implementation. A size of 0 means
// unlimited.
type LRUCache struct {
	sync.Mutex
	size      int
	items     map[interface{}]*list.Element
	evictList *list.List
}

// NewLRUCache returns a new LRU cache of the given size.
func NewLRUCache(size int) *LRUCache {
	return &LRUCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[interface{}]*list.Element),
	}
}

// Contains checks if a given key exists in the cache.
func (c *LRUCache) Contains(key interface{}) bool {
	c.Lock()
	defer c.Unlock()
	_, ok := c.items[key]
	return ok
}

// Add adds the supplied value to the cache at the given key. Returns true if
// an eviction occurred.
func (c *LRUCache) Add(key, value interface{}) bool {
	c.Lock()
	defer c.Unlock()

	if e, ok := c.items[key]; ok {
		c.evictList.MoveToFront(e)
		e.Value.(*entry).value = value
		return false
	}

	e := &entry{key, value}
	element := c.evictList.PushFront(e)
	c.items[key] = element

	if c.size > 0 && c.evictList.Len() > c.size {
		c.removeOldest()
		return true
	}
	return false
}

// Get returns the value stored at key, marking it most recently used.
func (c *LRUCache) Get(key interface{}) (interface{}, bool) {
	c.Lock()
	defer c.Unlock()

	if e, ok := c.items[key]; ok {
		c.evictList.MoveToFront(e)
		return e.Value.(*entry).value, true
	}
	return nil, false
}

// Purge empties the cache.
func (c *LRUCache) Purge() {
	c.Lock()
	defer c.Unlock()

	for k := range c.items {
		delete(c.items, k)
	}
	c.evictList.Init()
}

func (c *LRUCache) removeOldest() {
	entry := c.evictList.Back()
	if entry != nil {
		c.removeElement(entry)
	}
}

func (c *LRUCache) removeElement(element *list.Element) {
	c.evictList.Remove(element)
	e := element.Value.(*entry)
	delete(c.items, e.key)
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	c.Lock()
	defer c.Unlock()
	return c.evictList.Len()
}
