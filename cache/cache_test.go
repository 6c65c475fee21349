package cache_test

import (
	"testing"

	"leadfilter/cache"

	gc "gopkg.in/check.v1"
)

func TestCache(t *testing.T) { gc.TestingT(t) }

type CacheSuite struct{}

var _ = gc.Suite(&CacheSuite{})

func (s *CacheSuite) TestLRUCacheIsCacher(c *gc.C) {
	lru := cache.NewLRUCache(5)

	if _, ok := interface{}(lru).(cache.Cacher); !ok {
		c.Error("LRUCache does not implement Cacher interface")
	}
}

func (s *CacheSuite) TestLRUCacheContains(c *gc.C) {
	cache := cache.NewLRUCache(5)

	ok := cache.Contains("foo")
	c.Assert(ok, gc.Equals, false)

	evicted := cache.Add("foo", "bar")
	c.Assert(evicted, gc.Equals, false)

	ok = cache.Contains("foo")
	c.Assert(ok, gc.Equals, true)
}

func (s *CacheSuite) TestLRUCacheAdd(c *gc.C) {
	cache := cache.NewLRUCache(1)

	c.Assert(cache.Len(), gc.Equals, 0)

	cache.Add("foo", "bar")
	c.Assert(cache.Contains("foo"), gc.Equals, true)
	c.Assert(cache.Len(), gc.Equals, 1)

	// Add a value for an existing key should not change the Len()
	cache.Add("foo", "baz")
	c.Assert(cache.Contains("foo"), gc.Equals, true)
	c.Assert(cache.Len(), gc.Equals, 1)

	// Adding a new key should cause an eviction since the cache size is 1
	cache.Add("bar", "baz")
	c.Assert(cache.Contains("bar"), gc.Equals, true)
	c.Assert(cache.Contains("foo"), gc.Equals, false)
	c.Assert(cache.Len(), gc.Equals, 1)
}

func (s *CacheSuite) TestLRUCacheUnlimitedSize(c *gc.C) {
	cache := cache.NewLRUCache(0)
	c.Assert(cache.Len(), gc.Equals, 0)

	cache.Add("foo", "bar")
	c.Assert(cache.Len(), gc.Equals, 1)
}

func (s *CacheSuite) TestLRUCacheGet(c *gc.C) {
	cache := cache.NewLRUCache(1)

	c.Assert(cache.Len(), gc.Equals, 0)

	cache.Add("foo", "bar")

	v, ok := cache.Get("foo")
	c.Assert(ok, gc.Equals, true)
	c.Assert(v, gc.Equals, "bar")

	v, ok = cache.Get("invalid")
	c.Assert(ok, gc.Equals, false)
	c.Assert(v, gc.IsNil)
}

func (s *CacheSuite) TestLRUCachePurge(c *gc.C) {
	cache := cache.NewLRUCache(5)

	c.Assert(cache.Len(), gc.Equals, 0)

	keys := []string{"a", "b", "c", "d", "e"}
	for v := range keys {
		cache.Add(v, &struct{}{})
	}

	c.Assert(cache.Len(), gc.Equals, 5)
	cache.Purge()
	c.Assert(cache.Len(), gc.Equals, 0)
}
