// Package cache contains in-memory caches
package cache

import (
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/xerrors"
)

// ObjectCache represents a LRU cache of decoded objects, indexed by
// their id.
// ObjectCache is safe for concurrent use
type ObjectCache struct {
	cache *lru.Cache
}

// NewObjectCache creates a new cache that can hold up to maxEntries
// objects
func NewObjectCache(maxEntries int) (*ObjectCache, error) {
	c, err := lru.New(maxEntries)
	if err != nil {
		return nil, xerrors.Errorf("could not create cache of size %d: %w", maxEntries, err)
	}
	return &ObjectCache{
		cache: c,
	}, nil
}

// Get looks up an object from the cache.
func (c *ObjectCache) Get(oid ginternals.Oid) (o *object.Object, ok bool) {
	v, found := c.cache.Get(oid)
	if !found {
		return nil, false
	}
	o, ok = v.(*object.Object)
	return o, ok
}

// Add adds an object to the cache.
func (c *ObjectCache) Add(o *object.Object) {
	c.cache.Add(o.ID(), o)
}

// Clear purges all stored items from the cache.
func (c *ObjectCache) Clear() {
	c.cache.Purge()
}

// Len returns the number of items in the cache.
func (c *ObjectCache) Len() int {
	return c.cache.Len()
}
