// Package cache memoizes platform reads keyed by resource and filters.
// Entries live until the owning resource is invalidated.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryCache is safe for concurrent use.
type QueryCache struct {
	mu          sync.RWMutex
	entries     map[string]map[string]any
	generations map[string]uint64
	group       singleflight.Group
}

func New() *QueryCache {
	return &QueryCache{
		entries:     make(map[string]map[string]any),
		generations: make(map[string]uint64),
	}
}

// Key builds the cache key for a resource and its filters. Empty filter values
// are dropped so that "?status=" and no status share an entry.
func Key(resource string, filters url.Values) string {
	clean := url.Values{}
	for k, values := range filters {
		for _, v := range values {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return resource
	}
	return resource + "?" + clean.Encode()
}

// Fetch returns the cached value for (resource, filters) or calls load. With
// refresh set the cache is bypassed and the entry replaced. Concurrent calls
// for the same key share one load. The load keeps running if ctx is cancelled;
// only this caller stops waiting. Errors are never cached.
func Fetch[T any](ctx context.Context, c *QueryCache, resource string, filters url.Values, refresh bool, load func(context.Context) (T, error)) (T, error) {
	var zero T
	key := Key(resource, filters)

	if !refresh {
		if cached, ok := c.lookup(resource, key); ok {
			if typed, ok := cached.(T); ok {
				return typed, nil
			}
		}
	}

	gen := c.generation(resource)
	flightKey := fmt.Sprintf("%s#%d", key, gen)
	loadCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(resource, key, gen, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: unexpected %T for %s", res.Val, key)
		}
		return typed, nil
	}
}

// Invalidate drops every entry of the given resources. Loads already in flight
// for those resources will not repopulate the cache.
func (c *QueryCache) Invalidate(resources ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, resource := range resources {
		delete(c.entries, resource)
		c.generations[resource]++
	}
}

// Len returns the number of cached entries across all resources.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, byKey := range c.entries {
		total += len(byKey)
	}
	return total
}

func (c *QueryCache) lookup(resource, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[resource][key]
	return value, ok
}

func (c *QueryCache) generation(resource string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[resource]
}

func (c *QueryCache) store(resource, key string, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[resource] != gen {
		return
	}
	byKey, ok := c.entries[resource]
	if !ok {
		byKey = make(map[string]any)
		c.entries[resource] = byKey
	}
	byKey[key] = value
}
