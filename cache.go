/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package strictlru

import (
	"errors"
)

// MinCapacity is the smallest number of entries a cache may be limited to.
// Capacity values below this floor are clamped, never rejected.
const MinCapacity = 2

// ErrKeyExists is returned by Put when the key is already present.
// Callers that want upsert semantics should use Set instead.
var ErrKeyExists = errors.New("key already exists")

// IterOrder selects the traversal direction for Each.
type IterOrder int

const (
	// IterNewestFirst walks entries from most recently used to least recently used.
	IterNewestFirst IterOrder = iota

	// IterOldestFirst walks entries from least recently used to most recently used.
	IterOldestFirst
)

// LRUCache is a bounded key-value cache with strict least-recently-used
// eviction and Prometheus metrics. All operations run in O(1) amortized time.
//
// The cache is not safe for concurrent use. An embedding system that shares
// one instance between goroutines must serialize access externally.
type LRUCache[K comparable, V any] struct {
	capacity int

	order orderList[K, V]
	index map[K]int // key -> arena slot of the entry

	metricsCollector MetricsCollector
}

// New creates a new LRUCache with the provided capacity and metrics collector.
// Capacity below MinCapacity is clamped to it. Metrics collector is used to
// collect statistics about cache usage; it can be nil, in this case, metrics
// will be disabled.
func New[K comparable, V any](capacity int, metricsCollector MetricsCollector) *LRUCache[K, V] {
	capacity = normalizeCapacity(capacity)
	if metricsCollector == nil {
		metricsCollector = disabledMetrics{}
	}
	return &LRUCache[K, V]{
		capacity:         capacity,
		order:            newOrderList[K, V](capacity),
		index:            make(map[K]int, capacity),
		metricsCollector: metricsCollector,
	}
}

// normalizeCapacity validates a requested capacity.
// Any value below MinCapacity (including zero and negatives) is clamped to
// MinCapacity. The result is always a usable capacity; there is no error case.
func normalizeCapacity(capacity int) int {
	if capacity < MinCapacity {
		return MinCapacity
	}
	return capacity
}

// Get returns the value stored under key and promotes the entry to most
// recently used. The second result reports whether the key was present.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	i, hit := c.index[key]
	if !hit {
		c.metricsCollector.IncMisses()
		return value, false
	}
	c.order.moveToNewest(i)
	c.metricsCollector.IncHits()
	return c.order.slots[i].value, true
}

// Peek returns the value stored under key without affecting recency order.
func (c *LRUCache[K, V]) Peek(key K) (value V, ok bool) {
	i, hit := c.index[key]
	if !hit {
		return value, false
	}
	return c.order.slots[i].value, true
}

// Contains reports whether key is present without affecting recency order.
func (c *LRUCache[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Put inserts a new entry as most recently used. If the cache is full, the
// least recently used entry is evicted and returned. Put never replaces an
// existing entry: inserting a present key returns ErrKeyExists and leaves
// the cache unchanged.
func (c *LRUCache[K, V]) Put(key K, value V) (evictedKey K, evictedValue V, evicted bool, err error) {
	if _, ok := c.index[key]; ok {
		return evictedKey, evictedValue, false, ErrKeyExists
	}
	evictedKey, evictedValue, evicted = c.addNew(key, value)
	return evictedKey, evictedValue, evicted, nil
}

// Set stores value under key. If the key exists, its entry is promoted to
// most recently used and the previous value is returned. If the key is new,
// the entry is inserted and, when the insertion evicts the least recently
// used entry, the evicted value is returned. ok reports whether any old
// value (previous or evicted) is being returned.
func (c *LRUCache[K, V]) Set(key K, value V) (old V, ok bool) {
	if i, hit := c.index[key]; hit {
		c.order.moveToNewest(i)
		old = c.order.slots[i].value
		c.order.slots[i].value = value
		return old, true
	}
	_, evictedValue, evicted := c.addNew(key, value)
	return evictedValue, evicted
}

// GetOrAdd returns the value stored under key, promoting the entry.
// If the key does not exist, valueProvider is called and its result is
// inserted as most recently used. exists reports whether the value was
// already cached.
func (c *LRUCache[K, V]) GetOrAdd(key K, valueProvider func() V) (value V, exists bool) {
	if value, exists = c.Get(key); exists {
		return value, true
	}
	value = valueProvider()
	c.addNew(key, value)
	return value, false
}

// Remove deletes the entry stored under key from any position in the order
// and returns its value.
func (c *LRUCache[K, V]) Remove(key K) (value V, ok bool) {
	i, hit := c.index[key]
	if !hit {
		return value, false
	}
	value = c.order.slots[i].value
	c.order.unlink(i)
	c.order.release(i)
	delete(c.index, key)
	c.metricsCollector.SetAmount(len(c.index))
	return value, true
}

// RemoveOldest removes and returns the least recently used entry.
// It is the manual form of the eviction Put performs on overflow and can be
// used to drain the cache in eviction order.
func (c *LRUCache[K, V]) RemoveOldest() (key K, value V, ok bool) {
	key, value, ok = c.removeOldest()
	if ok {
		c.metricsCollector.SetAmount(len(c.index))
	}
	return key, value, ok
}

// Keys returns all present keys. The order is unspecified and in particular
// does not reflect recency; use Each for an ordered traversal.
func (c *LRUCache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}
	return keys
}

// Each calls visit for every entry in the requested recency order without
// affecting that order. Traversal stops early if visit returns false.
func (c *LRUCache[K, V]) Each(order IterOrder, visit func(key K, value V) bool) {
	i := c.order.newest()
	if order == IterOldestFirst {
		i = c.order.oldest()
	}
	for i != noSlot {
		s := &c.order.slots[i]
		if !visit(s.key, s.value) {
			return
		}
		if order == IterOldestFirst {
			i = s.newer
		} else {
			i = s.older
		}
	}
}

// Len returns the number of entries in the cache.
func (c *LRUCache[K, V]) Len() int {
	return len(c.index)
}

// Limit returns the current capacity.
func (c *LRUCache[K, V]) Limit() int {
	return c.capacity
}

// Resize changes the capacity and returns the number of evicted entries.
// The new capacity is clamped to MinCapacity; if it is smaller than the
// current number of entries, the oldest entries are evicted until the cache
// fits. This is the only operation besides explicit removal that can evict
// more than one entry per call.
func (c *LRUCache[K, V]) Resize(capacity int) (evicted int) {
	c.capacity = normalizeCapacity(capacity)
	evicted = len(c.index) - c.capacity
	if evicted <= 0 {
		return 0
	}
	for i := 0; i < evicted; i++ {
		c.removeOldest()
	}
	c.metricsCollector.SetAmount(len(c.index))
	c.metricsCollector.AddEvictions(evicted)
	return evicted
}

// Purge drops all entries. Capacity is unchanged.
// Keep in mind that this method does not reset Prometheus metrics except for
// the total number of entries, and the removed entries are not counted as
// evictions.
func (c *LRUCache[K, V]) Purge() {
	c.order.reset()
	c.index = make(map[K]int, c.capacity)
	c.metricsCollector.SetAmount(0)
}

// addNew links a new entry at the MRU end, evicting the oldest entry first
// if the cache is full.
func (c *LRUCache[K, V]) addNew(key K, value V) (evictedKey K, evictedValue V, evicted bool) {
	if len(c.index) >= c.capacity {
		evictedKey, evictedValue, evicted = c.removeOldest()
		if evicted {
			c.metricsCollector.AddEvictions(1)
		}
	}
	i := c.order.alloc(key, value)
	c.order.pushNewest(i)
	c.index[key] = i
	c.metricsCollector.SetAmount(len(c.index))
	return evictedKey, evictedValue, evicted
}

func (c *LRUCache[K, V]) removeOldest() (key K, value V, ok bool) {
	i := c.order.oldest()
	if i == noSlot {
		return key, value, false
	}
	key = c.order.slots[i].key
	value = c.order.slots[i].value
	c.order.unlink(i)
	c.order.release(i)
	delete(c.index, key)
	return key, value, true
}
