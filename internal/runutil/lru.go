// internal/runutil/lru.go
package runutil

import (
	"container/list"
	"sync"
)

// LRU is a size-bounded map with O(1) get/put and least-recently-used
// eviction. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu  sync.Mutex
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

type lruNode[K comparable, V any] struct {
	k K
	v V
}

func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 64
	}
	return &LRU[K, V]{cap: capacity, ll: list.New(), m: make(map[K]*list.Element, capacity)}
}

// Get returns the value for k and marks it recently used.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[k]; ok {
		c.ll.MoveToFront(e)
		return e.Value.(*lruNode[K, V]).v, true
	}
	var zero V
	return zero, false
}

// Put stores v under k, evicting the oldest entry when full.
func (c *LRU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[k]; ok {
		e.Value.(*lruNode[K, V]).v = v
		c.ll.MoveToFront(e)
		return
	}
	c.m[k] = c.ll.PushFront(&lruNode[K, V]{k: k, v: v})
	if c.ll.Len() > c.cap {
		if tail := c.ll.Back(); tail != nil {
			c.ll.Remove(tail)
			delete(c.m, tail.Value.(*lruNode[K, V]).k)
		}
	}
}

// Len is the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
