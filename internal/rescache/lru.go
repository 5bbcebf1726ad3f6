// internal/rescache/lru.go
//
// Least-recently-used map with per-entry expiry.  Not safe for concurrent
// use; Cache guards it with a mutex.
package rescache

import (
	"container/list"
	"time"
)

type lru[V any] struct {
	cap  int
	ll   *list.List
	dict map[string]*list.Element
}

type item[V any] struct {
	key string
	val V
	exp time.Time
}

func newLRU[V any](capacity int) *lru[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &lru[V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[string]*list.Element, capacity),
	}
}

// get returns a live value and marks it MRU.  Expired entries are removed.
func (c *lru[V]) get(key string, now time.Time) (val V, ok bool) {
	ele, hit := c.dict[key]
	if !hit {
		return val, false
	}
	it := ele.Value.(item[V])
	if !now.Before(it.exp) {
		c.ll.Remove(ele)
		delete(c.dict, key)
		return val, false
	}
	c.ll.MoveToFront(ele)
	return it.val, true
}

// add inserts or updates a value and evicts the LRU tail past capacity.
func (c *lru[V]) add(key string, val V, exp time.Time) {
	if ele, hit := c.dict[key]; hit {
		ele.Value = item[V]{key, val, exp}
		c.ll.MoveToFront(ele)
		return
	}
	c.dict[key] = c.ll.PushFront(item[V]{key, val, exp})
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(item[V]).key)
	}
}

func (c *lru[V]) len() int { return c.ll.Len() }
