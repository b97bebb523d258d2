/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package strictlru

// noSlot marks an absent link or an empty list end.
const noSlot = -1

// slot is one arena cell. All cells live in a single slice so that recency
// links are stable indices instead of node pointers. Freed slots are chained
// through the newer link and reused by later insertions.
type slot[K comparable, V any] struct {
	key   K
	value V
	older int // toward the LRU end; noSlot if this is the oldest entry
	newer int // toward the MRU end; noSlot if this is the newest entry
	used  bool
}

// orderList keeps cache entries in recency order inside an index-addressed
// arena. head is the least recently used slot, tail the most recently used.
type orderList[K comparable, V any] struct {
	slots []slot[K, V]
	head  int
	tail  int
	free  int // first slot of the free chain, linked via newer
	size  int
}

func newOrderList[K comparable, V any](capacityHint int) orderList[K, V] {
	return orderList[K, V]{
		slots: make([]slot[K, V], 0, capacityHint),
		head:  noSlot,
		tail:  noSlot,
		free:  noSlot,
	}
}

// alloc takes a slot from the free chain (or grows the arena) and fills it.
// The returned slot is not linked yet.
func (l *orderList[K, V]) alloc(key K, value V) int {
	var i int
	if l.free != noSlot {
		i = l.free
		l.free = l.slots[i].newer
	} else {
		l.slots = append(l.slots, slot[K, V]{})
		i = len(l.slots) - 1
	}
	l.slots[i] = slot[K, V]{key: key, value: value, older: noSlot, newer: noSlot, used: true}
	return i
}

// pushNewest links slot i at the MRU end.
func (l *orderList[K, V]) pushNewest(i int) {
	l.slots[i].older = l.tail
	l.slots[i].newer = noSlot
	if l.tail != noSlot {
		l.slots[l.tail].newer = i
	} else {
		l.head = i
	}
	l.tail = i
	l.size++
}

// unlink detaches slot i from the order without releasing it.
// Covers all four positions: interior, oldest, newest, sole entry.
func (l *orderList[K, V]) unlink(i int) {
	s := &l.slots[i]
	if s.older != noSlot {
		l.slots[s.older].newer = s.newer
	} else {
		l.head = s.newer
	}
	if s.newer != noSlot {
		l.slots[s.newer].older = s.older
	} else {
		l.tail = s.older
	}
	s.older = noSlot
	s.newer = noSlot
	l.size--
}

// moveToNewest promotes slot i to the MRU end. Promoting the newest entry
// is a no-op.
func (l *orderList[K, V]) moveToNewest(i int) {
	if l.tail == i {
		return
	}
	l.unlink(i)
	l.pushNewest(i)
}

// release returns slot i to the free chain and drops its key and value so
// the stored data can be collected.
func (l *orderList[K, V]) release(i int) {
	l.slots[i] = slot[K, V]{newer: l.free, older: noSlot}
	l.free = i
}

func (l *orderList[K, V]) oldest() int {
	return l.head
}

func (l *orderList[K, V]) newest() int {
	return l.tail
}

func (l *orderList[K, V]) len() int {
	return l.size
}

// reset drops all slots. The arena's backing storage is kept for reuse.
func (l *orderList[K, V]) reset() {
	l.slots = l.slots[:0]
	l.head = noSlot
	l.tail = noSlot
	l.free = noSlot
	l.size = 0
}
