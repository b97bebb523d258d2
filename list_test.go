/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package strictlru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// checkLinks walks the list both ways and verifies that the older/newer
// links mirror each other and that the walk visits exactly size slots.
func checkLinks(t *testing.T, l *orderList[string, int]) {
	t.Helper()

	var forward []int
	for i := l.oldest(); i != noSlot; i = l.slots[i].newer {
		forward = append(forward, i)
	}
	var backward []int
	for i := l.newest(); i != noSlot; i = l.slots[i].older {
		backward = append(backward, i)
	}

	require.Len(t, forward, l.len())
	require.Len(t, backward, l.len())
	for n, i := range forward {
		require.Equal(t, i, backward[len(backward)-1-n])
	}

	if l.len() == 0 {
		require.Equal(t, noSlot, l.oldest())
		require.Equal(t, noSlot, l.newest())
		return
	}
	require.Equal(t, noSlot, l.slots[l.oldest()].older)
	require.Equal(t, noSlot, l.slots[l.newest()].newer)
	if l.len() == 1 {
		require.Equal(t, l.oldest(), l.newest())
	}
}

func pushEntries(l *orderList[string, int], keys ...string) map[string]int {
	slots := make(map[string]int, len(keys))
	for n, key := range keys {
		i := l.alloc(key, n)
		l.pushNewest(i)
		slots[key] = i
	}
	return slots
}

func TestOrderListPushAndWalk(t *testing.T) {
	l := newOrderList[string, int](4)
	checkLinks(t, &l)

	pushEntries(&l, "a", "b", "c")
	checkLinks(t, &l)

	require.Equal(t, "a", l.slots[l.oldest()].key)
	require.Equal(t, "c", l.slots[l.newest()].key)
}

func TestOrderListUnlinkPositions(t *testing.T) {
	tests := []struct {
		name   string
		unlink string
	}{
		{name: "oldest", unlink: "a"},
		{name: "interior", unlink: "b"},
		{name: "newest", unlink: "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newOrderList[string, int](4)
			slots := pushEntries(&l, "a", "b", "c")

			l.unlink(slots[tt.unlink])
			require.Equal(t, 2, l.len())
			checkLinks(t, &l)
			for i := l.oldest(); i != noSlot; i = l.slots[i].newer {
				require.NotEqual(t, tt.unlink, l.slots[i].key)
			}
		})
	}

	t.Run("sole entry", func(t *testing.T) {
		l := newOrderList[string, int](4)
		slots := pushEntries(&l, "a")
		l.unlink(slots["a"])
		require.Equal(t, 0, l.len())
		checkLinks(t, &l)
	})
}

func TestOrderListMoveToNewest(t *testing.T) {
	l := newOrderList[string, int](4)
	slots := pushEntries(&l, "a", "b", "c")

	l.moveToNewest(slots["a"])
	checkLinks(t, &l)
	require.Equal(t, "b", l.slots[l.oldest()].key)
	require.Equal(t, "a", l.slots[l.newest()].key)

	// Promoting the newest slot must not change anything.
	l.moveToNewest(slots["a"])
	checkLinks(t, &l)
	require.Equal(t, "b", l.slots[l.oldest()].key)
	require.Equal(t, "a", l.slots[l.newest()].key)
}

func TestOrderListFreeSlotReuse(t *testing.T) {
	l := newOrderList[string, int](4)
	slots := pushEntries(&l, "a", "b", "c")

	l.unlink(slots["b"])
	l.release(slots["b"])
	require.False(t, l.slots[slots["b"]].used)

	// The freed slot is reused before the arena grows.
	arenaLen := len(l.slots)
	i := l.alloc("d", 3)
	require.Equal(t, slots["b"], i)
	require.Equal(t, arenaLen, len(l.slots))

	l.pushNewest(i)
	checkLinks(t, &l)
	require.Equal(t, "d", l.slots[l.newest()].key)
}

func TestOrderListReset(t *testing.T) {
	l := newOrderList[string, int](4)
	pushEntries(&l, "a", "b", "c")

	l.reset()
	require.Equal(t, 0, l.len())
	checkLinks(t, &l)

	pushEntries(&l, "x")
	require.Equal(t, "x", l.slots[l.oldest()].key)
	require.Equal(t, "x", l.slots[l.newest()].key)
}
