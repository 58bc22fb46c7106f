package ltable

import (
	"testing"

	"github.com/hqwrong/ltable/internal/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPartBasicInsertFindDelete(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	hp := newHashPart(ar, 4, 1, 2) // 4 nodes
	require.Equal(t, 4, hp.size())

	k := StrKey("hello")
	i := hp.insert(k)
	require.NotEqual(t, -1, i)
	copy(hp.slot(i), []byte{1, 2, 3, 4})

	found := hp.find(k)
	assert.Equal(t, i, found)

	hp.delete(i)
	assert.Equal(t, -1, hp.find(k), "deleted node should no longer be found")
}

func TestHashPartMainPositionInvariant(t *testing.T) {
	// Every occupied node is either at its key's main position, or
	// reachable from it by following next. Sized generously (8 nodes for
	// 7 keys) so the test isolates the chaining invariant from growth.
	ar := arena.New()
	defer ar.Free()

	hp := newHashPart(ar, 0, 7, 3) // 8 nodes, deliberately collision-prone seed
	keys := []Key{
		IntKey(1), IntKey(2), IntKey(3), IntKey(4),
		StrKey("a"), StrKey("b"), StrKey("c"),
	}
	for _, k := range keys {
		require.NotEqual(t, -1, hp.insert(k))
	}

	for i := range hp.nodes {
		n := &hp.nodes[i]
		if !n.occupied {
			continue
		}
		mp := hp.mainPosition(n.key)
		if mp == i {
			continue
		}
		// n must be reachable from mp by following next.
		reachable := false
		for j := mp; j != noNext; j = hp.nodes[j].next {
			if j == i {
				reachable = true
				break
			}
		}
		assert.True(t, reachable, "node %d (key displaced from main position %d) must be reachable from it", i, mp)
	}
}

func TestGetFreePosOnlyDecreases(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	hp := newHashPart(ar, 0, 1, 2) // 4 nodes
	require.Equal(t, 4, hp.lastFree)

	f1 := hp.getFreePos()
	require.NotEqual(t, -1, f1)
	hp.nodes[f1].occupied = true

	f2 := hp.getFreePos()
	require.NotEqual(t, -1, f2)
	assert.Less(t, f2, f1)
}

func TestGetFreePosExhausted(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	hp := newHashPart(ar, 0, 1, 0) // 1 node
	f := hp.getFreePos()
	require.NotEqual(t, -1, f)
	hp.nodes[f].occupied = true

	assert.Equal(t, -1, hp.getFreePos())
}
