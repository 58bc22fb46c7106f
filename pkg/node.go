package ltable

// node.go implements the hash part: a power-of-two-sized vector of nodes
// with Brent-variant main-position chaining and the
// descending lastfree cursor.
//
// Follows the classic Lua table implementation's mainposition, getfreepos,
// _hashget, _hashset, and the `next` chain stored as an index into the
// same node vector rather than a raw pointer — indices stay valid across
// a vector move, pointers would not.
//
// © 2025 ltable authors. MIT License.

import (
	"unsafe"

	"github.com/hqwrong/ltable/internal/arena"
	"github.com/hqwrong/ltable/internal/unsafehelpers"
)

const noNext = -1

// node is one slot of the hash part. next is an index into the owning
// hashPart.nodes, or noNext at chain end. blk is non-nil only for occupied
// Str-keyed nodes, and tracks the pool allocation backing key.s so Delete
// can return it.
type node struct {
	key      Key
	next     int
	occupied bool
	blk      *poolBlock
}

// hashPart is the open-addressed table backing non-array keys. Payload
// bytes for all nodes live in one contiguous arena allocation, mirroring
// arrayPart.
type hashPart struct {
	v        int
	seed     uint32
	nodes    []node
	payload  []byte
	lastFree int // descending cursor: the last candidate scanned (starts at len(nodes))
}

// newHashPart allocates a hash part sized to hold 1<<lsize nodes (at least
// one node — I2).
func newHashPart(ar *arena.Arena, v int, seed uint32, lsize uint8) hashPart {
	size := 1 << lsize
	if !unsafehelpers.IsPowerOfTwo(uintptr(size)) {
		panic("ltable: hash vector length must be a power of two (I2)")
	}
	hp := hashPart{
		v:        v,
		seed:     seed,
		nodes:    make([]node, size),
		payload:  arena.MakeSlice[byte](ar, size*v),
		lastFree: size,
	}
	for i := range hp.nodes {
		hp.nodes[i].next = noNext
	}
	return hp
}

// size returns the hash vector length (always a power of two, >= 1 — I2).
func (hp *hashPart) size() int { return len(hp.nodes) }

func (hp *hashPart) slot(i int) []byte {
	return hp.payload[i*hp.v : (i+1)*hp.v : (i+1)*hp.v]
}

func (hp *hashPart) ptr(i int) unsafe.Pointer {
	s := hp.slot(i)
	if len(s) == 0 {
		return unsafe.Pointer(&hp.nodes[i])
	}
	return unsafe.Pointer(&s[0])
}

// mainPosition returns the index of k's main position: M(k) = hash(k) mod N.
func (hp *hashPart) mainPosition(k Key) int {
	return int(k.hash(hp.seed, hp.size()))
}

// getFreePos decrements lastFree looking for an unoccupied node, matching
// the original's _getfreepos. Returns -1 if none remain (the cursor
// only ever decreases).
func (hp *hashPart) getFreePos() int {
	for hp.lastFree > 0 {
		hp.lastFree--
		if !hp.nodes[hp.lastFree].occupied {
			return hp.lastFree
		}
	}
	return -1
}

// find walks k's main-position chain and returns the index of the
// occupied node matching k, or -1.
func (hp *hashPart) find(k Key) int {
	if len(hp.nodes) == 0 {
		return -1
	}
	i := hp.mainPosition(k)
	for i != noNext {
		n := &hp.nodes[i]
		if n.occupied && n.key.equal(k) {
			return i
		}
		i = n.next
	}
	return -1
}

// insert performs Brent-variant collision resolution. It
// returns the index of the node now holding k, or -1 if the hash part has
// no free slot (caller must rehash and retry).
func (hp *hashPart) insert(k Key) int {
	mp := hp.mainPosition(k)
	if !hp.nodes[mp].occupied {
		hp.placeAt(mp, k)
		return mp
	}

	free := hp.getFreePos()
	if free == -1 {
		return -1
	}

	collidingKey := hp.nodes[mp].key
	otherMain := hp.mainPosition(collidingKey)
	if otherMain != mp {
		// The occupant of mp is displaced from its own main position:
		// find the chain predecessor and relink it to the free slot,
		// then move the occupant there, freeing mp for the new key.
		pred := otherMain
		for hp.nodes[pred].next != mp {
			pred = hp.nodes[pred].next
		}
		hp.nodes[pred].next = free
		hp.nodes[free] = hp.nodes[mp]
		hp.nodes[mp].next = noNext
		copy(hp.slot(free), hp.slot(mp))
		hp.placeAt(mp, k)
		return mp
	}

	// The occupant of mp is in its own main position: splice the new key
	// into the free slot at the head of mp's chain.
	hp.nodes[free].next = hp.nodes[mp].next
	hp.nodes[mp].next = free
	hp.placeAt(free, k)
	return free
}

// placeAt writes k into node i as a fresh occupant. Callers are
// responsible for having already preserved i's previous chain linkage
// where required.
func (hp *hashPart) placeAt(i int, k Key) {
	hp.nodes[i].key = k
	hp.nodes[i].occupied = true
}

// delete clears node i's occupied flag; the node stays linked in its chain
// (subsequent lookups skip it because equality is only checked on occupied
// nodes — see find).
func (hp *hashPart) delete(i int) *poolBlock {
	blk := hp.nodes[i].blk
	hp.nodes[i].occupied = false
	hp.nodes[i].blk = nil
	hp.nodes[i].key = Key{}
	return blk
}
