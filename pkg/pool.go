package ltable

// pool.go implements the string pool: a grow-only arena for string-key
// bytes copied in at insertion, with a free list permitting reuse of
// released blocks (every string-keyed node owns its key bytes via the
// pool; deletion returns them).
//
// The free list is FIFO by release order, not bucketed by block capacity:
// a released large block can satisfy a later small request and a small
// block never gets reused for a larger one. This can retain oversized
// blocks longer than a size-bucketed allocator would, which is acceptable
// for the expected key-size distribution.
//
// Backing memory comes from internal/arena rather than malloc, so pool
// slabs are released in one shot when the table itself is released.
//
// © 2025 ltable authors. MIT License.

import (
	"github.com/hqwrong/ltable/internal/arena"
	"github.com/hqwrong/ltable/internal/unsafehelpers"
)

// poolShortStringMin mirrors the original's SHORTSTR_LEN: allocations
// smaller than this are rounded up, so short-lived short strings recycle
// into a common size class instead of fragmenting the free list.
const poolShortStringMin = 128

// poolBlock is one interned allocation, kept either live (referenced by a
// node's key) or parked on the free list for reuse.
type poolBlock struct {
	buf  []byte // capacity is the allocation size; len is the live content length
	next *poolBlock
}

// stringPool owns the byte storage backing every Str key currently present
// in the hash part of one table.
type stringPool struct {
	ar       *arena.Arena
	freeList *poolBlock
}

func newStringPool(ar *arena.Arena) *stringPool {
	return &stringPool{ar: ar}
}

// intern copies s into pool-owned memory and returns it as a string backed
// by that memory (zero extra allocation beyond the pool block itself), plus
// the block so Delete can return it to the free list later.
func (p *stringPool) intern(s string) (string, *poolBlock) {
	need := len(s)
	blk := p.allocBlock(need)
	copy(blk.buf[:need], s)
	blk.buf = blk.buf[:need]
	return unsafehelpers.BytesToString(blk.buf), blk
}

// allocBlock finds a free block with sufficient capacity, or carves a new
// one from the arena. Matches pool_alloc's first-fit scan over the free
// list, rounding tiny requests up to poolShortStringMin.
func (p *stringPool) allocBlock(need int) *poolBlock {
	sz := need
	if sz < poolShortStringMin {
		sz = poolShortStringMin
	}

	prev := (*poolBlock)(nil)
	cur := p.freeList
	for cur != nil {
		if cap(cur.buf) >= sz {
			if prev == nil {
				p.freeList = cur.next
			} else {
				prev.next = cur.next
			}
			cur.next = nil
			cur.buf = cur.buf[:cap(cur.buf)]
			return cur
		}
		prev, cur = cur, cur.next
	}

	raw := arena.MakeSlice[byte](p.ar, sz)
	return &poolBlock{buf: raw}
}

// release returns blk's storage to the free list for reuse by a future
// intern call. The arena backing it is not reclaimed until the whole table
// (and its arena) is released — see Table.Release.
func (p *stringPool) release(blk *poolBlock) {
	if blk == nil {
		return
	}
	blk.next = nil
	if p.freeList == nil {
		p.freeList = blk
		return
	}
	last := p.freeList
	for last.next != nil {
		last = last.next
	}
	last.next = blk
}
