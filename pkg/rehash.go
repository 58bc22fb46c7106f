package ltable

// rehash.go implements the repartitioner: a census of
// current occupancy plus the key that triggered the rehash, the
// computesizes sweep that picks the new array/hash split, and the full
// relocation that rebuilds both parts against a freshly rotated
// allocation generation.
//
// Follows the classic Lua table implementation's ceillog2, countint, numusearray,
// numusehash, computesizes, _resize_node, _resize, _rehash.
//
// © 2025 ltable authors. MIT License.

import (
	"math/bits"

	"github.com/hqwrong/ltable/internal/slabring"
	"go.uber.org/zap"
)

const (
	maxBits  = 30
	maxASize = 1 << maxBits
)

// ceilLog2 returns the smallest l such that 1<<l >= x, for x >= 1.
// Equivalent to the original's table-driven _ceillog2, expressed with
// math/bits since Go has a portable bit-length primitive the 1990s-vintage
// C original did not.
func ceilLog2(x int) uint8 {
	if x <= 1 {
		return 0
	}
	return uint8(bits.Len(uint(x - 1)))
}

// sliceOf returns the slice index g such that 2^(g-1) <= k < 2^g (slice 0
// is {0}), i.e. the bit length of k.
func sliceOf(k int64) int {
	if k == 0 {
		return 0
	}
	return bits.Len64(uint64(k))
}

// countInt increments nums[sliceOf(k)] and returns 1 if k is the array
// index payload of an Int key that is an "appropriate array index" — i.e.
// 0 <= k <= maxASize — else returns 0 without touching nums.
func countInt(k Key, nums []int) int {
	idx := k.arrayIndex()
	if idx < 0 || idx > maxASize {
		return 0
	}
	nums[sliceOf(idx)]++
	return 1
}

// numUseArray counts the array part's occupied slots into their slices and
// returns the total.
func (t *Table) numUseArray(nums []int) int {
	ause := 0
	for i, occ := range t.arr.occupied {
		if occ {
			nums[sliceOf(int64(i))]++
			ause++
		}
	}
	return ause
}

// numUseHash counts the hash part's occupied nodes. total is every
// occupied node; ause is the subset that are array-eligible Int keys
// (already folded into nums).
func (t *Table) numUseHash(nums []int) (total, ause int) {
	for i := range t.hp.nodes {
		n := &t.hp.nodes[i]
		if !n.occupied {
			continue
		}
		total++
		ause += countInt(n.key, nums)
	}
	return total, ause
}

// computeSizes sweeps slices from g=0 upward, tracking the running count a
// of integer keys < 2^g, and picks the largest 2^g whose array-part load
// factor would exceed one half (a > twotoi/2). nasize is the total number
// of integer keys known so far (array + hash + pending); the sweep stops
// early once the running count reaches it. Returns the chosen array size
// (a power of two, or 0) and na, the number of keys that fall within it.
func computeSizes(nums []int, nasize int) (newArraySize, na int) {
	a := 0
	n := 0
	twotoi := 1
	for i := 0; i <= maxBits; i++ {
		if nums[i] > 0 {
			a += nums[i]
			if a > twotoi/2 {
				n = twotoi
				na = a
			}
		}
		if nasize == a {
			break
		}
		twotoi *= 2
	}
	return n, na
}

// nextPow2AtLeast1 rounds n up to the nearest power of two, with a floor of
// 1: the hash vector length is always a power of two and at least 1.
func nextPow2AtLeast1(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << ceilLog2(n)
}

// rehash is the repartitioner entry point: it censuses current occupancy
// plus the pending key ek, computes the new split, and resizes. It does
// not insert ek itself — the caller (Table.Set) retries the insertion
// against the freshly resized table, exactly as the original's
// `_rehash(t, key); return _set(t, key);` does.
func (t *Table) rehash(ek Key) {
	// One slot past maxBits so that a key equal to maxASize (slice
	// maxBits+1) can be counted; computeSizes never sweeps that slice.
	nums := make([]int, maxBits+2)

	nasize := t.numUseArray(nums)
	totaluse := nasize

	hashTotal, hashAuse := t.numUseHash(nums)
	nasize += hashAuse
	totaluse += hashTotal

	nasize += countInt(ek, nums)
	totaluse++

	newArraySize, na := computeSizes(nums, nasize)
	newHashCapacity := totaluse - na
	if newHashCapacity < 0 {
		newHashCapacity = 0
	}

	t.resize(newArraySize, nextPow2AtLeast1(newHashCapacity))
}

// resize performs the full relocation backing the public "Resize"
// steps: allocate a fresh hash vector and (if needed) a fresh array
// vector, relocate the vanishing array tail into the new hash part first,
// then replay every occupied node of the old hash vector into the new
// array-or-hash structure, and finally free the displaced allocation
// generation.
func (t *Table) resize(newArraySize, newHashCapacity int) {
	if newArraySize > maxASize || newHashCapacity > maxASize {
		panic(ErrCapacityExceeded)
	}

	oldArr := t.arr
	oldHP := t.hp

	gen := t.gens.Rotate()
	newArena := t.gens.Active().Arena()

	lsize := ceilLog2(nextPow2AtLeast1(newHashCapacity))
	t.hp = newHashPart(newArena, t.v, t.seed, lsize)

	// Relocate the vanishing array tail into the new hash part before the
	// old array is dropped, so a relocated tail key never collides with a
	// slot the hash replay below hasn't visited yet.
	for i := newArraySize; i < oldArr.size(); i++ {
		if oldArr.occupied[i] {
			t.hashInsertRaw(IntKey(int64(i)), oldArr.slot(i), nil)
		}
	}

	newArr := newArrayPart(newArena, t.v, newArraySize)
	limit := oldArr.size()
	if newArraySize < limit {
		limit = newArraySize
	}
	for i := 0; i < limit; i++ {
		if oldArr.occupied[i] {
			newArr.occupied[i] = true
			if t.v > 0 {
				copy(newArr.slot(i), oldArr.slot(i))
			}
		}
	}
	t.arr = newArr

	// Replay the old hash vector. Some of its integer keys may now land
	// in the array part, since it may have grown.
	for i := range oldHP.nodes {
		n := &oldHP.nodes[i]
		if !n.occupied {
			continue
		}
		idx := n.key.arrayIndex()
		if inArray(idx, t.arr.size()) {
			t.arr.occupied[idx] = true
			if t.v > 0 {
				copy(t.arr.slot(int(idx)), oldHP.slot(i))
			}
			continue
		}
		t.hashInsertRaw(n.key, oldHP.slot(i), n.blk)
	}

	slabring.Free(gen)

	t.metrics.incRehash()
	t.metrics.setArraySize(t.arr.size())
	t.metrics.setHashSize(t.hp.size())
	if t.arr.size() > 0 {
		count := 0
		for _, occ := range t.arr.occupied {
			if occ {
				count++
			}
		}
		t.metrics.setArrayLoad(float64(count) / float64(t.arr.size()))
	}
	if t.logger != nil {
		t.logger.Debug("ltable rehash",
			zap.Int("old_array_size", oldArr.size()),
			zap.Int("old_hash_size", oldHP.size()),
			zap.Int("new_array_size", t.arr.size()),
			zap.Int("new_hash_size", t.hp.size()),
		)
	}
}

// hashInsertRaw inserts k into the (already appropriately sized) new hash
// part and copies srcPayload into its value slot. Used only during resize,
// where the destination is guaranteed to have room — computeSizes derived
// the new hash capacity specifically to fit every relocated key.
func (t *Table) hashInsertRaw(k Key, srcPayload []byte, blk *poolBlock) {
	idx := t.hp.insert(k)
	if idx == -1 {
		// computeSizes guarantees enough room for every live key plus the
		// pending one; reaching this means the repartitioner's invariant
		// was violated by a caller-supplied Resize that is too small.
		panic(ErrCapacityExceeded)
	}
	t.hp.nodes[idx].blk = blk
	if t.v > 0 {
		copy(t.hp.slot(idx), srcPayload)
	}
}
