// Package ltable implements a hybrid array/hash associative container in
// the style of the Lua 5.x table: integer keys in a contiguous run starting
// at 0 live in a dense array part, everything else lives in an
// open-addressed hash part, and the split between the two is recomputed by
// a repartitioner whenever an insertion finds no room.
//
// Storage is arena-backed and rotated in generations across rehashes, with
// the same metrics-and-logging-instrumented facade used throughout this
// module. See Table for the entry point.
//
// © 2025 ltable authors. MIT License.
package ltable

import (
	"crypto/rand"
	"encoding/binary"
	"unsafe"

	"github.com/hqwrong/ltable/internal/arena"
	"github.com/hqwrong/ltable/internal/slabring"
	"github.com/hqwrong/ltable/internal/unsafehelpers"
	"go.uber.org/zap"
)

// Table is a hybrid array/hash container holding fixed-size values keyed by
// Key. It is not safe for concurrent use: like the original, callers
// serialise their own access (a single goroutine, or an external mutex).
//
// A zero Table is not usable; construct one with New.
type Table struct {
	v    int
	seed uint32

	arr arrayPart
	hp  hashPart

	pool   *stringPool
	poolAr *arena.Arena
	gens   *slabring.Ring

	metrics metricsSink
	logger  *zap.Logger
}

// New constructs an empty Table whose values are valueSize bytes each.
// valueSize may be zero for presence-only sets (the table then behaves as
// a key-only set). Panics with ErrInvalidValueSize if valueSize is
// negative; the returned error reports a failure to read a random seed.
func New(valueSize int, opts ...Option) (*Table, error) {
	if valueSize < 0 {
		panic(ErrInvalidValueSize)
	}

	cfg := defaultConfig()
	applyOptions(cfg, opts)

	seed := cfg.seed
	if seed == 0 {
		var err error
		seed, err = randomSeed()
		if err != nil {
			return nil, err
		}
	}

	gens := slabring.New()
	ar := gens.Active().Arena()
	poolAr := arena.New()

	t := &Table{
		v:       valueSize,
		seed:    seed,
		arr:     newArrayPart(ar, valueSize, 0),
		hp:      newHashPart(ar, valueSize, seed, 0),
		pool:    newStringPool(poolAr),
		poolAr:  poolAr,
		gens:    gens,
		metrics: newMetricsSink(cfg.registry),
		logger:  cfg.logger,
	}
	return t, nil
}

func randomSeed() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	s := binary.LittleEndian.Uint32(buf[:])
	if s == 0 {
		s = 1
	}
	return s, nil
}

// Release frees every allocation the table owns: the active generation's
// arena (array + hash payload bytes) and the string pool's independent
// arena. The Table must not be used afterward.
func (t *Table) Release() {
	slabring.Free(t.gens.Active())
	t.poolAr.Free()
}

// valueBytes views the v-byte payload at p as a []byte, or nil if the
// table's value size is zero.
func (t *Table) valueBytes(p unsafe.Pointer) []byte {
	if t.v == 0 {
		return nil
	}
	return unsafehelpers.ByteSliceFrom(p, uintptr(t.v))
}

// Get looks up k and returns a zero-copy view of its value. The returned
// slice is only valid until the next Set that triggers a rehash, or until
// Release — all previously returned slot pointers are invalidated.
func (t *Table) Get(k Key) ([]byte, bool) {
	var p unsafe.Pointer
	var ok bool

	if idx := k.arrayIndex(); inArray(idx, t.arr.size()) {
		p, ok = t.arr.get(int(idx))
	} else if i := t.hp.find(k); i != -1 {
		p, ok = t.hp.ptr(i), true
	}

	t.metrics.incGet(ok)
	if !ok {
		return nil, false
	}
	return t.valueBytes(p), true
}

// GetN returns the same result as Get(IntKey(i)). It is a convenience
// wrapper, not a separate fast path: it builds the key and performs the
// same array-or-hash lookup as Get, so an integer key that currently lives
// in the hash part is found too.
func (t *Table) GetN(i int64) ([]byte, bool) {
	return t.Get(IntKey(i))
}

// Set stores value under k, inserting a new entry or overwriting an
// existing one. len(value) must equal the table's value size (panics with
// ErrInvalidValueSize otherwise). If no room exists for a new entry, Set
// triggers the repartitioner and retries — exactly once per missing slot,
// since a rehash sized by computeSizes always has room for every live key
// plus the pending one.
func (t *Table) Set(k Key, value []byte) {
	if len(value) != t.v {
		panic(ErrInvalidValueSize)
	}

	for {
		if idx := k.arrayIndex(); inArray(idx, t.arr.size()) {
			p := t.arr.set(int(idx))
			if t.v > 0 {
				copy(unsafehelpers.ByteSliceFrom(p, uintptr(t.v)), value)
			}
			t.metrics.incSet()
			return
		}

		if i := t.hp.find(k); i != -1 {
			if t.v > 0 {
				copy(t.hp.slot(i), value)
			}
			t.metrics.incSet()
			return
		}

		insKey := k
		var blk *poolBlock
		if k.kind == KindStr {
			interned, b := t.pool.intern(k.s)
			insKey = StrKey(interned)
			blk = b
		}

		if i := t.hp.insert(insKey); i != -1 {
			t.hp.nodes[i].blk = blk
			if t.v > 0 {
				copy(t.hp.slot(i), value)
			}
			t.metrics.incSet()
			return
		}

		if blk != nil {
			t.pool.release(blk)
		}
		t.rehash(k)
	}
}

// Delete removes k, if present, and returns whether it was. A deleted
// string key's pool block is returned to the free list for reuse by a
// future Set.
func (t *Table) Delete(k Key) bool {
	if idx := k.arrayIndex(); inArray(idx, t.arr.size()) {
		if !t.arr.occupied[int(idx)] {
			return false
		}
		t.arr.delete(int(idx))
		t.metrics.incDelete()
		return true
	}

	i := t.hp.find(k)
	if i == -1 {
		return false
	}
	if blk := t.hp.delete(i); blk != nil {
		t.pool.release(blk)
	}
	t.metrics.incDelete()
	return true
}

// Resize directly invokes the repartitioner's relocation primitive with
// caller-supplied sizes, bypassing computeSizes' census-driven heuristic —
// the original's lua_resize / ltable_resize. hashCapacity is rounded up to
// the next power of two.
func (t *Table) Resize(arraySize, hashCapacity int) {
	if arraySize < 0 || hashCapacity < 0 {
		panic(ErrCapacityExceeded)
	}
	t.resize(arraySize, nextPow2AtLeast1(hashCapacity))
}

// positionOf returns k's index in Next's canonical iteration order — array
// slots [0, size_array) first, then hash nodes [0, hash size) — or -1 if k
// is not present.
func (t *Table) positionOf(k Key) int {
	if idx := k.arrayIndex(); inArray(idx, t.arr.size()) {
		return int(idx)
	}
	i := t.hp.find(k)
	if i == -1 {
		return -1
	}
	return t.arr.size() + i
}

// Stats is a point-in-time snapshot of a table's array/hash partition,
// exposed for debug endpoints; its JSON shape is what cmd/ltable-inspect
// reads from a /debug/ltable/snapshot endpoint.
type Stats struct {
	ArraySize int     `json:"array_size"`
	HashSize  int     `json:"hash_size"`
	ArrayLoad float64 `json:"array_load"`
}

// Stats reports the table's current array/hash partition sizes and the
// array part's occupied fraction.
func (t *Table) Stats() Stats {
	count := 0
	for _, occ := range t.arr.occupied {
		if occ {
			count++
		}
	}
	load := 0.0
	if t.arr.size() > 0 {
		load = float64(count) / float64(t.arr.size())
	}
	return Stats{
		ArraySize: t.arr.size(),
		HashSize:  t.hp.size(),
		ArrayLoad: load,
	}
}

// Next implements stateless traversal in the style of Lua's lua_next:
// prev == nil starts iteration at the first occupied entry; passing a
// previously returned key continues after it. Returns ok == false once
// traversal is exhausted. Mutating the table between calls (beyond
// overwriting the value just returned) is undefined, matching the
// original's traversal contract.
func (t *Table) Next(prev *Key) (Key, []byte, bool) {
	start := 0
	if prev != nil {
		p := t.positionOf(*prev)
		if p == -1 {
			return Key{}, nil, false
		}
		start = p + 1
	}

	for i := start; i < t.arr.size(); i++ {
		if t.arr.occupied[i] {
			p, _ := t.arr.get(i)
			return IntKey(int64(i)), t.valueBytes(p), true
		}
	}

	hstart := 0
	if start > t.arr.size() {
		hstart = start - t.arr.size()
	}
	for i := hstart; i < t.hp.size(); i++ {
		if t.hp.nodes[i].occupied {
			return t.hp.nodes[i].key, t.valueBytes(t.hp.ptr(i)), true
		}
	}

	return Key{}, nil, false
}
