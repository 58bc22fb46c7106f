package ltable

// key.go implements the tagged key union: a Key is one of Int, Num, Str,
// or Obj, with equality and hashing rules that keep Int(1) and Num(1.0)
// distinct rather than collapsing integral floats into integers.
//
// Follows the classic Lua table implementation's strhash, numhash, eqkey,
// arrayindex. Byte-reinterpretation goes through
// internal/unsafehelpers.SumLow4Bytes instead of a C union.
//
// © 2025 ltable authors. MIT License.

import (
	"math"
	"unsafe"

	"github.com/hqwrong/ltable/internal/unsafehelpers"
)

// Kind tags the variant held by a Key.
type Kind uint8

const (
	KindInt Kind = iota
	KindNum
	KindStr
	KindObj
)

// stringHashSampleShift controls how many trailing bytes of a long string
// are skipped between hashed samples: step = max(1, len>>stringHashSampleShift).
// Matches the original's STR_HASHLIMIT (5): for any length, fewer than 64
// bytes of the string are examined.
const stringHashSampleShift = 5

// Key is the tagged union consumed by Table's API. Callers build one with
// IntKey/NumKey/StrKey/ObjKey; Str borrows the caller's string until the
// table copies it into its pool on insertion.
type Key struct {
	kind Kind
	i    int64
	f    float64
	s    string
	p    unsafe.Pointer
}

// IntKey builds a signed-integer key. Only Int keys are array-eligible.
func IntKey(i int64) Key { return Key{kind: KindInt, i: i} }

// NumKey builds a floating-point key. Num keys never land in the array
// part, even when integral-valued.
func NumKey(f float64) Key { return Key{kind: KindNum, f: f} }

// StrKey builds a string key. The bytes are borrowed until Set copies them
// into the table's string pool.
func StrKey(s string) Key { return Key{kind: KindStr, s: s} }

// ObjKey builds an opaque-pointer key compared by identity. The pointer is
// never dereferenced by the table.
func ObjKey(p unsafe.Pointer) Key { return Key{kind: KindObj, p: p} }

// Kind reports which variant k holds.
func (k Key) Kind() Kind { return k.kind }

// Int returns the payload of an Int key (zero value if k is not Int).
func (k Key) Int() int64 { return k.i }

// Num returns the payload of a Num key.
func (k Key) Num() float64 { return k.f }

// Str returns the payload of a Str key.
func (k Key) Str() string { return k.s }

// Obj returns the payload of an Obj key.
func (k Key) Obj() unsafe.Pointer { return k.p }

// equal reports whether k and other denote the same logical key: same tag,
// same payload (string by content, object by identity, numeric by exact
// bit pattern).
func (k Key) equal(other Key) bool {
	if k.kind != other.kind {
		return false
	}
	switch k.kind {
	case KindInt:
		return k.i == other.i
	case KindNum:
		return math.Float64bits(k.f) == math.Float64bits(other.f)
	case KindStr:
		return k.s == other.s
	default: // KindObj
		return k.p == other.p
	}
}

// arrayIndex returns i if k is Int(i), else -1. Mirrors the original's
// `arrayindex`.
func (k Key) arrayIndex() int64 {
	if k.kind == KindInt {
		return k.i
	}
	return -1
}

// inArray reports whether idx is a valid, occupiable array index for a
// table whose array part has the given size.
func inArray(idx int64, sizeArray int) bool {
	return idx >= 0 && idx < int64(sizeArray)
}

// hash computes the key's main-position hash modulo N (a power of two).
// N must be >= 1.
func (k Key) hash(seed uint32, n int) uint32 {
	var h uint32
	switch k.kind {
	case KindStr:
		h = strHash(k.s, seed)
	default:
		h = k.numHash()
	}
	return h & uint32(n-1)
}

// strHash implements the string hash: h = seed xor len,
// then fold in bytes from the end, skipping step = max(1, len>>5) bytes
// between samples — the original's downward-stepping STR_HASHLIMIT scheme.
func strHash(s string, seed uint32) uint32 {
	l := len(s)
	h := seed ^ uint32(l)
	step := max(1, l>>stringHashSampleShift)
	for l1 := l; l1 >= step; l1 -= step {
		h = h ^ ((h << 5) + (h >> 2) + uint32(s[l1-1]))
	}
	return h
}

// numHash implements the numeric/object hash: the key's 64-bit payload is
// viewed as bytes, but — matching the original's `union ltable_Hash`,
// whose `l_p` member is `uint8_t l_p[4]` over the same 8-byte payload —
// only the low 4 bytes are read, and they are summed as unsigned bytes.
func (k Key) numHash() uint32 {
	var bits uint64
	switch k.kind {
	case KindInt:
		bits = uint64(k.i)
	case KindNum:
		bits = math.Float64bits(k.f)
	case KindObj:
		bits = uint64(uintptr(k.p))
	}
	return unsafehelpers.SumLow4Bytes(unsafe.Pointer(&bits))
}
