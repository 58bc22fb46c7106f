// Package unsafehelpers centralises ltable's zero‑copy conversions built on
// the `unsafe` standard‑library package so they can be audited in one
// place; other packages still use unsafe.Pointer directly for value and key
// pointers.  Every helper is documented with clear pre‑/post‑
// conditions.
//
// ⚠️  **DISCLAIMER**   These helpers deliberately break the Go memory‑safety
// model for the sake of zero‑allocation conversions.  Use ONLY inside this
// repository; they are not part of the public API and may change without
// notice.  Misuse will lead to subtle data‑races or garbage‑collector
// corruption.
//
// All functions are `go:linkname`‑free, cgo‑free and pure Go.
//
// © 2025 ltable authors. MIT License.

package unsafehelpers

import "unsafe"

/* -------------------------------------------------------------------------
   1. Zero‑copy string/[]byte conversions
   ------------------------------------------------------------------------- */

// BytesToString converts a mutable byte slice to an immutable string without
// allocating.  The caller must guarantee that `b` will never be modified for
// the lifetime of the resulting string; otherwise the program exhibits
// undefined behaviour.
//
// Typical use‑case inside ltable: turning pool-owned, never-again-written
// key bytes into the string stored in a Key without a second copy.
//
// DO NOT expose the returned string outside controlled scopes.
func BytesToString(b []byte) string {
    return unsafe.String(&b[0], len(b))
}

/* -------------------------------------------------------------------------
   2. Generic pointer → slice helpers
   ------------------------------------------------------------------------- */

// PtrSlice converts an arbitrary *T pointer + element count into a `[]T`
// without copying.  Useful when we need to treat an arena‑allocated array as a
// slice for iteration.  The slice is **still backed by arena memory** and thus
// safe from GC, but the usual rules about arena lifetime apply.
func PtrSlice[T any](ptr *T, n int) []T {
    if n == 0 {
        return nil
    }
    return unsafe.Slice(ptr, n)
}

// ByteSliceFrom returns a []byte view of raw memory starting at `ptr` with the
// given length.  Caller must ensure the memory block is at least `length`
// bytes.  Primarily used for hashing scalars where we only know the pointer
// and size at runtime.
func ByteSliceFrom(ptr unsafe.Pointer, length uintptr) []byte {
    return unsafe.Slice((*byte)(ptr), length)
}

// SumLow4Bytes implements ltable's numeric/object key hash fold. The
// original's `union ltable_Hash` overlays an 8-byte `lua_Number`/pointer
// payload with `uint8_t l_p[4]` — only the low 4 bytes are ever read by
// `_numhash`, and because they are unsigned the running sum can never go
// negative, making the original's `if (i < 0)` guard dead code. This port
// reads the same low 4 bytes of the payload at ptr and sums them as
// unsigned bytes; no negation step is needed since the sum is bounded by
// 4*255 and always non-negative.
func SumLow4Bytes(ptr unsafe.Pointer) uint32 {
    b := ByteSliceFrom(ptr, 4)
    var sum uint32
    for _, v := range b {
        sum += uint32(v)
    }
    return sum
}

/* -------------------------------------------------------------------------
   3. Alignment helpers
   ------------------------------------------------------------------------- */

// AlignUp rounds x up to the nearest multiple of align (which must be a power
// of two).  Fast bit‑twiddling alternative to math.Ceil for sizes.  Used by
// internal/arena's bump allocator to align each reservation.
func AlignUp(x, align uintptr) uintptr {
    return (x + align - 1) &^ (align - 1)
}

// IsPowerOfTwo returns true if x is a power of two (exactly one bit set).
// Used by the hash part to assert I2 (the hash vector length is always a
// power of two) at construction.
func IsPowerOfTwo(x uintptr) bool {
    return x != 0 && (x&(x-1)) == 0
}
