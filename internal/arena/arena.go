// Package arena provides a thin bump allocator used as the backing store
// for ltable's array slots, hash nodes, and string-pool slabs. It hides the
// details of chunked, pointer-stable allocation behind a tiny, stable
// surface:
//   - New()        – construct an arena.
//   - Free()       – release all memory at once.
//   - NewValue[T]() – allocate a single zeroed value of type T.
//   - MakeSlice[T]() – allocate a slice of T with length==cap.
//   - AllocBytes() – copy a byte slice into arena-owned memory.
//
// Allocations never move: once returned, a pointer stays valid until the
// next Free. Growth happens by appending a new chunk, never by
// reallocating an existing one, so outstanding pointers are never
// invalidated by later allocations in the same arena.
//
// Concurrency
// -----------
// Arena is *not* thread‑safe; ltable's Table already serialises all access
// to its own arena (the table itself is documented as single-threaded), so
// no locking is added here.
//
// © 2025 ltable authors. MIT License.

package arena

import (
	"unsafe"

	"github.com/hqwrong/ltable/internal/unsafehelpers"
)

const defaultChunkSize = 16 << 10 // 16 KiB

// chunk is a single contiguous backing buffer. Its address is fixed for its
// whole lifetime; only the Arena's chunk list grows.
type chunk struct {
	buf []byte
	off int
}

// Arena is a bump allocator: allocations carve space out of the current
// chunk and never move once handed out.
type Arena struct {
	chunks    []*chunk
	chunkSize int
}

// New constructs an empty arena ready for allocations.
func New() *Arena {
	return &Arena{chunkSize: defaultChunkSize}
}

// Free releases **all** memory allocated in the arena. After the call, any
// pointer previously returned from NewValue/MakeSlice/AllocBytes must no
// longer be dereferenced.
func (a *Arena) Free() {
	a.chunks = nil
}

// alloc reserves n bytes aligned to align (a power of two) and returns a
// pointer to the start of the reservation.
func (a *Arena) alloc(n int, align uintptr) unsafe.Pointer {
	if n == 0 {
		n = 1
	}
	if len(a.chunks) > 0 {
		c := a.chunks[len(a.chunks)-1]
		start := unsafehelpers.AlignUp(uintptr(c.off), align)
		if int(start)+n <= len(c.buf) {
			c.off = int(start) + n
			return unsafe.Pointer(&c.buf[start])
		}
	}
	size := a.chunkSize
	if n+int(align) > size {
		size = n + int(align)
	}
	c := &chunk{buf: make([]byte, size)}
	start := unsafehelpers.AlignUp(0, align)
	c.off = int(start) + n
	a.chunks = append(a.chunks, c)
	return unsafe.Pointer(&c.buf[start])
}

// NewValue allocates a zero-initialised T inside the arena and returns a
// pointer to it. The pointer is valid until Free() on the arena.
func NewValue[T any](a *Arena) *T {
	var zero T
	return (*T)(a.alloc(int(unsafe.Sizeof(zero)), unsafe.Alignof(zero)))
}

// MakeSlice allocates a slice of length==cap==n inside the arena and
// returns it. The backing array is owned by the arena and is released on
// Free().
func MakeSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	ptr := a.alloc(elemSize*n, unsafe.Alignof(zero))
	return unsafehelpers.PtrSlice((*T)(ptr), n)
}

// AllocBytes copies buf into the arena and returns a reference to the new
// memory. Used by the string pool to intern key bytes.
func AllocBytes(a *Arena, buf []byte) []byte {
	if len(buf) == 0 {
		return nil
	}
	ptr := a.alloc(len(buf), 1)
	dst := unsafehelpers.PtrSlice((*byte)(ptr), len(buf))
	copy(dst, buf)
	return dst
}

// UnsafePointer converts an arena-backed pointer to unsafe.Pointer so it
// can be stored alongside other slot metadata.
func UnsafePointer[T any](p *T) unsafe.Pointer { return unsafe.Pointer(p) }
