package ltable

// array.go implements the array part: a dense, zero-based vector of value
// slots covering every Int key in [0, size_array).
//
// Layout follows the classic Lua table implementation's array field,
// inarray check, and array-growth/shrink path inside its resize routine.
//
// © 2025 ltable authors. MIT License.

import (
	"unsafe"

	"github.com/hqwrong/ltable/internal/arena"
)

// arrayPart holds the table's dense integer-indexed slots. Payload bytes
// for all slots live in one contiguous arena allocation; occupancy is
// tracked in a parallel Go slice (it never needs to be pointer-stable,
// only the payload pointers callers receive do).
type arrayPart struct {
	v        int
	payload  []byte
	occupied []bool
}

// newArrayPart allocates an array part of the given size (may be zero).
func newArrayPart(ar *arena.Arena, v, size int) arrayPart {
	ap := arrayPart{v: v}
	ap.grow(ar, size)
	return ap
}

// size returns the current array-part capacity (size_array).
func (ap *arrayPart) size() int { return len(ap.occupied) }

// grow replaces the array part's backing storage with a fresh allocation of
// the given size, preserving existing occupied slots (newly added slots are
// zeroed, matching the original's memset of the grown suffix). Passing a
// size smaller than the current one truncates; callers are responsible for
// relocating the vanishing tail into the hash part first.
func (ap *arrayPart) grow(ar *arena.Arena, newSize int) {
	newPayload := arena.MakeSlice[byte](ar, newSize*ap.v)
	newOccupied := make([]bool, newSize)

	n := len(ap.occupied)
	if newSize < n {
		n = newSize
	}
	copy(newOccupied, ap.occupied[:n])
	if ap.v > 0 {
		copy(newPayload, ap.payload[:n*ap.v])
	}

	ap.payload = newPayload
	ap.occupied = newOccupied
}

// slot returns the payload bytes for index i. Caller must have already
// bounds-checked i against size().
func (ap *arrayPart) slot(i int) []byte {
	return ap.payload[i*ap.v : (i+1)*ap.v : (i+1)*ap.v]
}

// get returns the payload pointer for idx if occupied, else ok==false.
func (ap *arrayPart) get(idx int) (unsafe.Pointer, bool) {
	if !ap.occupied[idx] {
		return nil, false
	}
	s := ap.slot(idx)
	if len(s) == 0 {
		return unsafe.Pointer(ap), true // zero-size value: any non-nil pointer is a valid "present" marker
	}
	return unsafe.Pointer(&s[0]), true
}

// set marks idx occupied and returns its payload pointer for the caller to
// populate.
func (ap *arrayPart) set(idx int) unsafe.Pointer {
	ap.occupied[idx] = true
	s := ap.slot(idx)
	if len(s) == 0 {
		return unsafe.Pointer(ap)
	}
	return unsafe.Pointer(&s[0])
}

// delete clears idx's occupied flag. No-op if already clear.
func (ap *arrayPart) delete(idx int) {
	ap.occupied[idx] = false
}
