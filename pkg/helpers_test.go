package ltable

import (
	"unsafe"

	"github.com/hqwrong/ltable/internal/unsafehelpers"
)

// unsafeView gives tests a read-only []byte view over a payload pointer
// returned by arrayPart/hashPart internals, without duplicating the
// production valueBytes logic those tests are exercising.
func unsafeView(p unsafe.Pointer, n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafehelpers.ByteSliceFrom(p, uintptr(n))
}
