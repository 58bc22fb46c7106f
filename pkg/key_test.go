package ltable

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEquality(t *testing.T) {
	t.Run("int keys compare by value", func(t *testing.T) {
		assert.True(t, IntKey(7).equal(IntKey(7)))
		assert.False(t, IntKey(7).equal(IntKey(8)))
	})

	t.Run("num keys compare by exact bits", func(t *testing.T) {
		assert.True(t, NumKey(1.5).equal(NumKey(1.5)))
		assert.False(t, NumKey(1.5).equal(NumKey(1.50001)))
	})

	t.Run("str keys compare by content, not identity", func(t *testing.T) {
		a := string([]byte("hello, world"))
		b := string([]byte("hello, world"))
		require.NotSame(t, &a, &b)
		assert.True(t, StrKey(a).equal(StrKey(b)))
	})

	t.Run("obj keys compare by pointer identity", func(t *testing.T) {
		x, y := 1, 1
		assert.True(t, ObjKey(unsafe.Pointer(&x)).equal(ObjKey(unsafe.Pointer(&x))))
		assert.False(t, ObjKey(unsafe.Pointer(&x)).equal(ObjKey(unsafe.Pointer(&y))))
	})

	t.Run("int and num with the same numeric value are distinct", func(t *testing.T) {
		assert.False(t, IntKey(1).equal(NumKey(1.0)))
	})

	t.Run("different kinds never equal", func(t *testing.T) {
		assert.False(t, IntKey(0).equal(StrKey("")))
	})
}

func TestArrayIndex(t *testing.T) {
	assert.Equal(t, int64(5), IntKey(5).arrayIndex())
	assert.Equal(t, int64(-1), NumKey(5).arrayIndex())
	assert.Equal(t, int64(-1), StrKey("5").arrayIndex())
	assert.Equal(t, int64(-1), ObjKey(nil).arrayIndex())
}

func TestInArray(t *testing.T) {
	assert.True(t, inArray(0, 4))
	assert.True(t, inArray(3, 4))
	assert.False(t, inArray(4, 4))
	assert.False(t, inArray(-1, 4))
}

func TestStrHashDeterministic(t *testing.T) {
	h1 := strHash("hqwrong.github.io", 42)
	h2 := strHash("hqwrong.github.io", 42)
	assert.Equal(t, h1, h2)

	h3 := strHash("hqwrong.github.io", 43)
	assert.NotEqual(t, h1, h3, "different seeds should (almost always) diverge")
}

func TestStrHashLongStringSamples(t *testing.T) {
	// A string long enough to exercise the downward-stepping sample loop
	// (step = max(1, len>>5)) rather than examining every byte.
	long := make([]byte, 300)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	h := strHash(string(long), 1)
	assert.NotZero(t, h)
}

func TestNumHashConsistentAcrossKindsOfSamePayload(t *testing.T) {
	// Int and Obj keys sharing the same 64-bit payload should hash
	// identically: numHash only looks at bits, not Kind.
	ik := IntKey(12345)
	ok := ObjKey(unsafe.Pointer(uintptr(12345)))
	assert.Equal(t, ik.numHash(), ok.numHash())
}

func TestHashReducesModuloPowerOfTwo(t *testing.T) {
	k := StrKey("bucket-test")
	h := k.hash(7, 16)
	assert.Less(t, h, uint32(16))
}
