package ltable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCeilLog2(t *testing.T) {
	cases := []struct {
		in   int
		want uint8
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {1024, 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ceilLog2(c.in), "ceilLog2(%d)", c.in)
	}
}

func TestSliceOf(t *testing.T) {
	// Slice g holds the integer keys in [2^(g-1), 2^g); slice 0 is {0}.
	assert.Equal(t, 0, sliceOf(0))
	assert.Equal(t, 1, sliceOf(1))
	assert.Equal(t, 2, sliceOf(2))
	assert.Equal(t, 2, sliceOf(3))
	assert.Equal(t, 3, sliceOf(4))
	assert.Equal(t, 3, sliceOf(7))
	assert.Equal(t, 4, sliceOf(8))
}

func TestNextPow2AtLeast1(t *testing.T) {
	assert.Equal(t, 1, nextPow2AtLeast1(0))
	assert.Equal(t, 1, nextPow2AtLeast1(1))
	assert.Equal(t, 2, nextPow2AtLeast1(2))
	assert.Equal(t, 4, nextPow2AtLeast1(3))
	assert.Equal(t, 8, nextPow2AtLeast1(5))
}

func TestComputeSizesAllIntegerKeysFitArray(t *testing.T) {
	// 4 consecutive integer keys 0..3 should compute an array size that
	// covers all of them, and na (the prefix count at the chosen size)
	// counts all four: keys 2 and 3 share slice 2, so the prefix sum at
	// size 4 is 4.
	nums := make([]int, maxBits+1)
	for i := int64(0); i < 4; i++ {
		countInt(IntKey(i), nums)
	}
	newArraySize, na := computeSizes(nums, 4)
	assert.Equal(t, 4, newArraySize)
	assert.Equal(t, 4, na)
}

func TestComputeSizesSparseIntegerStaysOutOfArray(t *testing.T) {
	// A single very large integer key must not force a huge array: the
	// array-part load factor rule (a > twotoi/2) keeps it out.
	nums := make([]int, maxBits+1)
	countInt(IntKey(1_000_000), nums)
	newArraySize, na := computeSizes(nums, 1)
	assert.Equal(t, 0, newArraySize)
	assert.Equal(t, 0, na)
}

func TestRehashGrowsAndPreservesEntries(t *testing.T) {
	tbl, err := New(8)
	require.NoError(t, err)
	defer tbl.Release()

	for i := int64(0); i < 200; i++ {
		var buf [8]byte
		buf[0] = byte(i)
		tbl.Set(IntKey(i), buf[:])
	}

	for i := int64(0); i < 200; i++ {
		v, ok := tbl.Get(IntKey(i))
		require.True(t, ok)
		assert.Equal(t, byte(i), v[0])
	}

	stats := tbl.Stats()
	assert.Greater(t, stats.ArrayLoad, 0.5, "array-part load factor must exceed one half after a triggered rehash")
}

func TestResizeForcesExplicitPartition(t *testing.T) {
	tbl, err := New(4)
	require.NoError(t, err)
	defer tbl.Release()

	tbl.Set(IntKey(0), []byte{1, 2, 3, 4})
	tbl.Resize(16, 1)

	stats := tbl.Stats()
	assert.Equal(t, 16, stats.ArraySize)

	v, ok := tbl.Get(IntKey(0))
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, v)
}
