package ltable

import (
	"testing"

	"github.com/hqwrong/ltable/internal/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayPartSetGetDelete(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	ap := newArrayPart(ar, 4, 8)
	require.Equal(t, 8, ap.size())

	_, ok := ap.get(3)
	assert.False(t, ok, "unoccupied slot should read as absent")

	p := ap.set(3)
	require.NotNil(t, p)
	copy(ap.slot(3), []byte{1, 2, 3, 4})

	got, ok := ap.get(3)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, unsafeView(got, 4))

	ap.delete(3)
	_, ok = ap.get(3)
	assert.False(t, ok, "deleted slot should read as absent")
}

func TestArrayPartGrowPreservesOccupiedSlots(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	ap := newArrayPart(ar, 4, 4)
	ap.set(1)
	copy(ap.slot(1), []byte{9, 9, 9, 9})

	ap.grow(ar, 8)
	require.Equal(t, 8, ap.size())

	got, ok := ap.get(1)
	require.True(t, ok)
	assert.Equal(t, []byte{9, 9, 9, 9}, unsafeView(got, 4))

	_, ok = ap.get(6)
	assert.False(t, ok, "newly grown slots start unoccupied")
}

func TestArrayPartGrowShrinkTruncates(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	ap := newArrayPart(ar, 4, 8)
	ap.set(7)
	ap.grow(ar, 4)
	assert.Equal(t, 4, ap.size())
}

func TestArrayPartZeroValueSize(t *testing.T) {
	ar := arena.New()
	defer ar.Free()

	ap := newArrayPart(ar, 0, 4)
	p := ap.set(2)
	assert.NotNil(t, p, "a zero-size value still returns a non-nil presence marker")

	_, ok := ap.get(2)
	assert.True(t, ok)
}
