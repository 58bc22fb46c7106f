// Package slabring manages the pair of allocation "generations" backing a
// table's array part, hash part, and string pool.
//
// Generations are rotated on a bulk-free moment rather than a wall-clock
// TTL: once every occupied node has been relocated during a rehash, the
// repartitioner calls Rotate directly at the end of a resize, and the
// generation it displaces is discarded immediately. No grace window is
// needed — a Set that triggers a rehash invalidates every previously
// returned slot pointer, so nothing could still be reading the old
// generation's memory.
//
// Concurrency
// -----------
// slabring does not lock; the parent Table already serialises all access
// (tables are documented as single-threaded — see pkg/table.go).
//
// © 2025 ltable authors. MIT License.
package slabring

import "github.com/hqwrong/ltable/internal/arena"

// Generation owns one arena used for a single array/hash/pool layout. It is
// discarded as a unit when the table rehashes into a new Generation.
type Generation struct {
	ar *arena.Arena
}

// Arena exposes the backing allocator. Valid until the generation is
// rotated out.
func (g *Generation) Arena() *arena.Arena { return g.ar }

// Ring holds the generation currently used for allocations.
type Ring struct {
	active *Generation
}

// New constructs a ring with a single fresh generation active.
func New() *Ring {
	return &Ring{active: &Generation{ar: arena.New()}}
}

// Active returns the generation currently used for new allocations.
func (r *Ring) Active() *Generation {
	return r.active
}

// Rotate creates a fresh generation, makes it active, and returns the
// displaced generation so the caller can free its arena once relocation of
// live data into the new generation is complete.
func (r *Ring) Rotate() *Generation {
	dead := r.active
	r.active = &Generation{ar: arena.New()}
	return dead
}

// Free releases g's arena. Safe to call once per generation returned by
// Rotate, after all data it held has been copied into the new generation.
func Free(g *Generation) {
	if g != nil && g.ar != nil {
		g.ar.Free()
		g.ar = nil
	}
}
