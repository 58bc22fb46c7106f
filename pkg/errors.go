package ltable

// errors.go collects the sentinel values behind ltable's fatal conditions.
// The library does not raise recoverable errors across its API surface for
// these: they are carried in panics, not returned, and exist so that a
// recovering caller (or a test) can identify the failure kind with
// errors.Is instead of string-matching a panic value.
//
// © 2025 ltable authors. MIT License.

import "errors"

var (
	// ErrInvalidValueSize is raised when New is given a negative
	// value size, and when Set is called with a value slice whose length
	// does not equal the table's value size.
	ErrInvalidValueSize = errors.New("ltable: value size must be > 0")

	// ErrCapacityExceeded is raised when a requested array or hash
	// capacity (explicit via Resize, or derived by the repartitioner)
	// would exceed 2^MAXBITS. Resize also raises it for a negative size,
	// and when the sizes it is given are too small to hold the live keys.
	ErrCapacityExceeded = errors.New("ltable: requested capacity exceeds 2^MAXBITS")
)
