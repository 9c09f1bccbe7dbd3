package merkle

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when building a tree from zero records.
var ErrEmptyInput = errors.New("merkle: cannot build tree from empty record list")

// IndexOutOfRangeError is returned when a proof is requested for a leaf
// index outside [0, leaf_count).
type IndexOutOfRangeError struct {
	Index     int
	LeafCount int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("merkle: leaf index %d out of range [0, %d)", e.Index, e.LeafCount)
}

// MalformedDigestError is returned when a digest crossing a serialization
// boundary is not exactly 32 raw bytes / 64 hex characters. Rejected before
// any hashing is attempted.
type MalformedDigestError struct {
	Field string
	Value string
}

func (e *MalformedDigestError) Error() string {
	return fmt.Sprintf("merkle: malformed digest for %s: %q is not a 64-character hex string", e.Field, e.Value)
}
