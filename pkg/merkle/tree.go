package merkle

import (
	"github.com/Schwifty101/Algo-MerkleTree/pkg/reviews"
)

// Tree is the committed artifact of a build: the root digest plus the ordered
// leaf digests. Intermediate levels are computed during construction and
// discarded immediately (hybrid storage), keeping memory at one digest per
// record instead of ~2n tree nodes. Proofs are generated later by replaying
// the pairing over Leaves.
//
// A Tree is immutable after construction and safe for concurrent reads.
type Tree struct {
	// Root is the merkle root committing to the whole ordered collection.
	Root [32]byte

	// Leaves holds the leaf digests in input order, index-addressable.
	Leaves [][32]byte
}

// BuildTree constructs a tree from an ordered record list. Each record is
// hashed with HashLeaf; levels are then paired bottom-up, left to right,
// duplicating the last digest when a level has an odd count. The duplicate
// participates in the parent hash, it is not promoted unchanged.
//
// A single-record input yields Root == Leaves[0].
func BuildTree(items []any) (*Tree, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}

	leaves := make([][32]byte, len(items))
	for i, item := range items {
		leaves[i] = HashLeaf(item)
	}

	current := leaves
	for len(current) > 1 {
		next := make([][32]byte, 0, (len(current)+1)/2)

		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := left
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, HashPair(left, right))
		}

		current = next
	}

	return &Tree{
		Root:   current[0],
		Leaves: leaves,
	}, nil
}

// BuildReviewTree builds a tree from normalized review records.
func BuildReviewTree(rs []*reviews.Review) (*Tree, error) {
	items := make([]any, len(rs))
	for i, r := range rs {
		items[i] = r
	}
	return BuildTree(items)
}

// LeafCount returns the number of records committed to.
func (t *Tree) LeafCount() int {
	return len(t.Leaves)
}

// LeafHash returns the digest of the leaf at index.
func (t *Tree) LeafHash(index int) ([32]byte, error) {
	if index < 0 || index >= len(t.Leaves) {
		return [32]byte{}, &IndexOutOfRangeError{Index: index, LeafCount: len(t.Leaves)}
	}
	return t.Leaves[index], nil
}

// LeafHashes returns a copy of the leaf digest array.
func (t *Tree) LeafHashes() [][32]byte {
	out := make([][32]byte, len(t.Leaves))
	copy(out, t.Leaves)
	return out
}

// RootHex returns the root digest as a 64-character hex string.
func (t *Tree) RootHex() string {
	return EncodeDigest(t.Root)
}

// VerifyLeaf reports whether data hashes to the stored leaf digest at index.
// An out-of-range index is simply not in the tree.
func (t *Tree) VerifyLeaf(data any, index int) bool {
	if index < 0 || index >= len(t.Leaves) {
		return false
	}
	return HashLeaf(data) == t.Leaves[index]
}
