package merkle

// ProofStep is one level of an inclusion proof: the sibling digest and
// whether that sibling was the left operand of the parent hash.
type ProofStep struct {
	SiblingHash [32]byte
	IsLeft      bool
}

// Proof asserts that a record at a specific position was included in the
// collection committed to by RootHash. It is self-contained: verification
// needs no access to the originating tree.
type Proof struct {
	// LeafData is an optional copy of the original record, re-hashed
	// during verification. May be nil when the caller only needs the
	// path; such a proof verifies against the embedded leaf digest.
	LeafData any

	// LeafIndex is the 0-based position claimed.
	LeafIndex int

	// Path holds the sibling digests from the leaf's level up to just
	// below the root.
	Path []ProofStep

	// RootHash is the digest the proof asserts against.
	RootHash [32]byte

	// leafHash is the digest of the leaf at generation time, used when
	// LeafData is nil. Lost across serialization, so a deserialized
	// proof must carry its leaf data to be verifiable.
	leafHash    [32]byte
	hasLeafHash bool
}

// GenerateProof reconstructs the sibling path for the leaf at index by
// replaying the pairing algorithm over the stored leaf digests. No internal
// nodes are retained between calls; each proof recomputes the levels it
// needs, halving the tracked index as each level shrinks.
//
// When the tracked node is the unpaired last element of an odd level, its
// partner is itself: the recorded sibling is the node's own digest with
// IsLeft == false.
func (t *Tree) GenerateProof(index int, leafData any) (*Proof, error) {
	if index < 0 || index >= len(t.Leaves) {
		return nil, &IndexOutOfRangeError{Index: index, LeafCount: len(t.Leaves)}
	}

	var path []ProofStep
	level := t.Leaves
	idx := index

	for len(level) > 1 {
		sibling := idx + 1
		isLeft := false
		if idx%2 == 1 {
			sibling = idx - 1
			isLeft = true
		}
		if sibling >= len(level) {
			// Odd level, unpaired last node: paired with itself.
			sibling = idx
			isLeft = false
		}
		path = append(path, ProofStep{SiblingHash: level[sibling], IsLeft: isLeft})

		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, HashPair(left, right))
		}

		level = next
		idx /= 2
	}

	return &Proof{
		LeafData:    leafData,
		LeafIndex:   index,
		Path:        path,
		RootHash:    t.Root,
		leafHash:    t.Leaves[index],
		hasLeafHash: true,
	}, nil
}

// Verify recomputes the root from the leaf and the sibling path and compares
// it against RootHash. A mismatch is a normal false outcome, never an error.
func (p *Proof) Verify() bool {
	if p == nil {
		return false
	}

	var current [32]byte
	switch {
	case p.LeafData != nil:
		current = HashLeaf(p.LeafData)
	case p.hasLeafHash:
		current = p.leafHash
	default:
		return false
	}

	return foldPath(current, p.Path) == p.RootHash
}

// VerifyProof verifies an inclusion claim without a Proof value: hash the
// leaf data, fold the path, compare against root.
func VerifyProof(leafData any, path []ProofStep, root [32]byte) bool {
	return foldPath(HashLeaf(leafData), path) == root
}

func foldPath(current [32]byte, path []ProofStep) [32]byte {
	for _, step := range path {
		if step.IsLeft {
			current = HashPair(step.SiblingHash, current)
		} else {
			current = HashPair(current, step.SiblingHash)
		}
	}
	return current
}
