package merkle

import (
	"encoding/json"
	"fmt"
)

// treeSnapshot is the on-disk/transport form of a Tree. The snapshot is
// authoritative: reconstructing from it must not recompute anything from the
// original records.
type treeSnapshot struct {
	RootHash   string   `json:"root_hash"`
	LeafHashes []string `json:"leaf_hashes"`
	LeafCount  int      `json:"leaf_count"`
}

// proofStepSnapshot mirrors ProofStep with a hex-encoded digest.
type proofStepSnapshot struct {
	SiblingHash string `json:"sibling_hash"`
	IsLeft      bool   `json:"is_left"`
}

// proofSnapshot is the on-disk/transport form of a Proof. Leaf data is
// carried verbatim.
type proofSnapshot struct {
	LeafData  any                 `json:"leaf_data"`
	LeafIndex int                 `json:"leaf_index"`
	ProofPath []proofStepSnapshot `json:"proof_path"`
	RootHash  string              `json:"root_hash"`
}

// MarshalTree serializes a Tree to its JSON snapshot form, digests as
// lowercase hex.
func MarshalTree(t *Tree) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot marshal nil Tree")
	}

	snap := treeSnapshot{
		RootHash:   EncodeDigest(t.Root),
		LeafHashes: make([]string, len(t.Leaves)),
		LeafCount:  len(t.Leaves),
	}
	for i, h := range t.Leaves {
		snap.LeafHashes[i] = EncodeDigest(h)
	}

	return json.Marshal(snap)
}

// UnmarshalTree reconstructs a Tree from its JSON snapshot. Every digest is
// width-checked before decoding; a leaf_count that disagrees with the leaf
// hash array is rejected.
func UnmarshalTree(data []byte) (*Tree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var snap treeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree snapshot: %w", err)
	}

	if len(snap.LeafHashes) == 0 {
		return nil, ErrEmptyInput
	}
	if snap.LeafCount != len(snap.LeafHashes) {
		return nil, fmt.Errorf("tree snapshot leaf_count %d does not match %d leaf hashes",
			snap.LeafCount, len(snap.LeafHashes))
	}

	root, err := DecodeDigest("root_hash", snap.RootHash)
	if err != nil {
		return nil, err
	}

	leaves := make([][32]byte, len(snap.LeafHashes))
	for i, h := range snap.LeafHashes {
		leaves[i], err = DecodeDigest("leaf_hashes", h)
		if err != nil {
			return nil, err
		}
	}

	return &Tree{Root: root, Leaves: leaves}, nil
}

// MarshalProof serializes a Proof to its JSON snapshot form. Leaf data is
// embedded verbatim so the proof stays independently verifiable.
func MarshalProof(p *Proof) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot marshal nil Proof")
	}

	snap := proofSnapshot{
		LeafData:  p.LeafData,
		LeafIndex: p.LeafIndex,
		ProofPath: make([]proofStepSnapshot, len(p.Path)),
		RootHash:  EncodeDigest(p.RootHash),
	}
	for i, step := range p.Path {
		snap.ProofPath[i] = proofStepSnapshot{
			SiblingHash: EncodeDigest(step.SiblingHash),
			IsLeft:      step.IsLeft,
		}
	}

	return json.Marshal(snap)
}

// UnmarshalProof reconstructs a Proof from its JSON snapshot. Digest widths
// are validated before any hashing can happen downstream.
func UnmarshalProof(data []byte) (*Proof, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var snap proofSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proof snapshot: %w", err)
	}

	if snap.LeafIndex < 0 {
		return nil, &IndexOutOfRangeError{Index: snap.LeafIndex, LeafCount: 0}
	}

	root, err := DecodeDigest("root_hash", snap.RootHash)
	if err != nil {
		return nil, err
	}

	path := make([]ProofStep, len(snap.ProofPath))
	for i, step := range snap.ProofPath {
		sibling, err := DecodeDigest("sibling_hash", step.SiblingHash)
		if err != nil {
			return nil, err
		}
		path[i] = ProofStep{SiblingHash: sibling, IsLeft: step.IsLeft}
	}

	return &Proof{
		LeafData:  snap.LeafData,
		LeafIndex: snap.LeafIndex,
		Path:      path,
		RootHash:  root,
	}, nil
}
