package verification

import (
	"time"

	"github.com/Schwifty101/Algo-MerkleTree/pkg/merkle"
)

// Record comparison statuses returned by CompareRecord.
const (
	RecordUnchanged  = "unchanged"
	RecordModified   = "modified"
	RecordDeleted    = "deleted"
	RecordInserted   = "inserted"
	RecordOutOfRange = "index_out_of_range"
)

// Report localizes the changes between a baseline and a current leaf-hash
// array. The comparison is strictly positional: a record moved to a new
// index reads as a modification, and a single mid-sequence deletion reads as
// modifications of every following position plus a trailing deletion. That
// coarse behavior is intentional - this is an O(n) diagnostic hint, not a
// sequence-alignment diff.
type Report struct {
	TamperingDetected bool `json:"tampering_detected"`
	TotalChanges      int  `json:"total_changes"`

	BaselineSize int  `json:"baseline_size"`
	CurrentSize  int  `json:"current_size"`
	SizeChanged  bool `json:"size_changed"`

	Modifications []int `json:"modifications"`
	Deletions     []int `json:"deletions"`
	Insertions    []int `json:"insertions"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// DetectTampering diffs the leaf hashes of two trees.
func DetectTampering(baseline, current *merkle.Tree) *Report {
	return DiffLeafHashes(baseline.Leaves, current.Leaves)
}

// DiffLeafHashes performs the positional diff between two leaf-hash arrays:
// index-by-index comparison over the overlap, then trailing indices recorded
// as deletions (baseline longer) or insertions (current longer).
func DiffLeafHashes(baselineLeaves, currentLeaves [][32]byte) *Report {
	baselineSize := len(baselineLeaves)
	currentSize := len(currentLeaves)

	modifications := []int{}
	deletions := []int{}
	insertions := []int{}

	minSize := baselineSize
	if currentSize < minSize {
		minSize = currentSize
	}

	for i := 0; i < minSize; i++ {
		if baselineLeaves[i] != currentLeaves[i] {
			modifications = append(modifications, i)
		}
	}

	if baselineSize > currentSize {
		for i := currentSize; i < baselineSize; i++ {
			deletions = append(deletions, i)
		}
	} else if currentSize > baselineSize {
		for i := baselineSize; i < currentSize; i++ {
			insertions = append(insertions, i)
		}
	}

	total := len(modifications) + len(deletions) + len(insertions)

	return &Report{
		TamperingDetected: total > 0,
		TotalChanges:      total,
		BaselineSize:      baselineSize,
		CurrentSize:       currentSize,
		SizeChanged:       baselineSize != currentSize,
		Modifications:     modifications,
		Deletions:         deletions,
		Insertions:        insertions,
		AnalyzedAt:        time.Now().UTC(),
	}
}

// CompareRecord classifies a single index across two trees.
func CompareRecord(baseline, current *merkle.Tree, index int) string {
	baselineHash, baselineErr := baseline.LeafHash(index)
	currentHash, currentErr := current.LeafHash(index)

	switch {
	case baselineErr != nil && currentErr != nil:
		return RecordOutOfRange
	case baselineErr != nil:
		return RecordInserted
	case currentErr != nil:
		return RecordDeleted
	case baselineHash == currentHash:
		return RecordUnchanged
	default:
		return RecordModified
	}
}
