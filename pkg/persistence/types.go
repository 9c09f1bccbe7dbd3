package persistence

import "time"

// Baseline is a named, persisted snapshot of a tree's commitment: the root
// hash plus enough metadata to make later comparisons meaningful. Only the
// root and the leaf count are semantically load-bearing; everything else is
// bookkeeping for reports.
type Baseline struct {
	// SnapshotID uniquely identifies this snapshot record.
	SnapshotID string `json:"snapshot_id"`

	// DatasetName is the key the baseline is stored and looked up under.
	DatasetName string `json:"dataset_name"`

	// RootHash is the committed root as a 64-character hex string.
	RootHash string `json:"root_hash"`

	// LeafCount is the number of records the root commits to.
	LeafCount int `json:"leaf_count"`

	// Timestamp records when the baseline was captured.
	Timestamp time.Time `json:"timestamp"`

	// Metadata carries free-form caller annotations (source, category, ...).
	Metadata map[string]string `json:"metadata,omitempty"`
}
