package verification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Schwifty101/Algo-MerkleTree/pkg/merkle"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/persistence"
)

// Verification statuses. A missing baseline is an expected, recoverable
// outcome, reported through the Result rather than an error.
const (
	StatusVerified        = "verified"
	StatusFailed          = "failed"
	StatusBaselineMissing = "baseline_missing"
)

// Issue classifications attached to failed verifications.
const (
	IssueLeafCountMismatch = "leaf_count_mismatch"
	IssueDataModification  = "data_modification"
)

// Result is the structured outcome of an integrity verification.
type Result struct {
	Verified    bool   `json:"verified"`
	Status      string `json:"status"`
	DatasetName string `json:"dataset_name"`

	CurrentRootHash  string `json:"current_root_hash,omitempty"`
	BaselineRootHash string `json:"baseline_root_hash,omitempty"`

	CurrentLeafCount  int  `json:"current_leaf_count"`
	BaselineLeafCount int  `json:"baseline_leaf_count"`
	LeafCountMatch    bool `json:"leaf_count_match"`

	VerifiedAt        time.Time `json:"verified_at"`
	BaselineTimestamp time.Time `json:"baseline_timestamp,omitempty"`

	// Issue and Message classify a failure for reporting.
	Issue   string `json:"issue,omitempty"`
	Message string `json:"message,omitempty"`
}

// Comparison is the outcome of comparing two stored baselines.
type Comparison struct {
	DatasetA string `json:"dataset_a"`
	DatasetB string `json:"dataset_b"`

	Identical      bool `json:"identical"`
	LeafCountMatch bool `json:"leaf_count_match"`

	RootHashA  string `json:"root_hash_a"`
	RootHashB  string `json:"root_hash_b"`
	LeafCountA int    `json:"leaf_count_a"`
	LeafCountB int    `json:"leaf_count_b"`
}

// Checker persists baseline snapshots and verifies current trees against
// them. The fast path is a single root comparison; localization of a
// mismatch is the tamper detector's job.
type Checker struct {
	store  persistence.BaselineStore
	logger *zap.Logger
}

// NewChecker creates a checker bound to a baseline store.
func NewChecker(store persistence.BaselineStore, logger *zap.Logger) *Checker {
	return &Checker{store: store, logger: logger}
}

// VerifyRoots is the O(1) equality check between two root digests.
func VerifyRoots(currentRoot, baselineRoot [32]byte) bool {
	return currentRoot == baselineRoot
}

// SaveBaseline captures a tree's commitment as the named baseline,
// overwriting any previous snapshot under the same name.
func (c *Checker) SaveBaseline(tree *merkle.Tree, datasetName string, metadata map[string]string) (*persistence.Baseline, error) {
	if tree == nil {
		return nil, fmt.Errorf("cannot save baseline for nil tree")
	}
	if datasetName == "" {
		return nil, fmt.Errorf("dataset name cannot be empty")
	}

	baseline := &persistence.Baseline{
		SnapshotID:  uuid.NewString(),
		DatasetName: datasetName,
		RootHash:    tree.RootHex(),
		LeafCount:   tree.LeafCount(),
		Timestamp:   time.Now().UTC(),
		Metadata:    metadata,
	}

	if err := c.store.SaveBaseline(baseline); err != nil {
		return nil, fmt.Errorf("failed to save baseline %q: %w", datasetName, err)
	}

	c.logger.Sugar().Infow("Baseline saved",
		"dataset", datasetName,
		"root", baseline.RootHash,
		"leaves", baseline.LeafCount)

	return baseline, nil
}

// VerifyIntegrity compares a current tree against the named baseline.
// A root mismatch and a missing baseline are both normal outcomes carried in
// the Result; an error is returned only on storage failure.
func (c *Checker) VerifyIntegrity(tree *merkle.Tree, datasetName string) (*Result, error) {
	if tree == nil {
		return nil, fmt.Errorf("cannot verify nil tree")
	}

	baseline, err := c.store.LoadBaseline(datasetName)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline %q: %w", datasetName, err)
	}

	now := time.Now().UTC()

	if baseline == nil {
		return &Result{
			Verified:    false,
			Status:      StatusBaselineMissing,
			DatasetName: datasetName,
			VerifiedAt:  now,
			Message:     fmt.Sprintf("no baseline found for dataset %q", datasetName),
		}, nil
	}

	currentRoot := tree.RootHex()
	match := currentRoot == baseline.RootHash

	result := &Result{
		Verified:          match,
		DatasetName:       datasetName,
		CurrentRootHash:   currentRoot,
		BaselineRootHash:  baseline.RootHash,
		CurrentLeafCount:  tree.LeafCount(),
		BaselineLeafCount: baseline.LeafCount,
		LeafCountMatch:    tree.LeafCount() == baseline.LeafCount,
		VerifiedAt:        now,
		BaselineTimestamp: baseline.Timestamp,
	}

	if match {
		result.Status = StatusVerified
		result.Message = "data integrity verified - no tampering detected"
		return result, nil
	}

	result.Status = StatusFailed
	if !result.LeafCountMatch {
		result.Issue = IssueLeafCountMismatch
		result.Message = fmt.Sprintf("record count changed: %d -> %d", baseline.LeafCount, tree.LeafCount())
	} else {
		result.Issue = IssueDataModification
		result.Message = "record count unchanged but root hash differs - data has been modified"
	}

	c.logger.Sugar().Warnw("Integrity verification failed",
		"dataset", datasetName,
		"issue", result.Issue)

	return result, nil
}

// CompareBaselines compares two stored baselines by root hash and leaf count.
func (c *Checker) CompareBaselines(datasetA, datasetB string) (*Comparison, error) {
	a, err := c.store.LoadBaseline(datasetA)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline %q: %w", datasetA, err)
	}
	if a == nil {
		return nil, fmt.Errorf("baseline %q not found", datasetA)
	}

	b, err := c.store.LoadBaseline(datasetB)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline %q: %w", datasetB, err)
	}
	if b == nil {
		return nil, fmt.Errorf("baseline %q not found", datasetB)
	}

	return &Comparison{
		DatasetA:       datasetA,
		DatasetB:       datasetB,
		Identical:      a.RootHash == b.RootHash,
		LeafCountMatch: a.LeafCount == b.LeafCount,
		RootHashA:      a.RootHash,
		RootHashB:      b.RootHash,
		LeafCountA:     a.LeafCount,
		LeafCountB:     b.LeafCount,
	}, nil
}

// ListBaselines returns all stored baselines.
func (c *Checker) ListBaselines() ([]*persistence.Baseline, error) {
	return c.store.ListBaselines()
}

// DeleteBaseline removes a stored baseline.
func (c *Checker) DeleteBaseline(datasetName string) error {
	return c.store.DeleteBaseline(datasetName)
}
