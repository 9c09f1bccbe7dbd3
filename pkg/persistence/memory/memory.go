package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Schwifty101/Algo-MerkleTree/pkg/persistence"
)

// MemoryStore is an in-memory implementation of BaselineStore, intended for
// TESTING ONLY. All data is lost when the process exits.
// Thread-safe using sync.RWMutex; baselines are copied on the way in and out
// to prevent external mutation.
type MemoryStore struct {
	mu        sync.RWMutex
	baselines map[string]*persistence.Baseline
	closed    bool
}

// NewMemoryStore creates a new in-memory baseline store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		baselines: make(map[string]*persistence.Baseline),
	}
}

func copyBaseline(b *persistence.Baseline) *persistence.Baseline {
	cp := *b
	if b.Metadata != nil {
		cp.Metadata = make(map[string]string, len(b.Metadata))
		for k, v := range b.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// SaveBaseline persists a baseline snapshot under its dataset name.
func (m *MemoryStore) SaveBaseline(baseline *persistence.Baseline) error {
	if baseline == nil {
		return fmt.Errorf("cannot save nil Baseline")
	}
	if baseline.DatasetName == "" {
		return fmt.Errorf("cannot save Baseline without a dataset name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("baseline store is closed")
	}

	m.baselines[baseline.DatasetName] = copyBaseline(baseline)
	return nil
}

// LoadBaseline retrieves a baseline snapshot by dataset name.
func (m *MemoryStore) LoadBaseline(datasetName string) (*persistence.Baseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("baseline store is closed")
	}

	b, ok := m.baselines[datasetName]
	if !ok {
		return nil, nil // Not found
	}
	return copyBaseline(b), nil
}

// ListBaselines returns all baseline snapshots sorted by dataset name.
func (m *MemoryStore) ListBaselines() ([]*persistence.Baseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("baseline store is closed")
	}

	baselines := make([]*persistence.Baseline, 0, len(m.baselines))
	for _, b := range m.baselines {
		baselines = append(baselines, copyBaseline(b))
	}

	sort.Slice(baselines, func(i, j int) bool {
		return baselines[i].DatasetName < baselines[j].DatasetName
	})

	return baselines, nil
}

// DeleteBaseline removes a baseline snapshot. Idempotent.
func (m *MemoryStore) DeleteBaseline(datasetName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("baseline store is closed")
	}

	delete(m.baselines, datasetName)
	return nil
}

// Close shuts down the store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the store is operational.
func (m *MemoryStore) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("baseline store is closed")
	}
	return nil
}
