package persistence

// BaselineStore is the key-value boundary the integrity layer depends on:
// a named association from dataset name to baseline snapshot. All
// implementations must be safe for concurrent use.
type BaselineStore interface {
	// SaveBaseline persists a baseline under its dataset name,
	// overwriting any existing baseline with the same name.
	SaveBaseline(baseline *Baseline) error

	// LoadBaseline retrieves a baseline by dataset name.
	// Returns nil if no baseline exists, error only on storage failure.
	LoadBaseline(datasetName string) (*Baseline, error)

	// ListBaselines returns all stored baselines sorted by dataset name.
	// Returns an empty slice when none exist, error only on storage failure.
	ListBaselines() ([]*Baseline, error)

	// DeleteBaseline removes a baseline by dataset name.
	// Idempotent - returns nil if the baseline doesn't exist.
	DeleteBaseline(datasetName string) error

	// Close cleanly shuts down the store. Idempotent.
	// After Close(), all other operations return errors.
	Close() error

	// HealthCheck verifies the store is operational.
	// Returns nil if healthy, error describing the problem if not.
	HealthCheck() error
}
