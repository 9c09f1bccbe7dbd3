package persistence

import (
	"encoding/json"
	"fmt"
)

// MarshalBaseline serializes a Baseline to JSON bytes.
func MarshalBaseline(b *Baseline) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("cannot marshal nil Baseline")
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Baseline to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalBaseline deserializes a Baseline from JSON bytes.
func UnmarshalBaseline(data []byte) (*Baseline, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to Baseline: %w", err)
	}

	return &b, nil
}
