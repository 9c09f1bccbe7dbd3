package reviews

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Scanner buffer cap for line-delimited files. Review text can run long but
// single records stay well under this.
const maxLineBytes = 4 * 1024 * 1024

// LoadOptions controls dataset loading.
type LoadOptions struct {
	// Limit caps the number of records loaded. 0 means no limit.
	Limit int

	// RequireAllFields drops records missing any of the five canonical
	// fields instead of only requiring reviewerID and asin.
	RequireAllFields bool
}

// LoadReviews reads a dataset file in either line-delimited JSON (one object
// per line) or JSON array format, autodetected from the first byte.
// Malformed lines are skipped; records failing validation are dropped.
func LoadReviews(path string, opts LoadOptions) ([]*Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	first, err := reader.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}

	if first[0] == '[' {
		return loadArray(reader, opts)
	}
	return loadLines(reader, opts)
}

func loadArray(r *bufio.Reader, opts LoadOptions) ([]*Review, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array: %w", err)
	}

	reviews := make([]*Review, 0, len(raw))
	for _, obj := range raw {
		if opts.Limit > 0 && len(reviews) >= opts.Limit {
			break
		}
		if !IsValid(obj, opts.RequireAllFields) {
			continue
		}
		reviews = append(reviews, Normalize(obj))
	}
	return reviews, nil
}

func loadLines(r *bufio.Reader, opts LoadOptions) ([]*Review, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var reviews []*Review
	for scanner.Scan() {
		if opts.Limit > 0 && len(reviews) >= opts.Limit {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			// Skip malformed lines rather than failing the whole load.
			continue
		}
		if !IsValid(obj, opts.RequireAllFields) {
			continue
		}
		reviews = append(reviews, Normalize(obj))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan dataset file: %w", err)
	}
	return reviews, nil
}
