package reviews

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalString(t *testing.T) {
	tests := []struct {
		name     string
		review   *Review
		expected string
	}{
		{
			name: "All fields present",
			review: &Review{
				ReviewerID:     "A1B2C3",
				ASIN:           "0000013714",
				Overall:        "5",
				UnixReviewTime: "1393545600",
				ReviewText:     "Great product",
			},
			expected: "A1B2C3|0000013714|5|1393545600|Great product",
		},
		{
			name:     "Missing trailing fields",
			review:   &Review{ReviewerID: "X", ASIN: "Y"},
			expected: "X|Y|||",
		},
		{
			name:     "All fields empty",
			review:   &Review{},
			expected: "||||",
		},
		{
			name: "Pipe inside review text is kept verbatim",
			review: &Review{
				ReviewerID: "A", ASIN: "B", Overall: "3",
				UnixReviewTime: "0", ReviewText: "good|bad",
			},
			expected: "A|B|3|0|good|bad",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.review.CanonicalString())
		})
	}
}

func TestNormalize(t *testing.T) {
	raw := map[string]any{
		"reviewerID":     "A1B2C3",
		"asin":           "0000013714",
		"overall":        5.0,
		"unixReviewTime": 1393545600.0,
		"reviewText":     "Great product",
		"summary":        "ignored extra field",
		"helpful":        []any{1.0, 2.0},
	}

	r := Normalize(raw)

	// Numeric JSON values take their natural string form.
	assert.Equal(t, "A1B2C3", r.ReviewerID)
	assert.Equal(t, "0000013714", r.ASIN)
	assert.Equal(t, "5", r.Overall)
	assert.Equal(t, "1393545600", r.UnixReviewTime)
	assert.Equal(t, "Great product", r.ReviewText)
}

func TestNormalize_DecodedJSONTimestamp(t *testing.T) {
	// Real dataset lines carry unixReviewTime as a bare integer; decoded
	// through encoding/json it arrives as float64 and must keep every
	// digit in the canonical string.
	var raw map[string]any
	line := `{"reviewerID":"A1","asin":"B1","overall":5,"unixReviewTime":1393545600,"reviewText":"ok"}`
	require.NoError(t, json.Unmarshal([]byte(line), &raw))

	assert.Equal(t, "A1|B1|5|1393545600|ok", Normalize(raw).CanonicalString())
	assert.Equal(t, "A1|B1|5|1393545600|ok", CanonicalStringFromMap(raw))
}

func TestNormalize_MissingFields(t *testing.T) {
	r := Normalize(map[string]any{"reviewerID": "X", "asin": "Y"})
	assert.Equal(t, "X|Y|||", r.CanonicalString())
}

func TestCanonicalStringFromMap_MatchesNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{
			name: "Complete record",
			raw: map[string]any{
				"reviewerID":     "A1",
				"asin":           "B1",
				"overall":        4.0,
				"unixReviewTime": 100.0,
				"reviewText":     "ok",
			},
		},
		{
			name: "Partial record",
			raw:  map[string]any{"reviewerID": "A1", "reviewText": "only text"},
		},
		{
			name: "Empty record",
			raw:  map[string]any{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Normalize(tc.raw).CanonicalString(), CanonicalStringFromMap(tc.raw))
		})
	}
}

func TestCanonicalStringFromMap_RoundTripsReviewJSON(t *testing.T) {
	r := &Review{
		ReviewerID:     "A1",
		ASIN:           "B1",
		Overall:        "5",
		UnixReviewTime: "100",
		ReviewText:     "good",
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, r.CanonicalString(), CanonicalStringFromMap(raw))
}

func TestFieldString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "Nil", value: nil, expected: ""},
		{name: "String", value: "hello", expected: "hello"},
		{name: "Whole float", value: 5.0, expected: "5"},
		{name: "Fractional float", value: 4.5, expected: "4.5"},
		{name: "Unix timestamp stays decimal", value: 1393545600.0, expected: "1393545600"},
		{name: "Large float stays decimal", value: 1609459200000.0, expected: "1609459200000"},
		{name: "Int", value: 42, expected: "42"},
		{name: "Bool", value: true, expected: "true"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FieldString(tc.value))
		})
	}
}

func TestIsValid(t *testing.T) {
	complete := map[string]any{
		"reviewerID":     "A1",
		"asin":           "B1",
		"overall":        5.0,
		"unixReviewTime": 100.0,
		"reviewText":     "good",
	}

	tests := []struct {
		name             string
		raw              map[string]any
		requireAllFields bool
		expected         bool
	}{
		{name: "Complete record default mode", raw: complete, expected: true},
		{name: "Complete record strict mode", raw: complete, requireAllFields: true, expected: true},
		{
			name:     "Missing asin",
			raw:      map[string]any{"reviewerID": "A1"},
			expected: false,
		},
		{
			name:     "Blank reviewerID",
			raw:      map[string]any{"reviewerID": "  ", "asin": "B1"},
			expected: false,
		},
		{
			name:     "Missing reviewText allowed by default",
			raw:      map[string]any{"reviewerID": "A1", "asin": "B1"},
			expected: true,
		},
		{
			name:             "Missing reviewText rejected in strict mode",
			raw:              map[string]any{"reviewerID": "A1", "asin": "B1"},
			requireAllFields: true,
			expected:         false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValid(tc.raw, tc.requireAllFields))
		})
	}
}
