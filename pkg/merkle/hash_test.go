package merkle

import (
	"crypto/sha256"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schwifty101/Algo-MerkleTree/pkg/reviews"
)

func TestHashData_KnownVector(t *testing.T) {
	// sha256("hello")
	h := HashData("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", EncodeDigest(h))
}

func TestHashPair_RawConcatenation(t *testing.T) {
	left := HashData("a")
	right := HashData("b")

	expected := sha256.Sum256(append(left[:], right[:]...))
	assert.Equal(t, expected, HashPair(left, right))

	// Order matters: hash(L||R) != hash(R||L) for distinct children.
	assert.NotEqual(t, HashPair(left, right), HashPair(right, left))
}

func TestHashReview_CanonicalString(t *testing.T) {
	r := &reviews.Review{
		ReviewerID:     "A123",
		ASIN:           "B456",
		Overall:        "5",
		UnixReviewTime: "1234567890",
		ReviewText:     "Great product!",
	}

	assert.Equal(t, HashData("A123|B456|5|1234567890|Great product!"), HashReview(r))
}

func TestHashLeaf_Dispatch(t *testing.T) {
	r := &reviews.Review{
		ReviewerID:     "A123",
		ASIN:           "B456",
		Overall:        "5",
		UnixReviewTime: "1234567890",
		ReviewText:     "ok",
	}
	raw := map[string]any{
		"reviewerID":     "A123",
		"asin":           "B456",
		"overall":        "5",
		"unixReviewTime": "1234567890",
		"reviewText":     "ok",
	}

	testCases := []struct {
		name string
		data any
	}{
		{"Pointer review", r},
		{"Value review", *r},
		{"Raw map", raw},
		{"Canonical string", "A123|B456|5|1234567890|ok"},
	}

	expected := HashData(r.CanonicalString())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, expected, HashLeaf(tc.data))
		})
	}
}

func TestHashLeaf_MapFieldOrderIrrelevant(t *testing.T) {
	// Two structurally equal records must hash identically regardless of
	// the order their fields arrived in; only the fixed canonical order
	// participates.
	a := map[string]any{"reviewerID": "X", "asin": "Y", "overall": "3", "unixReviewTime": "1", "reviewText": "t"}
	b := map[string]any{"reviewText": "t", "unixReviewTime": "1", "overall": "3", "asin": "Y", "reviewerID": "X"}

	assert.Equal(t, HashLeaf(a), HashLeaf(b))
}

func TestHashLeaf_MissingFieldsEmpty(t *testing.T) {
	raw := map[string]any{"reviewerID": "X", "asin": "Y"}
	assert.Equal(t, HashData("X|Y|||"), HashLeaf(raw))
}

func TestEncodeDecodeDigest_RoundTrip(t *testing.T) {
	original := HashData("round-trip")

	encoded := EncodeDigest(original)
	require.Len(t, encoded, 64)
	assert.Equal(t, strings.ToLower(encoded), encoded)

	decoded, err := DecodeDigest("digest", encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeDigest_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		value string
	}{
		{"Empty", ""},
		{"Too short", "abcd"},
		{"63 chars", strings.Repeat("a", 63)},
		{"65 chars", strings.Repeat("a", 65)},
		{"Non-hex characters", strings.Repeat("z", 64)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDigest("root_hash", tc.value)
			require.Error(t, err)

			var malformed *MalformedDigestError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "root_hash", malformed.Field)
		})
	}
}
