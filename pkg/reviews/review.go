package reviews

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical field order for hashing. Fixed so that two structurally equal
// records always produce the same canonical string regardless of the order
// their fields arrived in.
var canonicalFields = []string{"reviewerID", "asin", "overall", "unixReviewTime", "reviewText"}

// Review is a single record from the Amazon review dataset, reduced to the
// five fields that participate in hashing. All fields are kept as strings;
// numeric fields are coerced to their natural string form at load time.
type Review struct {
	ReviewerID     string `json:"reviewerID"`
	ASIN           string `json:"asin"`
	Overall        string `json:"overall"`
	UnixReviewTime string `json:"unixReviewTime"`
	ReviewText     string `json:"reviewText"`
}

// Normalize extracts the canonical fields from a raw decoded JSON object.
// Missing fields become the empty string.
func Normalize(raw map[string]any) *Review {
	return &Review{
		ReviewerID:     FieldString(raw["reviewerID"]),
		ASIN:           FieldString(raw["asin"]),
		Overall:        FieldString(raw["overall"]),
		UnixReviewTime: FieldString(raw["unixReviewTime"]),
		ReviewText:     FieldString(raw["reviewText"]),
	}
}

// CanonicalString returns the deterministic pipe-joined representation used
// as leaf content: reviewerID|asin|overall|unixReviewTime|reviewText.
func (r *Review) CanonicalString() string {
	return strings.Join([]string{r.ReviewerID, r.ASIN, r.Overall, r.UnixReviewTime, r.ReviewText}, "|")
}

// CanonicalStringFromMap builds the canonical string directly from a raw
// object, e.g. the leaf data of a deserialized proof. Must produce the exact
// same bytes as Normalize followed by CanonicalString.
func CanonicalStringFromMap(raw map[string]any) string {
	parts := make([]string, len(canonicalFields))
	for i, f := range canonicalFields {
		parts[i] = FieldString(raw[f])
	}
	return strings.Join(parts, "|")
}

// FieldString coerces a decoded JSON value to its natural string form.
// nil (missing field) becomes the empty string. JSON numbers decode as
// float64 and must render in decimal, never scientific notation, so that
// a rating of 5.0 reads "5" and a unix timestamp keeps all its digits.
func FieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// IsValid reports whether a raw record carries enough fields to be hashed.
// By default reviewerID and asin must be present and non-empty; with
// requireAllFields set, all five canonical fields must be.
func IsValid(raw map[string]any, requireAllFields bool) bool {
	required := []string{"reviewerID", "asin"}
	if requireAllFields {
		required = canonicalFields
	}
	for _, f := range required {
		v, ok := raw[f]
		if !ok || strings.TrimSpace(FieldString(v)) == "" {
			return false
		}
	}
	return true
}
