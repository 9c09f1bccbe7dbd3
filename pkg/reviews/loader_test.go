package reviews

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadReviews_LineDelimited(t *testing.T) {
	path := writeDataset(t, "reviews.json",
		`{"reviewerID":"A1","asin":"B1","overall":5.0,"unixReviewTime":100,"reviewText":"good"}
{"reviewerID":"A2","asin":"B2","overall":3.0,"unixReviewTime":200,"reviewText":"meh"}
{"reviewerID":"A3","asin":"B3","overall":1.0,"unixReviewTime":300,"reviewText":"bad"}
`)

	recs, err := LoadReviews(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "A1|B1|5|100|good", recs[0].CanonicalString())
	assert.Equal(t, "A2|B2|3|200|meh", recs[1].CanonicalString())
	assert.Equal(t, "A3|B3|1|300|bad", recs[2].CanonicalString())
}

func TestLoadReviews_JSONArray(t *testing.T) {
	path := writeDataset(t, "reviews.json",
		`[{"reviewerID":"A1","asin":"B1","overall":5.0,"unixReviewTime":100,"reviewText":"good"},
  {"reviewerID":"A2","asin":"B2","overall":2.0,"unixReviewTime":200,"reviewText":"bad"}]`)

	recs, err := LoadReviews(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A1|B1|5|100|good", recs[0].CanonicalString())
}

func TestLoadReviews_SkipsMalformedLines(t *testing.T) {
	path := writeDataset(t, "reviews.json",
		`{"reviewerID":"A1","asin":"B1"}
this line is not json
{"reviewerID":"A2","asin":"B2"}

{"reviewerID":"A3","asin":"B3"}
`)

	recs, err := LoadReviews(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "A1", recs[0].ReviewerID)
	assert.Equal(t, "A3", recs[2].ReviewerID)
}

func TestLoadReviews_DropsInvalidRecords(t *testing.T) {
	path := writeDataset(t, "reviews.json",
		`{"reviewerID":"A1","asin":"B1","reviewText":"good"}
{"asin":"B2","reviewText":"missing reviewer"}
{"reviewerID":"A3","asin":"B3"}
`)

	t.Run("Default validation", func(t *testing.T) {
		recs, err := LoadReviews(path, LoadOptions{})
		require.NoError(t, err)
		require.Len(t, recs, 2)
	})

	t.Run("Strict validation", func(t *testing.T) {
		recs, err := LoadReviews(path, LoadOptions{RequireAllFields: true})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestLoadReviews_Limit(t *testing.T) {
	path := writeDataset(t, "reviews.json",
		`{"reviewerID":"A1","asin":"B1"}
{"reviewerID":"A2","asin":"B2"}
{"reviewerID":"A3","asin":"B3"}
{"reviewerID":"A4","asin":"B4"}
`)

	recs, err := LoadReviews(path, LoadOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A1", recs[0].ReviewerID)
	assert.Equal(t, "A2", recs[1].ReviewerID)
}

func TestLoadReviews_MissingFile(t *testing.T) {
	recs, err := LoadReviews(filepath.Join(t.TempDir(), "nope.json"), LoadOptions{})
	require.Error(t, err)
	assert.Nil(t, recs)
}

func TestLoadReviews_EmptyFile(t *testing.T) {
	path := writeDataset(t, "empty.json", "")
	recs, err := LoadReviews(path, LoadOptions{})
	require.Error(t, err)
	assert.Nil(t, recs)
}

func TestLoadReviews_DeterministicOrder(t *testing.T) {
	content := `{"reviewerID":"A1","asin":"B1","overall":5.0}
{"reviewerID":"A2","asin":"B2","overall":4.0}
{"reviewerID":"A3","asin":"B3","overall":3.0}
`
	path := writeDataset(t, "reviews.json", content)

	first, err := LoadReviews(path, LoadOptions{})
	require.NoError(t, err)
	second, err := LoadReviews(path, LoadOptions{})
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].CanonicalString(), second[i].CanonicalString())
	}
}
