package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Schwifty101/Algo-MerkleTree/pkg/reviews"
)

// DigestSize is the width of every hash value in the tree.
const DigestSize = sha256.Size

// HashData computes the SHA-256 digest of a string's UTF-8 bytes.
func HashData(data string) [32]byte {
	return sha256.Sum256([]byte(data))
}

// HashPair computes SHA-256(left || right) for two node digests.
// Raw byte concatenation, no hex, no length prefix.
func HashPair(left, right [32]byte) [32]byte {
	data := make([]byte, 2*DigestSize)
	copy(data[0:DigestSize], left[:])
	copy(data[DigestSize:], right[:])
	return sha256.Sum256(data)
}

// HashReview hashes a review via its canonical pipe-joined string.
func HashReview(r *reviews.Review) [32]byte {
	return HashData(r.CanonicalString())
}

// HashLeaf maps a record to its leaf digest. Structured records are hashed
// through the canonical five-field string; raw JSON objects (e.g. the leaf
// data of a deserialized proof) go through the same canonical rule; plain
// strings are hashed directly; anything else is hashed via its natural
// string form. This rule is the sole definition of leaf content and must be
// applied identically at build and verification time.
func HashLeaf(data any) [32]byte {
	switch v := data.(type) {
	case *reviews.Review:
		return HashData(v.CanonicalString())
	case reviews.Review:
		return HashData(v.CanonicalString())
	case map[string]any:
		return HashData(reviews.CanonicalStringFromMap(v))
	case string:
		return HashData(v)
	default:
		return HashData(fmt.Sprint(v))
	}
}

// EncodeDigest renders a digest as a lowercase 64-character hex string.
func EncodeDigest(d [32]byte) string {
	return hex.EncodeToString(d[:])
}

// DecodeDigest parses a 64-character hex string back into a digest.
// The width is checked before decoding; anything else is malformed.
func DecodeDigest(field, s string) ([32]byte, error) {
	var d [32]byte
	if len(s) != 2*DigestSize {
		return d, &MalformedDigestError{Field: field, Value: s}
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, &MalformedDigestError{Field: field, Value: s}
	}
	copy(d[:], raw)
	return d, nil
}
