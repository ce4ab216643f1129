// Package fingerprint derives the content identity used for deduplication
// and publication tracking.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Size is the length of a fingerprint string.
const Size = sha256.Size * 2

// Of returns the fingerprint of an item's title and summary.
// Only byte-identical pairs share a fingerprint; no normalization is applied.
func Of(title, summary string) string {
	h := sha256.New()
	// The title length prefix keeps ("a|", "b") and ("a", "|b") apart.
	h.Write([]byte(strconv.Itoa(len(title))))
	h.Write([]byte{'|'})
	h.Write([]byte(title))
	h.Write([]byte{'|'})
	h.Write([]byte(summary))
	return hex.EncodeToString(h.Sum(nil))
}
