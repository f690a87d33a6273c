// Package blacklist implements the blacklist hash reconciliation engine: it
// hashes a local configured account set and compares it against two
// on-chain fingerprints.
package blacklist

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// CanonicalSerialize renders accounts as the sorted, newline-terminated
// "actor-blacklist=<name>\n" byte sequence. The input slice is not mutated.
func CanonicalSerialize(accounts []string) []byte {
	sorted := make([]string, len(accounts))
	copy(sorted, accounts)
	sort.Strings(sorted)

	var b strings.Builder
	for _, a := range sorted {
		b.WriteString("actor-blacklist=")
		b.WriteString(a)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Fingerprint returns the lowercase hex SHA-256 digest of accounts'
// canonical serialization. It is invariant under any permutation of the
// input.
func Fingerprint(accounts []string) string {
	sum := sha256.Sum256(CanonicalSerialize(accounts))
	return hex.EncodeToString(sum[:])
}
