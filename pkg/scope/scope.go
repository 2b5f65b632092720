/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package scope derives deterministic per-(owner, data type) scope
// identities. The identity binds a ciphertext to the access policy that
// governs it; it is reproducible anywhere without a network round trip and
// carries no secret on its own.
package scope

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Namespace is the fixed literal mixed into every derivation. Changing it
	// changes every scope identity in existence, so it is frozen.
	Namespace = "medvault"

	separator = "|"
)

// Derive returns the scope identity for the given owner and data type:
// lowercase hex of SHA-256 over "ownerID|medvault|dataType".
//
// The derivation is exact-byte deterministic. Any difference in case,
// whitespace or separator in ownerID or dataType produces a different
// identity, so callers must normalize ownerID consistently before calling.
func Derive(ownerID, dataType string) string {
	sum := sha256.Sum256([]byte(ownerID + separator + Namespace + separator + dataType))

	return hex.EncodeToString(sum[:])
}

// Normalize brings an externally sourced scope identity to canonical form:
// lowercase hex without a 0x prefix. Ledger objects and ciphertext headers
// have historically carried both encodings.
func Normalize(scopeID string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(scopeID, "0x"), "0X"))
}

// Equal reports whether two scope identities refer to the same scope after
// normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
