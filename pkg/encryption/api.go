/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package encryption implements scoped threshold encryption of vault
// payloads. A payload is compressed, sealed with a fresh AES-256-GCM data
// encryption key, and the key is split t-of-n across the key-authority fleet;
// each share is wrapped by its server under the payload's scope identity.
// Decryption presents an access proof (a simulate-only ledger transaction)
// to at least t servers, combines the returned shares and opens the body.
package encryption

import (
	"context"
	"errors"

	"github.com/medvault/vault/pkg/session"
)

var (
	// ErrCorruptCiphertext means the sealed object's own header is invalid
	// (zero threshold or empty server list). No key will ever decrypt it; the
	// record has to be re-created. Distinct from ErrAccessDenied on purpose.
	ErrCorruptCiphertext = errors.New("corrupt ciphertext header")

	// ErrAccessDenied means the policy predicate evaluated through the
	// access proof rejected the request.
	ErrAccessDenied = errors.New("access denied by policy")

	// ErrSessionExpired means the session credential's TTL elapsed. Checked
	// before any network round trip.
	ErrSessionExpired = errors.New("session credential expired")

	// ErrInvalidThreshold rejects encrypt requests with a threshold outside
	// 1..serverCount.
	ErrInvalidThreshold = errors.New("threshold out of range")

	// ErrInsufficientShares means fewer than threshold servers produced a
	// usable key share.
	ErrInsufficientShares = errors.New("insufficient key shares")
)

// KeyAuthorityProvider is the boundary to the external threshold
// identity-based-encryption service. Implementations wrap a key share under
// a scope identity at encrypt time and unwrap it at decrypt time once the
// access proof satisfies the on-ledger policy.
type KeyAuthorityProvider interface {
	WrapShare(ctx context.Context, serverID, scopeID string, share []byte) ([]byte, error)
	UnwrapShare(ctx context.Context, serverID, scopeID string, wrapped, accessProof []byte,
		cred *session.Credential) ([]byte, error)
}

// Sealed is the result of Encrypt.
type Sealed struct {
	// Ciphertext is the self-describing sealed object (header + body).
	Ciphertext []byte
	// RecoveryKey is the raw data encryption key. Callers may escrow it; it
	// is never persisted by this package.
	RecoveryKey []byte
}

// RecommendedThreshold returns the default threshold policy for a fleet of
// serverCount key servers: two-server protection when possible, graceful
// degradation to a single server rather than failure.
func RecommendedThreshold(serverCount int) int {
	if serverCount < 1 {
		return 1
	}

	if serverCount == 1 {
		return 1
	}

	return 2
}
