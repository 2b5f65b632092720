/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package session models the short-lived decryption session credential. The
// owner's wallet signs the session public key once; afterwards every
// key-share fetch within the TTL is authorized by the session signature
// instead of another wallet prompt. Expiry is checked locally and fail-fast:
// an expired credential never reaches the network.
package session

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is the default session credential lifetime.
const DefaultTTL = 10 * time.Minute

// ErrExpired is returned by Validate for an elapsed credential.
var ErrExpired = errors.New("session credential expired")

// Credential is a wallet-endorsed ephemeral session key.
type Credential struct {
	OwnerRef  string    `json:"owner_ref"`
	PublicKey []byte    `json:"public_key"`
	Signature []byte    `json:"signature"`
	CreatedAt time.Time `json:"created_at"`
	TTLMin    int       `json:"ttl_min"`
}

// New generates an ephemeral session key pair for ownerRef. The returned
// credential is unsigned; the caller obtains Signature from the wallet over
// SigningPayload and attaches it.
func New(ownerRef string, ttl time.Duration) (*Credential, ed25519.PrivateKey, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate session key: %w", err)
	}

	return &Credential{
		OwnerRef:  ownerRef,
		PublicKey: pub,
		CreatedAt: time.Now().UTC(),
		TTLMin:    int(ttl / time.Minute),
	}, priv, nil
}

// SigningPayload is the personal message the wallet signs to endorse this
// session key. The format is fixed; both the owner wallet and the key
// servers reproduce it byte for byte.
func (c *Credential) SigningPayload() []byte {
	return []byte(fmt.Sprintf("medvault session %x for %s valid %d min from %d",
		c.PublicKey, c.OwnerRef, c.TTLMin, c.CreatedAt.Unix()))
}

// ExpiresAt returns the credential's expiry instant.
func (c *Credential) ExpiresAt() time.Time {
	return c.CreatedAt.Add(time.Duration(c.TTLMin) * time.Minute)
}

// Expired reports whether the credential elapsed as of now.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt())
}

// Validate checks structural completeness and expiry.
func (c *Credential) Validate(now time.Time) error {
	if c == nil {
		return errors.New("session credential is nil")
	}

	if c.OwnerRef == "" || len(c.PublicKey) == 0 {
		return errors.New("session credential is incomplete")
	}

	if c.Expired(now) {
		return ErrExpired
	}

	return nil
}
