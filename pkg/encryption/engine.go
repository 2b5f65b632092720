/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package encryption

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/corvus-ch/shamir"
	subtleaead "github.com/google/tink/go/aead/subtle"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/internal/logfields"
	"github.com/medvault/vault/pkg/scope"
	"github.com/medvault/vault/pkg/session"
)

var logger = log.New("encryption-engine")

const demKeySize = 32

// Config describes one key-authority fleet connection.
type Config struct {
	// Network selects the ledger/storage network the fleet serves.
	Network string
	// Verify enables key-server certificate verification.
	Verify bool
	// ServerIDs lists the key-authority servers, order irrelevant.
	ServerIDs []string
	// Provider wraps/unwraps key shares against the fleet.
	Provider KeyAuthorityProvider
	// Compression applied to plaintext before sealing. Defaults to zstd.
	Compression byte
}

// Engine seals and opens scoped payloads. It holds no per-call mutable
// state; a single instance is shared across the process (see Get).
type Engine struct {
	cfg *Config
}

// New creates an Engine. Most callers should use Get, which maintains the
// process-wide instance cache.
func New(cfg *Config) *Engine {
	if cfg.Compression == 0 {
		cfg.Compression = CompressionZstd
	}

	return &Engine{cfg: cfg}
}

// Encrypt seals plaintext under scopeID with a t-of-n split of a fresh data
// encryption key. The returned RecoveryKey is the raw key; it is handed to
// the caller and forgotten.
func (e *Engine) Encrypt(ctx context.Context, plaintext []byte, scopeID string, threshold int) (*Sealed, error) {
	serverCount := len(e.cfg.ServerIDs)
	if threshold < 1 || threshold > serverCount {
		return nil, fmt.Errorf("%w: %d of %d servers", ErrInvalidThreshold, threshold, serverCount)
	}

	comp, err := compressorFor(e.cfg.Compression)
	if err != nil {
		return nil, err
	}

	compressed, err := comp.Compress(plaintext)
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}

	key := make([]byte, demKeySize)
	if _, err = io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate data encryption key: %w", err)
	}

	aead, err := subtleaead.NewAESGCM(key)
	if err != nil {
		return nil, fmt.Errorf("init AES-GCM: %w", err)
	}

	body, err := aead.Encrypt(compressed, []byte(scope.Normalize(scopeID)))
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}

	fragments, err := splitKey(key, serverCount, threshold)
	if err != nil {
		return nil, fmt.Errorf("split data encryption key: %w", err)
	}

	header := &Header{
		ScopeID:     scope.Normalize(scopeID),
		Threshold:   threshold,
		Compression: e.cfg.Compression,
	}

	for i, serverID := range e.cfg.ServerIDs {
		wrapped, wrapErr := e.cfg.Provider.WrapShare(ctx, serverID, header.ScopeID, fragments[i].data)
		if wrapErr != nil {
			return nil, fmt.Errorf("wrap share for server %s: %w", serverID, wrapErr)
		}

		header.Shares = append(header.Shares, KeyShare{
			ServerID: serverID,
			Index:    fragments[i].index,
			Wrapped:  wrapped,
		})
	}

	logger.Debugc(ctx, "payload sealed", logfields.WithScopeID(header.ScopeID),
		logfields.WithThreshold(threshold))

	return &Sealed{
		Ciphertext:  encodeSealed(header, body),
		RecoveryKey: key,
	}, nil
}

// Decrypt opens a sealed object. The header is validated before any network
// call: a zero threshold or empty server list is reported as
// ErrCorruptCiphertext so the caller can tell "wrong key" apart from "this
// data was encrypted incorrectly and must be re-created". An expired session
// credential also fails before the network round trip.
func (e *Engine) Decrypt(
	ctx context.Context, ciphertext, accessProof []byte, cred *session.Credential,
	expectedScopeID string) ([]byte, error) {
	header, body, err := decodeSealed(ciphertext)
	if err != nil {
		return nil, err
	}

	if err = header.Validate(); err != nil {
		return nil, err
	}

	if err = cred.Validate(time.Now()); err != nil {
		if errors.Is(err, session.ErrExpired) {
			return nil, ErrSessionExpired
		}

		return nil, err
	}

	// Identity drift between header and expectation is advisory: older
	// writers embedded prefixed identities. Flag it, keep going.
	if expectedScopeID != "" && !scope.Equal(header.ScopeID, expectedScopeID) {
		logger.Warnc(ctx, "ciphertext scope identity does not match expected scope",
			logfields.WithScopeID(scope.Normalize(expectedScopeID)),
			log.WithID(header.ScopeID))
	}

	collected := map[byte][]byte{}

	for _, share := range header.Shares {
		unwrapped, unwrapErr := e.cfg.Provider.UnwrapShare(
			ctx, share.ServerID, header.ScopeID, share.Wrapped, accessProof, cred)
		if unwrapErr != nil {
			if errors.Is(unwrapErr, ErrAccessDenied) {
				return nil, unwrapErr
			}

			logger.Warnc(ctx, "key server failed to unwrap share",
				logfields.WithKeyServerID(share.ServerID), log.WithError(unwrapErr))

			continue
		}

		collected[share.Index] = unwrapped

		if len(collected) >= header.Threshold {
			break
		}
	}

	if len(collected) < header.Threshold {
		return nil, fmt.Errorf("%w: got %d of %d", ErrInsufficientShares, len(collected), header.Threshold)
	}

	key, err := combineKey(collected, header.Threshold)
	if err != nil {
		return nil, fmt.Errorf("combine data encryption key: %w", err)
	}

	aead, err := subtleaead.NewAESGCM(key)
	if err != nil {
		return nil, fmt.Errorf("init AES-GCM: %w", err)
	}

	compressed, err := aead.Decrypt(body, []byte(header.ScopeID))
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}

	comp, err := compressorFor(header.Compression)
	if err != nil {
		return nil, err
	}

	return comp.Decompress(compressed)
}

type keyFragment struct {
	index byte
	data  []byte
}

// splitKey produces one key fragment per server. Threshold 1 distributes the
// key itself (shamir needs t >= 2); higher thresholds use GF(256) secret
// sharing.
func splitKey(key []byte, parts, threshold int) ([]keyFragment, error) {
	if threshold == 1 {
		out := make([]keyFragment, parts)
		for i := range out {
			out[i] = keyFragment{index: byte(i + 1), data: key}
		}

		return out, nil
	}

	shares, err := shamir.Split(key, parts, threshold)
	if err != nil {
		return nil, err
	}

	out := make([]keyFragment, 0, len(shares))
	for index, data := range shares {
		out = append(out, keyFragment{index: index, data: data})
	}

	return out, nil
}

func combineKey(collected map[byte][]byte, threshold int) ([]byte, error) {
	if threshold == 1 {
		for _, data := range collected {
			return data, nil
		}

		return nil, errors.New("no shares collected")
	}

	return shamir.Combine(collected)
}
