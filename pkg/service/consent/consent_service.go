/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination service_mocks_test.go -self_package mocks -package consent_test -source=consent_service.go -mock_names consentLedger=MockConsentLedger,shareRegistry=MockShareRegistry

// Package consent builds and parses the shareable consent payload an owner
// hands to a recipient out of band (typically a QR code). The ledger keeps
// only a hash commitment; the secret travels inside the payload.
package consent

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/internal/logfields"
	"github.com/medvault/vault/pkg/ledger"
	"github.com/medvault/vault/pkg/storage/mongodb/sharestore"
)

var logger = log.New("consent-service")

// secret entropy: 128 bits.
const secretSize = 16

// ErrMalformedPayload is returned when no consent payload can be recovered
// from the presented input.
var ErrMalformedPayload = errors.New("malformed consent payload")

// Payload is the transport form of a consent share. The wire keys are fixed:
// scanners already deployed parse {v, token, passport, secret, scope, exp}.
type Payload struct {
	Version   int       `json:"v"`
	TokenRef  string    `json:"token"`
	OwnerRef  string    `json:"passport"`
	Secret    []byte    `json:"secret"`
	Scopes    []string  `json:"scope"`
	ExpiresAt time.Time `json:"exp"`
}

// Share is the owner-facing result of creating a consent share.
type Share struct {
	// Encoded is the URL-safe base64 payload, no padding.
	Encoded   string
	TokenRef  string
	Secret    []byte
	ExpiresAt time.Time
}

type consentLedger interface {
	SubmitConsentGrant(ctx context.Context, grant *ledger.ConsentGrant) (string, error)
	UpdateConsentExpiry(ctx context.Context, tokenRef string, expiresAt time.Time) error
}

type shareRegistry interface {
	Create(ctx context.Context, record *sharestore.ShareRecord) error
	ListByOwner(ctx context.Context, ownerRef string) ([]*sharestore.ShareRecord, error)
	Revoke(ctx context.Context, tokenRef string) error
}

// Config holds the Service dependencies.
type Config struct {
	Ledger   consentLedger
	Registry shareRegistry
}

// Service implements the consent flow.
type Service struct {
	ledger   consentLedger
	registry shareRegistry
}

// New creates the Service.
func New(cfg *Config) *Service {
	return &Service{
		ledger:   cfg.Ledger,
		registry: cfg.Registry,
	}
}

// CreateShare generates a fresh secret, commits hash(secret, ownerRef,
// scopes) on the ledger with the expiry, records the share in the registry
// and packages the transport payload.
func (s *Service) CreateShare(
	ctx context.Context, ownerRef string, scopes []string, ttl time.Duration) (*Share, error) {
	if len(scopes) == 0 {
		return nil, errors.New("at least one scope is required")
	}

	secret := make([]byte, secretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("generate share secret: %w", err)
	}

	expiresAt := time.Now().UTC().Add(ttl)

	tokenRef, err := s.ledger.SubmitConsentGrant(ctx, &ledger.ConsentGrant{
		OwnerRef:       ownerRef,
		CommitmentHash: Commitment(secret, ownerRef, scopes),
		Scopes:         scopes,
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("submit consent grant: %w", err)
	}

	err = s.registry.Create(ctx, &sharestore.ShareRecord{
		TokenRef:       tokenRef,
		OwnerRef:       ownerRef,
		Scopes:         scopes,
		CommitmentHash: Commitment(secret, ownerRef, scopes),
		ExpiresAt:      expiresAt,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("record share: %w", err)
	}

	encoded, err := encodePayload(&Payload{
		Version:   1,
		TokenRef:  tokenRef,
		OwnerRef:  ownerRef,
		Secret:    secret,
		Scopes:    scopes,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	logger.Infoc(ctx, "consent share created", logfields.WithOwnerRef(ownerRef),
		logfields.WithShareToken(tokenRef), logfields.WithExpiresAt(expiresAt))

	return &Share{
		Encoded:   encoded,
		TokenRef:  tokenRef,
		Secret:    secret,
		ExpiresAt: expiresAt,
	}, nil
}

// ListShares returns the owner's issued shares, revoked ones excluded.
func (s *Service) ListShares(ctx context.Context, ownerRef string) ([]*sharestore.ShareRecord, error) {
	records, err := s.registry.ListByOwner(ctx, ownerRef)
	if err != nil {
		return nil, err
	}

	active := make([]*sharestore.ShareRecord, 0, len(records))
	for _, record := range records {
		if !record.Revoked {
			active = append(active, record)
		}
	}

	return active, nil
}

// RevokeShare expires the grant on the ledger immediately and marks the
// registry record revoked.
func (s *Service) RevokeShare(ctx context.Context, tokenRef string) error {
	if err := s.ledger.UpdateConsentExpiry(ctx, tokenRef, time.Now().UTC()); err != nil {
		return fmt.Errorf("expire consent grant: %w", err)
	}

	return s.registry.Revoke(ctx, tokenRef)
}

// Commitment computes the hash the ledger predicate compares a redemption
// against: sha256 over the secret, the owner reference and each scope in
// order, all length-delimited.
func Commitment(secret []byte, ownerRef string, scopes []string) []byte {
	h := sha256.New()

	writeDelimited := func(data []byte) {
		var l [2]byte

		binary.BigEndian.PutUint16(l[:], uint16(len(data)))
		h.Write(l[:])
		h.Write(data)
	}

	writeDelimited(secret)
	writeDelimited([]byte(strings.ToLower(ownerRef)))

	for _, scopeName := range scopes {
		writeDelimited([]byte(scopeName))
	}

	return h.Sum(nil)
}

func encodePayload(p *Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode consent payload: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// ParsePayload recovers a consent payload from possibly decorated input:
// the scanner output may wrap the encoded marker in URLs, whitespace or
// surrounding text, so every plausible base64url run in the input is tried
// before giving up.
func ParsePayload(input string) (*Payload, error) {
	for _, candidate := range base64Candidates(input) {
		raw, err := base64.RawURLEncoding.DecodeString(candidate)
		if err != nil {
			continue
		}

		payload := &Payload{}
		if err = json.Unmarshal(raw, payload); err != nil {
			continue
		}

		if payload.Version != 1 || payload.TokenRef == "" || len(payload.Secret) == 0 {
			continue
		}

		return payload, nil
	}

	return nil, ErrMalformedPayload
}

// base64Candidates extracts maximal runs of base64url characters, longest
// first so a payload embedded in a larger string wins over its fragments.
func base64Candidates(input string) []string {
	isB64 := func(r rune) bool {
		return unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 || r == '-' || r == '_'
	}

	var (
		runs    []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() >= secretSize {
			runs = append(runs, current.String())
		}

		current.Reset()
	}

	for _, r := range input {
		if isB64(r) {
			current.WriteRune(r)

			continue
		}

		flush()
	}

	flush()

	// Longest first.
	for i := 0; i < len(runs); i++ {
		for j := i + 1; j < len(runs); j++ {
			if len(runs[j]) > len(runs[i]) {
				runs[i], runs[j] = runs[j], runs[i]
			}
		}
	}

	return runs
}
