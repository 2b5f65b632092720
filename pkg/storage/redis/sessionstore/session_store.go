/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sessionstore keeps session credentials in redis with a native TTL,
// so an expired session disappears from the store at the same moment the
// credential itself stops validating.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisapi "github.com/redis/go-redis/v9"

	"github.com/medvault/vault/pkg/session"
	"github.com/medvault/vault/pkg/storage/redis"
)

const keyPrefix = "vaultsession"

// ErrNotFound is returned when the session id is unknown or already expired.
var ErrNotFound = errors.New("session not found")

// Store stores session credentials with expiration.
type Store struct {
	redisClient *redis.Client
}

// New creates a new instance of Store.
func New(redisClient *redis.Client) *Store {
	return &Store{
		redisClient: redisClient,
	}
}

// Put stores the credential under a fresh session id. The redis TTL mirrors
// the credential's own remaining lifetime.
func (s *Store) Put(ctx context.Context, cred *session.Credential) (string, error) {
	ttl := time.Until(cred.ExpiresAt())
	if ttl <= 0 {
		return "", session.ErrExpired
	}

	sessionID := uuid.NewString()
	doc := &redisDocument{Credential: *cred}

	if err := s.redisClient.API().Set(ctx, resolveRedisKey(sessionID), doc, ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return sessionID, nil
}

// Get retrieves the credential for sessionID.
func (s *Store) Get(ctx context.Context, sessionID string) (*session.Credential, error) {
	b, err := s.redisClient.API().Get(ctx, resolveRedisKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("find session: %w", err)
	}

	var doc redisDocument
	if err = json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if doc.Credential.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	cred := doc.Credential

	return &cred, nil
}

// Delete drops the session, ending it early.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.redisClient.API().Del(ctx, resolveRedisKey(sessionID)).Err()
}

func resolveRedisKey(id string) string {
	return fmt.Sprintf("%s-%s", keyPrefix, id)
}
