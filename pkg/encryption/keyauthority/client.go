/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keyauthority is the HTTP client for the threshold key-server
// fleet. It implements encryption.KeyAuthorityProvider: wrapping key shares
// under a scope identity at encrypt time and unwrapping them at decrypt time
// once the presented access proof satisfies the on-ledger policy.
package keyauthority

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/valyala/fastjson"

	"github.com/medvault/vault/pkg/encryption"
	"github.com/medvault/vault/pkg/session"
)

const (
	wrapPath   = "/v1/keys/wrap"
	unwrapPath = "/v1/keys/unwrap"

	defaultRequestTimeout = 20 * time.Second
	maxAttempts           = 3
)

// Server identifies one key-authority server.
type Server struct {
	ID  string
	URL string
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a fixed fleet of key servers.
type Client struct {
	servers    map[string]string
	httpClient httpClient
}

type clientOpts struct {
	httpClient httpClient
}

// ClientOpt configures Client.
type ClientOpt func(*clientOpts)

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(c httpClient) ClientOpt {
	return func(opts *clientOpts) {
		opts.httpClient = c
	}
}

// NewClient creates a fleet client.
func NewClient(servers []Server, opts ...ClientOpt) *Client {
	op := &clientOpts{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, fn := range opts {
		fn(op)
	}

	byID := make(map[string]string, len(servers))
	for _, s := range servers {
		byID[s.ID] = s.URL
	}

	return &Client{servers: byID, httpClient: op.httpClient}
}

// ServerIDs returns the fleet's server ids.
func (c *Client) ServerIDs() []string {
	ids := make([]string, 0, len(c.servers))
	for id := range c.servers {
		ids = append(ids, id)
	}

	return ids
}

// WrapShare asks serverID to wrap a key share under scopeID.
func (c *Client) WrapShare(ctx context.Context, serverID, scopeID string, share []byte) ([]byte, error) {
	body, err := json.Marshal(map[string]string{
		"scope_id": scopeID,
		"share":    base64.StdEncoding.EncodeToString(share),
	})
	if err != nil {
		return nil, err
	}

	return c.post(ctx, serverID, wrapPath, body, "wrapped")
}

// UnwrapShare asks serverID to unwrap a key share, authorized by the access
// proof and the session credential. A policy rejection maps to
// encryption.ErrAccessDenied and is terminal; transport failures are retried
// a bounded number of times.
func (c *Client) UnwrapShare(
	ctx context.Context, serverID, scopeID string, wrapped, accessProof []byte,
	cred *session.Credential) ([]byte, error) {
	credJSON, err := json.Marshal(cred)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"scope_id":     scopeID,
		"wrapped":      base64.StdEncoding.EncodeToString(wrapped),
		"access_proof": base64.StdEncoding.EncodeToString(accessProof),
		"session":      json.RawMessage(credJSON),
	})
	if err != nil {
		return nil, err
	}

	return c.post(ctx, serverID, unwrapPath, body, "share")
}

func (c *Client) post(ctx context.Context, serverID, path string, body []byte, resultField string) ([]byte, error) {
	baseURL, ok := c.servers[serverID]
	if !ok {
		return nil, fmt.Errorf("unknown key server %q", serverID)
	}

	var result []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("key server %s: %w", serverID, err)
		}

		defer func() {
			_ = resp.Body.Close()
		}()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("key server %s: read response: %w", serverID, err)
		}

		switch {
		case resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("key server %s: %w", serverID, encryption.ErrAccessDenied))
		case resp.StatusCode == http.StatusUnauthorized:
			return backoff.Permanent(fmt.Errorf("key server %s: %w", serverID, encryption.ErrSessionExpired))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("key server %s: unexpected status %d", serverID, resp.StatusCode)
		}

		parsed, err := fastjson.ParseBytes(respBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("key server %s: malformed response: %w", serverID, err))
		}

		result, err = base64.StdEncoding.DecodeString(string(parsed.GetStringBytes(resultField)))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("key server %s: malformed %s: %w", serverID, resultField, err))
		}

		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return result, nil
}
