/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package casnet is the content-addressed storage network client. An upload
// runs a four-step protocol: encode the payload on the relay, register the
// resulting blob id on the ledger, transfer the bytes to the storage network,
// and certify availability back on the ledger. Downloads read the relay
// first, then fall back to each configured aggregator gateway, because the
// primary read path and its HTTP mirrors fail independently.
package casnet

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/trustbloc/logutil-go/pkg/log"
	"github.com/valyala/fastjson"

	"github.com/medvault/vault/internal/logfields"
	"github.com/medvault/vault/pkg/blobstore"
	"github.com/medvault/vault/pkg/ledger"
	"github.com/medvault/vault/pkg/observability/metrics"
	"github.com/medvault/vault/pkg/observability/metrics/noop"
)

var logger = log.New("casnet-blobstore")

const (
	encodePath = "/v1/blobs/encode"
	blobPath   = "/v1/blobs/"

	defaultRequestTimeout = 30 * time.Second
	downloadMaxAttempts   = 2
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type blobLedger interface {
	RegisterBlob(ctx context.Context, reg *ledger.BlobRegistration) error
	CertifyBlob(ctx context.Context, blobID string, receipt []byte) error
}

// Config holds the network client dependencies.
type Config struct {
	// RelayURL is the primary storage relay host.
	RelayURL string
	// AggregatorURLs are alternate read gateways, tried in order after the
	// relay on download failure.
	AggregatorURLs []string
	// Ledger records blob registration and certification.
	Ledger blobLedger
	// Metrics is optional; defaults to no-op.
	Metrics metrics.Metrics
}

// Network implements blobstore.Store over the storage network.
type Network struct {
	relayURL    string
	aggregators []string
	ledger      blobLedger
	httpClient  httpClient
	metrics     metrics.Metrics
}

type clientOpts struct {
	httpClient httpClient
}

// ClientOpt configures Network.
type ClientOpt func(*clientOpts)

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(c httpClient) ClientOpt {
	return func(opts *clientOpts) {
		opts.httpClient = c
	}
}

// NewNetwork creates a storage network client.
func NewNetwork(cfg *Config, opts ...ClientOpt) *Network {
	op := &clientOpts{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, fn := range opts {
		fn(op)
	}

	m := cfg.Metrics
	if m == nil {
		m = noop.GetMetrics()
	}

	return &Network{
		relayURL:    cfg.RelayURL,
		aggregators: cfg.AggregatorURLs,
		ledger:      cfg.Ledger,
		httpClient:  op.httpClient,
		metrics:     m,
	}
}

// Upload runs the four-step upload protocol. The steps are strictly
// sequential; a failure aborts the protocol and the aggregate error names
// the step that failed.
func (n *Network) Upload(ctx context.Context, data []byte, opts *blobstore.UploadOpts) (*blobstore.UploadReceipt, error) { //nolint:lll
	if len(data) > blobstore.MaxBlobSize {
		return nil, fmt.Errorf("%w: %d bytes", blobstore.ErrPayloadTooLarge, len(data))
	}

	blobID, err := n.encode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("upload step encode: %w", err)
	}

	err = n.ledger.RegisterBlob(ctx, &ledger.BlobRegistration{
		BlobID:    blobID,
		OwnerRef:  opts.OwnerRef,
		Epochs:    opts.Epochs,
		Deletable: opts.Deletable,
	})
	if err != nil {
		return nil, fmt.Errorf("upload step register: %w", err)
	}

	receipt, err := n.transfer(ctx, blobID, data)
	if err != nil {
		return nil, fmt.Errorf("upload step transfer: %w", err)
	}

	if err = n.ledger.CertifyBlob(ctx, blobID, receipt); err != nil {
		return nil, fmt.Errorf("upload step certify: %w", err)
	}

	logger.Debugc(ctx, "blob uploaded",
		logfields.WithBlobID(blobID), logfields.WithPayloadSize(len(data)))

	return &blobstore.UploadReceipt{
		BlobID:     blobID,
		Size:       len(data),
		UploadedAt: time.Now(),
	}, nil
}

// Download reads the relay first, then each aggregator gateway, each path
// with bounded retries. Only when every path is exhausted does the caller
// see ErrBlobNotFound.
func (n *Network) Download(ctx context.Context, blobID string) ([]byte, error) {
	paths := make([]string, 0, len(n.aggregators)+1)
	paths = append(paths, n.relayURL)
	paths = append(paths, n.aggregators...)

	for i, baseURL := range paths {
		data, err := n.fetch(ctx, baseURL, blobID)
		if err == nil {
			return data, nil
		}

		// Leaving the relay for the aggregator chain.
		if i == 0 {
			n.metrics.BlobDownloadFallback()
		}

		logger.Warnc(ctx, "blob retrieval path failed",
			logfields.WithBlobID(blobID), logfields.WithAggregator(baseURL), log.WithError(err))
	}

	return nil, fmt.Errorf("%w: %s", blobstore.ErrBlobNotFound, blobID)
}

// Exists is a best-effort HEAD against the relay. Any failure reads as
// "false" rather than propagating.
func (n *Network) Exists(ctx context.Context, blobID string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, n.relayURL+blobPath+blobID, http.NoBody)
	if err != nil {
		return false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode == http.StatusOK
}

// encode submits the payload to the relay for content-addressed encoding and
// returns the resulting blob id.
func (n *Network) encode(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.relayURL+encodePath, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/octet-stream")

	respBody, err := n.do(req)
	if err != nil {
		return "", err
	}

	parsed, err := fastjson.ParseBytes(respBody)
	if err != nil {
		return "", fmt.Errorf("malformed encode response: %w", err)
	}

	blobID := string(parsed.GetStringBytes("blob_id"))
	if blobID == "" {
		return "", fmt.Errorf("encode response carries no blob id")
	}

	return blobID, nil
}

// transfer PUTs the payload to the storage network and returns the relay's
// availability receipt for certification.
func (n *Network) transfer(ctx context.Context, blobID string, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, n.relayURL+blobPath+blobID, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/octet-stream")

	respBody, err := n.do(req)
	if err != nil {
		return nil, err
	}

	parsed, err := fastjson.ParseBytes(respBody)
	if err != nil {
		return nil, fmt.Errorf("malformed transfer response: %w", err)
	}

	receipt, err := base64.StdEncoding.DecodeString(string(parsed.GetStringBytes("receipt")))
	if err != nil {
		return nil, fmt.Errorf("malformed receipt: %w", err)
	}

	return receipt, nil
}

func (n *Network) fetch(ctx context.Context, baseURL, blobID string) ([]byte, error) {
	var data []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+blobPath+blobID, http.NoBody)
		if err != nil {
			return backoff.Permanent(err)
		}

		data, err = n.do(req)
		if err != nil {
			return err
		}

		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadMaxAttempts-1), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return data, nil
}

func (n *Network) do(req *http.Request) ([]byte, error) {
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
