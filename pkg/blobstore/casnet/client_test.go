/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casnet_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medvault/vault/pkg/blobstore"
	"github.com/medvault/vault/pkg/blobstore/casnet"
	"github.com/medvault/vault/pkg/ledger"
	"github.com/medvault/vault/pkg/observability/metrics"
	"github.com/medvault/vault/pkg/observability/metrics/noop"
)

type fakeLedger struct {
	registered  []*ledger.BlobRegistration
	certified   map[string][]byte
	registerErr error
	certifyErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{certified: map[string][]byte{}}
}

func (f *fakeLedger) RegisterBlob(_ context.Context, reg *ledger.BlobRegistration) error {
	if f.registerErr != nil {
		return f.registerErr
	}

	f.registered = append(f.registered, reg)

	return nil
}

func (f *fakeLedger) CertifyBlob(_ context.Context, blobID string, receipt []byte) error {
	if f.certifyErr != nil {
		return f.certifyErr
	}

	f.certified[blobID] = receipt

	return nil
}

// relayServer implements the relay's encode/transfer/fetch surface backed by
// an in-memory content-addressed map.
func relayServer(t *testing.T) (*httptest.Server, map[string][]byte) {
	t.Helper()

	blobs := map[string][]byte{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/blobs/encode":
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			digest := sha256.Sum256(data)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"blob_id": hex.EncodeToString(digest[:]),
			})
		case r.Method == http.MethodPut:
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			blobs[r.URL.Path[len("/v1/blobs/"):]] = data

			_ = json.NewEncoder(w).Encode(map[string]string{
				"receipt": base64.StdEncoding.EncodeToString([]byte("availability-receipt")),
			})
		case r.Method == http.MethodGet || r.Method == http.MethodHead:
			data, ok := blobs[r.URL.Path[len("/v1/blobs/"):]]
			if !ok {
				w.WriteHeader(http.StatusNotFound)

				return
			}

			_, _ = w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	t.Cleanup(srv.Close)

	return srv, blobs
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	relay, _ := relayServer(t)
	chain := newFakeLedger()

	network := casnet.NewNetwork(&casnet.Config{
		RelayURL: relay.URL,
		Ledger:   chain,
	})

	payload := bytes.Repeat([]byte("sealed "), 100)

	receipt, err := network.Upload(context.Background(), payload, &blobstore.UploadOpts{
		Epochs:    3,
		Deletable: true,
		OwnerRef:  "0xowner",
	})
	require.NoError(t, err)
	require.NotEmpty(t, receipt.BlobID)
	require.Equal(t, len(payload), receipt.Size)

	// Both ledger steps ran with the relay's blob id.
	require.Len(t, chain.registered, 1)
	require.Equal(t, receipt.BlobID, chain.registered[0].BlobID)
	require.Equal(t, 3, chain.registered[0].Epochs)
	require.True(t, chain.registered[0].Deletable)
	require.Equal(t, []byte("availability-receipt"), chain.certified[receipt.BlobID])

	downloaded, err := network.Download(context.Background(), receipt.BlobID)
	require.NoError(t, err)
	require.Equal(t, payload, downloaded)

	require.True(t, network.Exists(context.Background(), receipt.BlobID))
	require.False(t, network.Exists(context.Background(), "deadbeef"))
}

func TestUploadIdempotentIdentity(t *testing.T) {
	relay, _ := relayServer(t)
	chain := newFakeLedger()

	network := casnet.NewNetwork(&casnet.Config{RelayURL: relay.URL, Ledger: chain})

	first, err := network.Upload(context.Background(), []byte("same bytes"), &blobstore.UploadOpts{OwnerRef: "0xa"})
	require.NoError(t, err)

	second, err := network.Upload(context.Background(), []byte("same bytes"), &blobstore.UploadOpts{OwnerRef: "0xa"})
	require.NoError(t, err)

	require.Equal(t, first.BlobID, second.BlobID)
}

func TestUploadSizeCeiling(t *testing.T) {
	t.Run("exactly at the ceiling", func(t *testing.T) {
		relay, _ := relayServer(t)

		network := casnet.NewNetwork(&casnet.Config{RelayURL: relay.URL, Ledger: newFakeLedger()})

		receipt, err := network.Upload(context.Background(),
			make([]byte, blobstore.MaxBlobSize), &blobstore.UploadOpts{})
		require.NoError(t, err)
		require.Equal(t, blobstore.MaxBlobSize, receipt.Size)
	})

	t.Run("one byte over is rejected before any network call", func(t *testing.T) {
		network := casnet.NewNetwork(&casnet.Config{RelayURL: "http://unused", Ledger: newFakeLedger()})

		_, err := network.Upload(context.Background(),
			make([]byte, blobstore.MaxBlobSize+1), &blobstore.UploadOpts{})
		require.ErrorIs(t, err, blobstore.ErrPayloadTooLarge)
	})
}

func TestUploadStepNamesInErrors(t *testing.T) {
	relay, _ := relayServer(t)

	t.Run("register fails", func(t *testing.T) {
		chain := newFakeLedger()
		chain.registerErr = errors.New("ledger down")

		network := casnet.NewNetwork(&casnet.Config{RelayURL: relay.URL, Ledger: chain})

		_, err := network.Upload(context.Background(), []byte("x"), &blobstore.UploadOpts{})
		require.ErrorContains(t, err, "upload step register")
	})

	t.Run("certify fails", func(t *testing.T) {
		chain := newFakeLedger()
		chain.certifyErr = errors.New("ledger down")

		network := casnet.NewNetwork(&casnet.Config{RelayURL: relay.URL, Ledger: chain})

		_, err := network.Upload(context.Background(), []byte("x"), &blobstore.UploadOpts{})
		require.ErrorContains(t, err, "upload step certify")
	})

	t.Run("encode fails", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer broken.Close()

		network := casnet.NewNetwork(&casnet.Config{RelayURL: broken.URL, Ledger: newFakeLedger()})

		_, err := network.Upload(context.Background(), []byte("x"), &blobstore.UploadOpts{})
		require.ErrorContains(t, err, "upload step encode")
	})
}

// fallbackCounter observes downloads leaving the primary read path.
type fallbackCounter struct {
	metrics.Metrics
	count int
}

func (f *fallbackCounter) BlobDownloadFallback() { f.count++ }

func TestDownloadAggregatorFallback(t *testing.T) {
	deadRelay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer deadRelay.Close()

	aggregator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/blobs/blob-1", r.URL.Path)
		_, _ = w.Write([]byte("from-aggregator"))
	}))
	defer aggregator.Close()

	m := &fallbackCounter{Metrics: noop.GetMetrics()}

	network := casnet.NewNetwork(&casnet.Config{
		RelayURL:       deadRelay.URL,
		AggregatorURLs: []string{aggregator.URL},
		Ledger:         newFakeLedger(),
		Metrics:        m,
	})

	data, err := network.Download(context.Background(), "blob-1")
	require.NoError(t, err)
	require.Equal(t, []byte("from-aggregator"), data)
	require.Equal(t, 1, m.count)
}

func TestDownloadAllPathsExhausted(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer dead.Close()

	network := casnet.NewNetwork(&casnet.Config{
		RelayURL:       dead.URL,
		AggregatorURLs: []string{dead.URL},
		Ledger:         newFakeLedger(),
	})

	_, err := network.Download(context.Background(), "missing")
	require.ErrorIs(t, err, blobstore.ErrBlobNotFound)
}
