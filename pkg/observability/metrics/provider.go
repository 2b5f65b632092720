/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by different metrics provider.
var Logger = log.New("metrics-provider")

// Constants used by different metrics provider.
const (
	// Namespace Organization namespace.
	Namespace = "vault"

	// Crypto seal/open operations.
	Crypto                     = "crypto"
	CryptoSealTimeMetric       = "crypto_seal_seconds"
	CryptoOpenTimeMetric       = "crypto_open_seconds"
	CryptoDecryptFailureMetric = "crypto_decrypt_failures_total"

	// Storage blob operations.
	Storage                       = "storage"
	StorageUploadTimeMetric       = "storage_blob_upload_seconds"
	StorageDownloadTimeMetric     = "storage_blob_download_seconds"
	StorageDownloadFallbackMetric = "storage_download_fallbacks_total"

	// ImageCache operations.
	ImageCache                 = "imagecache"
	ImageCacheHitMetric        = "imagecache_hits_total"
	ImageCacheMissMetric       = "imagecache_misses_total"
	ImageCacheEvictionMetric   = "imagecache_evictions_total"
	ImageCacheExpiryMetric     = "imagecache_lazy_expiries_total"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	SealTime(value time.Duration)
	OpenTime(value time.Duration)
	DecryptFailure(reason string)
	BlobUploadTime(value time.Duration)
	BlobDownloadTime(value time.Duration)
	BlobDownloadFallback()
	ImageCacheHit()
	ImageCacheMiss()
	ImageCacheEviction()
	ImageCacheLazyExpiry()
}
