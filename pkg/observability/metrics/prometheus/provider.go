/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create creates/initializes the prometheus metrics provider.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	if err := pp.httpServer.ListenAndServe(); err != nil {
		return fmt.Errorf("start metrics HTTP server: %w", err)
	}

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		return pp.httpServer.Shutdown(context.Background())
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the metrics for the vault.
type PromMetrics struct {
	sealTime         prometheus.Histogram
	openTime         prometheus.Histogram
	decryptFailures  *prometheus.CounterVec
	blobUploadTime   prometheus.Histogram
	blobDownloadTime prometheus.Histogram
	downloadFallback prometheus.Counter

	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheEvictions  prometheus.Counter
	cacheLazyExpiry prometheus.Counter
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		sealTime: newHistogram(metrics.Crypto, metrics.CryptoSealTimeMetric,
			"The time (in seconds) it takes to seal a payload.", nil),
		openTime: newHistogram(metrics.Crypto, metrics.CryptoOpenTimeMetric,
			"The time (in seconds) it takes to open a sealed payload.", nil),
		decryptFailures: newCounterVec(metrics.Crypto, metrics.CryptoDecryptFailureMetric,
			"The number of failed decrypts, partitioned by failure reason.", []string{"reason"}),
		blobUploadTime: newHistogram(metrics.Storage, metrics.StorageUploadTimeMetric,
			"The time (in seconds) it takes to complete the blob upload protocol.", nil),
		blobDownloadTime: newHistogram(metrics.Storage, metrics.StorageDownloadTimeMetric,
			"The time (in seconds) it takes to download a sealed blob.", nil),
		downloadFallback: newCounter(metrics.Storage, metrics.StorageDownloadFallbackMetric,
			"The number of downloads that fell back from the primary read path.", nil),
		cacheHits: newCounter(metrics.ImageCache, metrics.ImageCacheHitMetric,
			"The number of imaging cache hits.", nil),
		cacheMisses: newCounter(metrics.ImageCache, metrics.ImageCacheMissMetric,
			"The number of imaging cache misses.", nil),
		cacheEvictions: newCounter(metrics.ImageCache, metrics.ImageCacheEvictionMetric,
			"The number of imaging cache capacity evictions.", nil),
		cacheLazyExpiry: newCounter(metrics.ImageCache, metrics.ImageCacheExpiryMetric,
			"The number of imaging cache entries expired on access.", nil),
	}

	registerMetrics(pm)

	return pm
}

// SealTime records the time to seal a payload.
func (pm *PromMetrics) SealTime(value time.Duration) {
	pm.sealTime.Observe(value.Seconds())

	logger.Debug("seal time", log.WithDuration(value))
}

// OpenTime records the time to open a sealed payload.
func (pm *PromMetrics) OpenTime(value time.Duration) {
	pm.openTime.Observe(value.Seconds())

	logger.Debug("open time", log.WithDuration(value))
}

// DecryptFailure counts a failed decrypt by reason.
func (pm *PromMetrics) DecryptFailure(reason string) {
	pm.decryptFailures.WithLabelValues(reason).Inc()
}

// BlobUploadTime records the time for the full blob upload protocol.
func (pm *PromMetrics) BlobUploadTime(value time.Duration) {
	pm.blobUploadTime.Observe(value.Seconds())

	logger.Debug("blob upload time", log.WithDuration(value))
}

// BlobDownloadTime records the time to download a sealed blob.
func (pm *PromMetrics) BlobDownloadTime(value time.Duration) {
	pm.blobDownloadTime.Observe(value.Seconds())

	logger.Debug("blob download time", log.WithDuration(value))
}

// BlobDownloadFallback counts a download that left the primary read path.
func (pm *PromMetrics) BlobDownloadFallback() {
	pm.downloadFallback.Inc()
}

// ImageCacheHit counts an imaging cache hit.
func (pm *PromMetrics) ImageCacheHit() {
	pm.cacheHits.Inc()
}

// ImageCacheMiss counts an imaging cache miss.
func (pm *PromMetrics) ImageCacheMiss() {
	pm.cacheMisses.Inc()
}

// ImageCacheEviction counts a capacity eviction.
func (pm *PromMetrics) ImageCacheEviction() {
	pm.cacheEvictions.Inc()
}

// ImageCacheLazyExpiry counts an entry expired on access.
func (pm *PromMetrics) ImageCacheLazyExpiry() {
	pm.cacheLazyExpiry.Inc()
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.sealTime, pm.openTime, pm.decryptFailures,
		pm.blobUploadTime, pm.blobDownloadTime, pm.downloadFallback,
		pm.cacheHits, pm.cacheMisses, pm.cacheEvictions, pm.cacheLazyExpiry,
	)
}

func newCounter(subsystem, name, help string, labels prometheus.Labels) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newCounterVec(subsystem, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func newHistogram(subsystem, name, help string, labels prometheus.Labels) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}
