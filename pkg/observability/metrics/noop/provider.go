/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package noop

import (
	"time"

	"github.com/medvault/vault/pkg/observability/metrics"
)

// NoMetrics provides default no operation implementation for the Metrics interface.
type NoMetrics struct{}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	return &NoMetrics{}
}

func (n *NoMetrics) SealTime(_ time.Duration)         {}
func (n *NoMetrics) OpenTime(_ time.Duration)         {}
func (n *NoMetrics) DecryptFailure(_ string)          {}
func (n *NoMetrics) BlobUploadTime(_ time.Duration)   {}
func (n *NoMetrics) BlobDownloadTime(_ time.Duration) {}
func (n *NoMetrics) BlobDownloadFallback()            {}
func (n *NoMetrics) ImageCacheHit()                 {}
func (n *NoMetrics) ImageCacheMiss()                {}
func (n *NoMetrics) ImageCacheEviction()            {}
func (n *NoMetrics) ImageCacheLazyExpiry()          {}
