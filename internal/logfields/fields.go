/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"time"

	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldAggregator   = "aggregator"
	FieldBlobID       = "blobID"
	FieldDataType     = "dataType"
	FieldEntryCount   = "entryCount"
	FieldExpiresAt    = "expiresAt"
	FieldKeyServerID  = "keyServerID"
	FieldOwnerRef     = "ownerRef"
	FieldPartitionKey = "partitionKey"
	FieldPayloadSize  = "payloadSize"
	FieldScopeID      = "scopeID"
	FieldShareToken   = "shareToken"
	FieldThreshold    = "threshold"
)

// WithAggregator sets the aggregator gateway field.
func WithAggregator(value string) zap.Field {
	return zap.String(FieldAggregator, value)
}

// WithBlobID sets the BlobID field.
func WithBlobID(blobID string) zap.Field {
	return zap.String(FieldBlobID, blobID)
}

// WithDataType sets the DataType field.
func WithDataType(dataType string) zap.Field {
	return zap.String(FieldDataType, dataType)
}

// WithEntryCount sets the EntryCount field.
func WithEntryCount(count int) zap.Field {
	return zap.Int(FieldEntryCount, count)
}

// WithExpiresAt sets the ExpiresAt field.
func WithExpiresAt(expiresAt time.Time) zap.Field {
	return zap.Time(FieldExpiresAt, expiresAt)
}

// WithKeyServerID sets the KeyServerID field.
func WithKeyServerID(id string) zap.Field {
	return zap.String(FieldKeyServerID, id)
}

// WithOwnerRef sets the OwnerRef field.
func WithOwnerRef(ownerRef string) zap.Field {
	return zap.String(FieldOwnerRef, ownerRef)
}

// WithPartitionKey sets the PartitionKey field.
func WithPartitionKey(key string) zap.Field {
	return zap.String(FieldPartitionKey, key)
}

// WithPayloadSize sets the PayloadSize field.
func WithPayloadSize(size int) zap.Field {
	return zap.Int(FieldPayloadSize, size)
}

// WithScopeID sets the ScopeID field.
func WithScopeID(scopeID string) zap.Field {
	return zap.String(FieldScopeID, scopeID)
}

// WithShareToken sets the ShareToken field.
func WithShareToken(token string) zap.Field {
	return zap.String(FieldShareToken, token)
}

// WithThreshold sets the Threshold field.
func WithThreshold(threshold int) zap.Field {
	return zap.Int(FieldThreshold, threshold)
}

