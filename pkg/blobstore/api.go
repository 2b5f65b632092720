/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package blobstore defines the content-addressed blob storage contract used
// for sealed payloads and metadata blobs. Implementations live in subpackages
// (casnet) and pkg/storage/s3/blobstore.
package blobstore

import (
	"context"
	"errors"
	"time"
)

// MaxBlobSize is the upload ceiling. Checked before any network call.
const MaxBlobSize = 1 << 20

var (
	// ErrPayloadTooLarge is returned when an upload exceeds MaxBlobSize.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum blob size")

	// ErrBlobNotFound is returned when every retrieval path has been
	// exhausted without producing the blob.
	ErrBlobNotFound = errors.New("blob not found")
)

// UploadOpts carries per-upload storage parameters.
type UploadOpts struct {
	// Epochs is the storage duration in network epochs.
	Epochs int
	// Deletable marks the blob as owner-deletable.
	Deletable bool
	// OwnerRef is the ledger identity funding the storage.
	OwnerRef string
}

// UploadReceipt describes a stored blob.
type UploadReceipt struct {
	BlobID     string
	Size       int
	UploadedAt time.Time
}

// Store is the blob storage contract. Content addressing makes identical
// bytes map to the same blob id, so re-uploads are harmless; callers must
// not rely on distinct ids from re-uploading the same content.
type Store interface {
	Upload(ctx context.Context, data []byte, opts *UploadOpts) (*UploadReceipt, error)
	Download(ctx context.Context, blobID string) ([]byte, error)
	Exists(ctx context.Context, blobID string) bool
}
