/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination blob_store_mocks_test.go -package blobstore_test -source=blob_store.go -mock_names s3Client=MockS3Client

// Package blobstore stores sealed blobs in S3 instead of the storage
// network. The key is the content sha256, preserving the content-addressed
// identity contract: identical bytes map to the same blob id.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	vaultblob "github.com/medvault/vault/pkg/blobstore"
)

const contentType = "application/octet-stream"

type s3Client interface {
	PutObject(
		ctx context.Context,
		input *s3.PutObjectInput,
		opts ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)

	GetObject(
		ctx context.Context,
		input *s3.GetObjectInput,
		opts ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)

	HeadObject(
		ctx context.Context,
		input *s3.HeadObjectInput,
		opts ...func(*s3.Options),
	) (*s3.HeadObjectOutput, error)
}

// Store implements blobstore.Store over an S3 bucket.
type Store struct {
	s3Client s3Client
	bucket   string
}

// NewStore creates Store.
func NewStore(s3Client s3Client, bucket string) *Store {
	return &Store{
		s3Client: s3Client,
		bucket:   bucket,
	}
}

// Upload writes data under its content sha256. Epochs and Deletable have no
// S3 equivalent and are ignored; lifecycle is bucket policy.
func (p *Store) Upload(
	ctx context.Context,
	data []byte,
	_ *vaultblob.UploadOpts,
) (*vaultblob.UploadReceipt, error) {
	if len(data) > vaultblob.MaxBlobSize {
		return nil, fmt.Errorf("%w: %d bytes", vaultblob.ErrPayloadTooLarge, len(data))
	}

	digest := sha256.Sum256(data)
	blobID := hex.EncodeToString(digest[:])

	_, err := p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Key:         aws.String(blobID),
		Bucket:      aws.String(p.bucket),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &vaultblob.UploadReceipt{
		BlobID:     blobID,
		Size:       len(data),
		UploadedAt: time.Now(),
	}, nil
}

// Download reads the blob by id.
func (p *Store) Download(ctx context.Context, blobID string) ([]byte, error) {
	res, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(blobID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", vaultblob.ErrBlobNotFound, blobID)
		}

		return nil, err
	}

	defer func() {
		_ = res.Body.Close()
	}()

	return io.ReadAll(res.Body)
}

// Exists is a best-effort head request. Any error reads as "false".
func (p *Store) Exists(ctx context.Context, blobID string) bool {
	_, err := p.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(blobID),
	})

	return err == nil
}
