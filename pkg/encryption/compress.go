/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package encryption

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

type compressor interface {
	Compress(input []byte) ([]byte, error)
	Decompress(input []byte) ([]byte, error)
}

func compressorFor(alg byte) (compressor, error) {
	switch alg {
	case CompressionNone:
		return &nilZip{}, nil
	case CompressionGzip:
		return &gZip{}, nil
	case CompressionZstd:
		return &zStd{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorruptCiphertext, alg)
	}
}

type nilZip struct{}

func (n *nilZip) Compress(input []byte) ([]byte, error) {
	return input, nil
}

func (n *nilZip) Decompress(input []byte) ([]byte, error) {
	return input, nil
}

type gZip struct{}

func (g *gZip) Compress(input []byte) ([]byte, error) {
	var compressedData bytes.Buffer

	gzipWriter := gzip.NewWriter(&compressedData)

	if _, err := gzipWriter.Write(input); err != nil {
		return nil, err
	}

	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}

	return compressedData.Bytes(), nil
}

func (g *gZip) Decompress(input []byte) ([]byte, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = gzipReader.Close()
	}()

	return io.ReadAll(gzipReader)
}

type zStd struct{}

func (z *zStd) Compress(input []byte) ([]byte, error) {
	compressor, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}

	return compressor.EncodeAll(input, nil), nil
}

func (z *zStd) Decompress(input []byte) ([]byte, error) {
	decompressor, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating zstd decompressor: %w", err)
	}
	defer decompressor.Close()

	decompressedData, err := decompressor.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("error reading decompressed data: %w", err)
	}

	return decompressedData, nil
}
