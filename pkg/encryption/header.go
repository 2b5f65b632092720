/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package encryption

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Sealed object wire layout, all integers big endian:
//
//	[4]  magic "MVS1"
//	[1]  version
//	[2]  scope id length | scope id (utf8 hex)
//	[1]  threshold
//	[1]  compression (0 none, 1 gzip, 2 zstd)
//	[1]  share count
//	     per share: [2] server id length | server id utf8
//	                [1] share index (shamir x coordinate)
//	                [2] wrapped share length | wrapped share
//	[4]  body length | body (AES-256-GCM, iv prefixed)
const (
	headerVersion = 1

	CompressionNone byte = 0
	CompressionGzip byte = 1
	CompressionZstd byte = 2
)

var headerMagic = []byte("MVS1")

// KeyShare is one server's wrapped fragment of the data encryption key.
type KeyShare struct {
	ServerID string
	Index    byte
	Wrapped  []byte
}

// Header is the self-describing part of a sealed object.
type Header struct {
	ScopeID     string
	Threshold   int
	Compression byte
	Shares      []KeyShare
}

// Validate rejects structurally broken headers. A zero threshold or an empty
// server list can never decrypt; callers surface this as ErrCorruptCiphertext
// before any key-server call is attempted.
func (h *Header) Validate() error {
	if h.Threshold == 0 {
		return fmt.Errorf("%w: threshold is zero", ErrCorruptCiphertext)
	}

	if len(h.Shares) == 0 {
		return fmt.Errorf("%w: empty server list", ErrCorruptCiphertext)
	}

	if h.Threshold > len(h.Shares) {
		return fmt.Errorf("%w: threshold %d exceeds %d shares",
			ErrCorruptCiphertext, h.Threshold, len(h.Shares))
	}

	return nil
}

func encodeSealed(h *Header, body []byte) []byte {
	var buf bytes.Buffer

	buf.Write(headerMagic)
	buf.WriteByte(headerVersion)
	writeLenPrefixed16(&buf, []byte(h.ScopeID))
	buf.WriteByte(byte(h.Threshold))
	buf.WriteByte(h.Compression)
	buf.WriteByte(byte(len(h.Shares)))

	for _, s := range h.Shares {
		writeLenPrefixed16(&buf, []byte(s.ServerID))
		buf.WriteByte(s.Index)
		writeLenPrefixed16(&buf, s.Wrapped)
	}

	var bodyLen [4]byte

	binary.BigEndian.PutUint32(bodyLen[:], uint32(len(body)))
	buf.Write(bodyLen[:])
	buf.Write(body)

	return buf.Bytes()
}

// decodeSealed parses a sealed object into header and body. Structural
// failures (truncation, bad magic) are ErrCorruptCiphertext: there is nothing
// a different key could do about them.
func decodeSealed(data []byte) (*Header, []byte, error) {
	r := &sliceReader{data: data}

	magic, err := r.take(len(headerMagic))
	if err != nil || !bytes.Equal(magic, headerMagic) {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrCorruptCiphertext)
	}

	version, err := r.takeByte()
	if err != nil || version != headerVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version", ErrCorruptCiphertext)
	}

	scopeID, err := r.takeLenPrefixed16()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: truncated scope id", ErrCorruptCiphertext)
	}

	threshold, err := r.takeByte()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: truncated threshold", ErrCorruptCiphertext)
	}

	compression, err := r.takeByte()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: truncated compression flag", ErrCorruptCiphertext)
	}

	shareCount, err := r.takeByte()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: truncated share count", ErrCorruptCiphertext)
	}

	header := &Header{
		ScopeID:     string(scopeID),
		Threshold:   int(threshold),
		Compression: compression,
	}

	for i := 0; i < int(shareCount); i++ {
		serverID, err := r.takeLenPrefixed16()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: truncated server id", ErrCorruptCiphertext)
		}

		index, err := r.takeByte()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: truncated share index", ErrCorruptCiphertext)
		}

		wrapped, err := r.takeLenPrefixed16()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: truncated share", ErrCorruptCiphertext)
		}

		header.Shares = append(header.Shares, KeyShare{
			ServerID: string(serverID),
			Index:    index,
			Wrapped:  wrapped,
		})
	}

	bodyLenRaw, err := r.take(4)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: truncated body length", ErrCorruptCiphertext)
	}

	body, err := r.take(int(binary.BigEndian.Uint32(bodyLenRaw)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: truncated body", ErrCorruptCiphertext)
	}

	return header, body, nil
}

// ParseHeader exposes header decoding without the body, for callers that
// need to inspect a sealed object (scope audit, corruption pre-checks).
func ParseHeader(data []byte) (*Header, error) {
	header, _, err := decodeSealed(data)

	return header, err
}

func writeLenPrefixed16(buf *bytes.Buffer, data []byte) {
	var l [2]byte

	binary.BigEndian.PutUint16(l[:], uint16(len(data)))
	buf.Write(l[:])
	buf.Write(data)
}

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("short read")
	}

	out := r.data[r.pos : r.pos+n]
	r.pos += n

	return out, nil
}

func (r *sliceReader) takeByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *sliceReader) takeLenPrefixed16() ([]byte, error) {
	l, err := r.take(2)
	if err != nil {
		return nil, err
	}

	return r.take(int(binary.BigEndian.Uint16(l)))
}
