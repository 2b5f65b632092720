/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package envelope implements the length-prefixed (MIME type, payload)
// container that lets one encryption pipeline carry both structured JSON
// records and raw binary assets.
//
// Wire layout: [u32 BE mimeLen][mime utf8][payload].
package envelope

import (
	"encoding/binary"
	"errors"
)

// ErrMalformedEnvelope is returned when the buffer is too short for its own
// declared MIME length.
var ErrMalformedEnvelope = errors.New("malformed binary envelope")

const mimeLenSize = 4

// Envelope is a decoded (MIME type, payload) pair.
type Envelope struct {
	MimeType string
	Payload  []byte
}

// Encode serializes mimeType and payload into the wire layout.
func Encode(mimeType string, payload []byte) []byte {
	mime := []byte(mimeType)

	out := make([]byte, mimeLenSize+len(mime)+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(mime)))
	copy(out[mimeLenSize:], mime)
	copy(out[mimeLenSize+len(mime):], payload)

	return out
}

// Decode parses the wire layout. The declared MIME length is validated
// against the remaining buffer before any slicing.
func Decode(data []byte) (*Envelope, error) {
	if len(data) < mimeLenSize {
		return nil, ErrMalformedEnvelope
	}

	mimeLen := binary.BigEndian.Uint32(data)
	if uint64(mimeLen) > uint64(len(data)-mimeLenSize) {
		return nil, ErrMalformedEnvelope
	}

	return &Envelope{
		MimeType: string(data[mimeLenSize : mimeLenSize+mimeLen]),
		Payload:  data[mimeLenSize+mimeLen:],
	}, nil
}
