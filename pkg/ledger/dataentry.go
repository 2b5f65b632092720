/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/hex"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/medvault/vault/pkg/scope"
)

// DecodeDataEntry parses the ledger JSON representation of a DataEntry.
//
// The seal_id field has two historical encodings and both are still live on
// the ledger: a raw byte vector (current writers) and a 0x-prefixed hex
// string (legacy writers). Rather than shape-sniffing ad hoc, the decoder is
// an exhaustive two-variant union normalizing to lowercase hex.
func DecodeDataEntry(raw []byte) (*DataEntry, error) {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("data entry is not a JSON object")
	}

	sealID := root.Get("seal_id")
	if !sealID.Exists() {
		return nil, fmt.Errorf("data entry has no seal_id")
	}

	scopeID, err := decodeSealID(sealID)
	if err != nil {
		return nil, fmt.Errorf("decode seal_id: %w", err)
	}

	entry := &DataEntry{
		ScopeID:   scopeID,
		UpdatedAt: root.Get("updated_at").Uint(),
	}

	for _, id := range root.Get("blob_ids").Array() {
		entry.BlobIDs = append(entry.BlobIDs, id.String())
	}

	return entry, nil
}

func decodeSealID(sealID gjson.Result) (string, error) {
	switch {
	case sealID.IsArray():
		// Current encoding: JSON array of byte values.
		elems := sealID.Array()
		buf := make([]byte, len(elems))

		for i, e := range elems {
			v := e.Uint()
			if v > 0xff {
				return "", fmt.Errorf("byte value out of range at index %d", i)
			}

			buf[i] = byte(v)
		}

		return hex.EncodeToString(buf), nil
	case sealID.Type == gjson.String:
		// Legacy encoding: hex string, optionally 0x-prefixed.
		normalized := scope.Normalize(sealID.String())
		if _, err := hex.DecodeString(normalized); err != nil {
			return "", fmt.Errorf("invalid hex seal_id: %w", err)
		}

		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported seal_id encoding %s", sealID.Type)
	}
}
