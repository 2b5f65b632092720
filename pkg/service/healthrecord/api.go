/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthrecord

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/medvault/vault/pkg/session"
)

// partition key length: "YYYY-MM".
const monthKeyLen = 7

// PartitionEntry points at one live data blob for a partition.
type PartitionEntry struct {
	BlobID       string            `json:"blobId"`
	PartitionKey string            `json:"partitionKey,omitempty"`
	RecordCount  int               `json:"recordCount"`
	IndexFields  map[string]string `json:"indexFields,omitempty"`
}

// PartitionMetadata is the per (owner, data type) index of data blobs. It is
// itself sealed and stored as a blob; the ledger DataEntry points at it.
type PartitionMetadata struct {
	Entries   []PartitionEntry `json:"entries"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TimedRecord is one timestamped health record.
type TimedRecord struct {
	// Timestamp is RFC 3339.
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// MonthKey derives the monthly partition key from a record timestamp.
func MonthKey(timestamp string) (string, error) {
	if len(timestamp) < monthKeyLen {
		return "", fmt.Errorf("timestamp %q too short for a month key", timestamp)
	}

	return timestamp[:monthKeyLen], nil
}

// ConsentGrant carries the redemption arguments a consent share recipient
// presents: the ledger token the share anchored and the secret from the
// scanned payload.
type ConsentGrant struct {
	TokenRef string
	Secret   []byte
}

// Access identifies the caller for policy-gated reads and writes.
type Access struct {
	// OwnerRef is the record owner's ledger identity.
	OwnerRef string
	// OwnerRecordRef is the owner's vault record object on the ledger.
	OwnerRecordRef string
	// Credential is the caller's session credential.
	Credential *session.Credential
	// Consent, when set, redeems a consent share: reads are proven against
	// the consent token instead of asserting record ownership.
	Consent *ConsentGrant
}
