/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger is the client boundary to the on-ledger side of the vault:
// per data type pointer entries, policy objects, consent-token commitments
// and transaction simulation. Consensus, signing and wallet flows live
// outside this module; the client only reads state, submits pre-built
// payloads and dry-runs access-proof transactions.
package ledger

import (
	"errors"
	"time"
)

// ErrEntryNotFound is returned when no DataEntry exists yet for the
// requested (owner, data type) pair. First save for a data type is expected
// to hit this.
var ErrEntryNotFound = errors.New("data entry not found")

// ErrObjectNotFound is returned when an object reference does not resolve.
var ErrObjectNotFound = errors.New("ledger object not found")

// WriteMode selects the DataEntry write semantics.
type WriteMode string

const (
	// ModeAdd creates the entry; fails if one already exists.
	ModeAdd WriteMode = "add"
	// ModeReplace overwrites an existing entry.
	ModeReplace WriteMode = "replace"
)

// DataEntry is the ledger-visible pointer set for one (owner, data type):
// either a single metadata-blob id (current layout) or a direct list of
// data-blob ids (legacy layout, singleton types only).
type DataEntry struct {
	// ScopeID is the scope identity, normalized to lowercase hex. On the
	// wire it may appear as a raw byte vector or as a legacy hex string.
	ScopeID   string
	BlobIDs   []string
	UpdatedAt uint64
}

// MetadataBlobID returns the metadata blob id for entries in the current
// layout. Legacy direct entries have more than one blob id and no metadata
// indirection.
func (e *DataEntry) MetadataBlobID() (string, bool) {
	if len(e.BlobIDs) != 1 {
		return "", false
	}

	return e.BlobIDs[0], true
}

// ConsentGrant is the on-ledger commitment created when an owner shares a
// scope subset. The ledger stores only the hash commitment; the secret
// travels out of band inside the consent payload.
type ConsentGrant struct {
	OwnerRef       string
	CommitmentHash []byte
	Scopes         []string
	ExpiresAt      time.Time
}

// BlobRegistration captures the ledger half of the blob upload protocol.
type BlobRegistration struct {
	BlobID    string
	OwnerRef  string
	Epochs    int
	Deletable bool
}
