/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package policy assembles access proofs: simulate-only transaction payloads
// that a decryption authority evaluates against ledger state. A proof is
// never submitted and never finalizes state; it only demonstrates that the
// caller satisfies the on-ledger predicate guarding a scope identity.
package policy

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrPolicyBuild signals that an access proof could not be assembled because
// required object references are missing or unconfigured. This is fatal for
// the request: retrying without fixing configuration cannot help.
var ErrPolicyBuild = errors.New("policy build error")

const ownerRefWidth = 32

// AccessPolicy is the tagged union of supported policy predicates.
type AccessPolicy interface {
	// Kind is the predicate name evaluated on the ledger.
	Kind() string
	// Scope is the scope identity the proof is bound to.
	Scope() string

	validate() error
}

// PatientOnly grants decryption to the owner of the referenced record.
type PatientOnly struct {
	ScopeID        string
	OwnerRecordRef string
	RegistryRef    string
	DataType       string
}

// Kind implements AccessPolicy.
func (p *PatientOnly) Kind() string { return "patient_only" }

// Scope implements AccessPolicy.
func (p *PatientOnly) Scope() string { return p.ScopeID }

func (p *PatientOnly) validate() error {
	switch {
	case p.ScopeID == "":
		return fmt.Errorf("%w: missing scope identity", ErrPolicyBuild)
	case p.OwnerRecordRef == "":
		return fmt.Errorf("%w: missing owner record reference", ErrPolicyBuild)
	case p.RegistryRef == "":
		return fmt.Errorf("%w: missing registry reference", ErrPolicyBuild)
	}

	return nil
}

// ConsentScoped grants decryption to the holder of a consent token that is
// unexpired as of NowRef, covers DataType, and whose creation-time commitment
// matches the packed AuthPayload.
type ConsentScoped struct {
	ScopeID         string
	ConsentTokenRef string
	OwnerRecordRef  string
	DataType        string
	AuthPayload     []byte
	NowRef          string
}

// Kind implements AccessPolicy.
func (p *ConsentScoped) Kind() string { return "consent_scoped" }

// Scope implements AccessPolicy.
func (p *ConsentScoped) Scope() string { return p.ScopeID }

func (p *ConsentScoped) validate() error {
	switch {
	case p.ScopeID == "":
		return fmt.Errorf("%w: missing scope identity", ErrPolicyBuild)
	case p.ConsentTokenRef == "":
		return fmt.Errorf("%w: missing consent token reference", ErrPolicyBuild)
	case p.OwnerRecordRef == "":
		return fmt.Errorf("%w: missing owner record reference", ErrPolicyBuild)
	case p.NowRef == "":
		return fmt.Errorf("%w: missing clock reference", ErrPolicyBuild)
	case len(p.AuthPayload) == 0:
		return fmt.Errorf("%w: missing auth payload", ErrPolicyBuild)
	}

	return nil
}

// PackAuthPayload packs the consent redemption arguments into the fixed
// binary layout the ledger predicate hashes at evaluation time:
//
//	[2] secret length | secret
//	[32] owner record reference, left padded
//	[2] scope length | scope utf8
func PackAuthPayload(secret []byte, ownerRef, scopeName string) ([]byte, error) {
	ref, err := decodeOwnerRef(ownerRef)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	writeLenPrefixed(&buf, secret)
	buf.Write(ref)
	writeLenPrefixed(&buf, []byte(scopeName))

	return buf.Bytes(), nil
}

func writeLenPrefixed(buf *bytes.Buffer, data []byte) {
	var l [2]byte

	binary.BigEndian.PutUint16(l[:], uint16(len(data)))
	buf.Write(l[:])
	buf.Write(data)
}

func decodeOwnerRef(ownerRef string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(ownerRef), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: owner reference is not hex: %w", ErrPolicyBuild, err)
	}

	if len(raw) > ownerRefWidth {
		return nil, fmt.Errorf("%w: owner reference exceeds %d bytes", ErrPolicyBuild, ownerRefWidth)
	}

	out := make([]byte, ownerRefWidth)
	copy(out[ownerRefWidth-len(raw):], raw)

	return out, nil
}
