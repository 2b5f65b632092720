/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policy

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/internal/logfields"
	"github.com/medvault/vault/pkg/scope"
)

var logger = log.New("policy-builder")

type objectResolver interface {
	GetObject(ctx context.Context, ref string) ([]byte, error)
}

// Config holds the Builder dependencies.
type Config struct {
	// Ledger resolves object references before a proof is assembled.
	Ledger objectResolver
	// ContractAddress is the policy contract the proof calls into.
	ContractAddress string
}

// Builder assembles access proofs for the configured policy contract.
type Builder struct {
	ledger   objectResolver
	contract string
}

// NewBuilder creates a Builder. A missing contract address is a
// configuration error reported on the first Build call, not here, so that
// startup wiring stays declarative.
func NewBuilder(cfg *Config) *Builder {
	return &Builder{
		ledger:   cfg.Ledger,
		contract: cfg.ContractAddress,
	}
}

// Build resolves the policy's object references with a single read-only
// ledger call, then assembles the simulate-only transaction payload that a
// decryption authority evaluates. The returned bytes are the access proof.
func (b *Builder) Build(ctx context.Context, p AccessPolicy) ([]byte, error) {
	if b.contract == "" {
		return nil, fmt.Errorf("%w: missing policy contract address", ErrPolicyBuild)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	anchorRef := anchorRef(p)

	obj, err := b.ledger.GetObject(ctx, anchorRef)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrPolicyBuild, anchorRef, err)
	}

	version := gjson.GetBytes(obj, "version").String()

	logger.Debugc(ctx, "resolved policy anchor object",
		logfields.WithScopeID(scope.Normalize(p.Scope())), log.WithID(anchorRef))

	payload, err := b.assemble(p, anchorRef, version)
	if err != nil {
		return nil, fmt.Errorf("%w: assemble transaction: %w", ErrPolicyBuild, err)
	}

	return payload, nil
}

// anchorRef picks the object the predicate is anchored on: the consent token
// for consent access, the registry for owner access.
func anchorRef(p AccessPolicy) string {
	if consent, ok := p.(*ConsentScoped); ok {
		return consent.ConsentTokenRef
	}

	return p.(*PatientOnly).RegistryRef
}

func (b *Builder) assemble(p AccessPolicy, anchorRef, anchorVersion string) ([]byte, error) {
	tx := `{"kind":"dry_run_only"}`

	var err error

	set := func(path string, value interface{}) {
		if err != nil {
			return
		}

		tx, err = sjson.Set(tx, path, value)
	}

	set("contract", b.contract)
	set("function", "seal_approve_"+p.Kind())
	set("args.scope_id", scope.Normalize(p.Scope()))
	set("args.anchor_ref", anchorRef)
	set("args.anchor_version", anchorVersion)

	switch policy := p.(type) {
	case *PatientOnly:
		set("args.owner_record_ref", policy.OwnerRecordRef)
		set("args.data_type", policy.DataType)
	case *ConsentScoped:
		set("args.owner_record_ref", policy.OwnerRecordRef)
		set("args.data_type", policy.DataType)
		set("args.now_ref", policy.NowRef)
		set("args.auth_payload", base64.StdEncoding.EncodeToString(policy.AuthPayload))
	}

	if err != nil {
		return nil, err
	}

	return []byte(tx), nil
}
