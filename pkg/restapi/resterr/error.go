/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resterr defines the stable, classifiable error vocabulary shared by
// the core services and the REST layer. Internal steps log diagnostic detail;
// the error that crosses a package boundary always carries a Code the caller
// can act on (retry, reconnect, re-authenticate, or re-create the record).
package resterr

import (
	"errors"
	"fmt"
)

// Code classifies a failure for the caller. Codes are part of the API
// contract: the UI decides between "try again", "reconnect" and "this record
// is corrupted" based on them.
type Code string

const (
	// CodeConfiguration - a mandatory configuration value is missing or
	// invalid. Fatal; never retried.
	CodeConfiguration Code = "configuration_error"

	// CodeValidation - the input was rejected before any network call
	// (payload too large, malformed envelope, bad partition key).
	CodeValidation Code = "validation_error"

	// CodeAccessDenied - the on-ledger policy predicate rejected the request.
	// Retrying cannot change the outcome.
	CodeAccessDenied Code = "access_denied"

	// CodeSessionExpired - the decryption session credential has elapsed. The
	// caller must establish a fresh session before retrying.
	CodeSessionExpired Code = "session_expired"

	// CodeCorruptCiphertext - the ciphertext header is invalid (zero
	// threshold or empty server list). The blob must be re-created; no key
	// will ever decrypt it.
	CodeCorruptCiphertext Code = "corrupt_ciphertext"

	// CodePayloadTooLarge - pre-flight blob size ceiling rejection.
	CodePayloadTooLarge Code = "payload_too_large"

	// CodeMalformedEnvelope - binary envelope failed structural validation.
	CodeMalformedEnvelope Code = "malformed_envelope"

	// CodePolicyBuild - an access-proof transaction could not be assembled,
	// usually because an object reference is unconfigured.
	CodePolicyBuild Code = "policy_build_error"

	// CodeBlobNotFound - every retrieval path was exhausted.
	CodeBlobNotFound Code = "blob_not_found"

	// CodeTransport - a ledger RPC or storage network call failed. Eligible
	// for user-initiated retry.
	CodeTransport Code = "transport_error"

	// CodeSystem - an unclassified internal failure.
	CodeSystem Code = "system_error"
)

// Error is the classified error type crossing service boundaries.
type Error struct {
	Code      Code
	Component Component
	Operation string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s[component: %s", e.Code, e.Component)

	if e.Operation != "" {
		msg += fmt.Sprintf("; operation: %s", e.Operation)
	}

	if e.Err != nil {
		msg += fmt.Sprintf("]: %s", e.Err.Error())
	} else {
		msg += "]"
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error wrapping cause.
func New(code Code, component Component, operation string, cause error) *Error {
	return &Error{
		Code:      code,
		Component: component,
		Operation: operation,
		Err:       cause,
	}
}

// NewValidationError is a shorthand for pre-flight input rejections.
func NewValidationError(component Component, operation string, cause error) *Error {
	return New(CodeValidation, component, operation, cause)
}

// GetCode extracts the classification of err, or CodeSystem when err carries
// no classification.
func GetCode(err error) Code {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Code
	}

	return CodeSystem
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
