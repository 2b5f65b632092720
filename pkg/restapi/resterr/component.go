/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

type Component string

const (
	EncryptionEngineComponent Component = "encryption-engine"
	KeyAuthorityComponent     Component = "key-authority-client"
	PolicyBuilderComponent    Component = "access-policy-builder"
	BlobStoreComponent        Component = "blob-store"
	LedgerComponent           Component = "ledger-client"
	HealthRecordSvcComponent  Component = "health-record-service"
	ConsentSvcComponent       Component = "consent-service"
	SessionComponent          Component = "session"
	ImagingCacheComponent     Component = "imaging-cache"
	ShareStoreComponent       Component = "share-store"
	SessionStoreComponent     Component = "session-store"
)
