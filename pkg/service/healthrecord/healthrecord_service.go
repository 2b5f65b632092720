/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination service_mocks_test.go -self_package mocks -package healthrecord_test -source=healthrecord_service.go -mock_names cryptoEngine=MockCryptoEngine,blobStore=MockBlobStore,metadataLedger=MockMetadataLedger,proofBuilder=MockProofBuilder

// Package healthrecord manages partitioned health record storage: the
// metadata indirection that lets a reader locate one partition's blob
// without decrypting every blob, and the monthly reconciliation that keeps
// at most one live blob per month.
package healthrecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/internal/logfields"
	"github.com/medvault/vault/pkg/blobstore"
	"github.com/medvault/vault/pkg/encryption"
	"github.com/medvault/vault/pkg/ledger"
	"github.com/medvault/vault/pkg/observability/metrics"
	"github.com/medvault/vault/pkg/observability/metrics/noop"
	"github.com/medvault/vault/pkg/policy"
	"github.com/medvault/vault/pkg/scope"
	"github.com/medvault/vault/pkg/session"
)

var logger = log.New("healthrecord-service")

const defaultUploadWorkers = 4

type cryptoEngine interface {
	Encrypt(ctx context.Context, plaintext []byte, scopeID string, threshold int) (*encryption.Sealed, error)
	Decrypt(ctx context.Context, ciphertext, accessProof []byte, cred *session.Credential,
		expectedScopeID string) ([]byte, error)
}

type blobStore interface {
	Upload(ctx context.Context, data []byte, opts *blobstore.UploadOpts) (*blobstore.UploadReceipt, error)
	Download(ctx context.Context, blobID string) ([]byte, error)
}

type metadataLedger interface {
	GetDataEntry(ctx context.Context, ownerRef, dataType string) (*ledger.DataEntry, error)
	PutDataEntry(ctx context.Context, ownerRef, dataType string, entry *ledger.DataEntry,
		mode ledger.WriteMode) error
}

type proofBuilder interface {
	Build(ctx context.Context, p policy.AccessPolicy) ([]byte, error)
}

// Config holds the Service dependencies.
type Config struct {
	Crypto    cryptoEngine
	BlobStore blobStore
	Ledger    metadataLedger
	Policy    proofBuilder

	// RegistryRef anchors owner-only access proofs.
	RegistryRef string
	// ClockRef anchors consent-scoped proofs to the ledger clock object.
	ClockRef string
	// Threshold for sealing new blobs.
	Threshold int
	// StorageEpochs for newly uploaded blobs.
	StorageEpochs int
	// UploadWorkers bounds the monthly re-upload fan-out. Defaults to 4.
	UploadWorkers int

	Metrics metrics.Metrics
}

// Service implements partitioned metadata management.
type Service struct {
	crypto    cryptoEngine
	blobStore blobStore
	ledger    metadataLedger
	policy    proofBuilder

	registryRef   string
	clockRef      string
	threshold     int
	storageEpochs int
	uploadWorkers int
	metrics       metrics.Metrics

	// saves are serialized per (owner, data type): two interleaved saves to
	// the same metadata list would lose one writer's update.
	saveMu keyedMutex
}

// New creates the Service.
func New(cfg *Config) *Service {
	m := cfg.Metrics
	if m == nil {
		m = noop.GetMetrics()
	}

	workers := cfg.UploadWorkers
	if workers <= 0 {
		workers = defaultUploadWorkers
	}

	return &Service{
		crypto:        cfg.Crypto,
		blobStore:     cfg.BlobStore,
		ledger:        cfg.Ledger,
		policy:        cfg.Policy,
		registryRef:   cfg.RegistryRef,
		clockRef:      cfg.ClockRef,
		threshold:     cfg.Threshold,
		storageEpochs: cfg.StorageEpochs,
		uploadWorkers: workers,
		metrics:       m,
	}
}

// LoadMetadata resolves the ledger DataEntry for dataType and opens the
// metadata blob it references. No DataEntry yet means the data type has
// never been saved; that is a nil result, not an error.
func (s *Service) LoadMetadata(ctx context.Context, acc *Access, dataType string) (*PartitionMetadata, error) {
	entry, err := s.ledger.GetDataEntry(ctx, acc.OwnerRef, dataType)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("resolve data entry: %w", err)
	}

	blobID, ok := entry.MetadataBlobID()
	if !ok {
		return s.legacyMetadata(entry), nil
	}

	plaintext, err := s.openBlob(ctx, acc, dataType, blobID)
	if err != nil {
		return nil, fmt.Errorf("open metadata blob: %w", err)
	}

	metadata := &PartitionMetadata{}
	if err = json.Unmarshal(plaintext, metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return metadata, nil
}

// legacyMetadata synthesizes metadata from a direct-list DataEntry, so
// singleton types written before metadata indirection stay readable.
func (s *Service) legacyMetadata(entry *ledger.DataEntry) *PartitionMetadata {
	metadata := &PartitionMetadata{}

	for _, blobID := range entry.BlobIDs {
		metadata.Entries = append(metadata.Entries, PartitionEntry{BlobID: blobID})
	}

	return metadata
}

// SaveMetadata seals and uploads the metadata, then points the ledger
// DataEntry at the new blob. Whether the write is an add or a replace is
// decided here by probing for an existing entry, never by caller intent.
func (s *Service) SaveMetadata(ctx context.Context, acc *Access, dataType string, metadata *PartitionMetadata) error {
	unlock := s.saveMu.lock(acc.OwnerRef + "|" + dataType)
	defer unlock()

	return s.saveMetadataLocked(ctx, acc, dataType, metadata)
}

func (s *Service) saveMetadataLocked(
	ctx context.Context, acc *Access, dataType string, metadata *PartitionMetadata) error {
	metadata.UpdatedAt = time.Now().UTC()

	plaintext, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	blobID, err := s.sealAndUpload(ctx, acc, dataType, plaintext)
	if err != nil {
		return fmt.Errorf("upload metadata blob: %w", err)
	}

	mode := ledger.ModeReplace

	_, err = s.ledger.GetDataEntry(ctx, acc.OwnerRef, dataType)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		mode = ledger.ModeAdd
	} else if err != nil {
		return fmt.Errorf("probe data entry: %w", err)
	}

	scopeID := scope.Derive(acc.OwnerRef, dataType)

	err = s.ledger.PutDataEntry(ctx, acc.OwnerRef, dataType, &ledger.DataEntry{
		ScopeID:   scopeID,
		BlobIDs:   []string{blobID},
		UpdatedAt: uint64(metadata.UpdatedAt.UnixMilli()),
	}, mode)
	if err != nil {
		return fmt.Errorf("write data entry (%s): %w", mode, err)
	}

	logger.Debugc(ctx, "metadata saved", logfields.WithDataType(dataType),
		logfields.WithBlobID(blobID), logfields.WithEntryCount(len(metadata.Entries)))

	return nil
}

// UpsertEntry returns a copy of metadata with newEntry applied. An empty
// partition key marks a singleton type: the whole list collapses to the new
// entry. Otherwise an entry with the same key is replaced in place, else the
// new entry is appended.
func UpsertEntry(metadata *PartitionMetadata, newEntry PartitionEntry) (*PartitionMetadata, error) {
	updated := &PartitionMetadata{}
	if err := copier.CopyWithOption(updated, metadata, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy metadata: %w", err)
	}

	if newEntry.PartitionKey == "" {
		updated.Entries = []PartitionEntry{newEntry}

		return updated, nil
	}

	for i, existing := range updated.Entries {
		if existing.PartitionKey == newEntry.PartitionKey {
			updated.Entries[i] = newEntry

			return updated, nil
		}
	}

	updated.Entries = append(updated.Entries, newEntry)

	return updated, nil
}

// RemoveEntry returns a copy of metadata without the entry for keyValue. An
// empty keyValue clears the whole list (singleton types).
func RemoveEntry(metadata *PartitionMetadata, keyValue string) (*PartitionMetadata, error) {
	updated := &PartitionMetadata{}
	if err := copier.CopyWithOption(updated, metadata, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy metadata: %w", err)
	}

	if keyValue == "" {
		updated.Entries = nil

		return updated, nil
	}

	updated.Entries = lo.Filter(updated.Entries, func(e PartitionEntry, _ int) bool {
		return e.PartitionKey != keyValue
	})

	return updated, nil
}

// LoadDataBlob opens the data blob an entry points at.
func (s *Service) LoadDataBlob(ctx context.Context, acc *Access, dataType string, entry PartitionEntry) ([]byte, error) { //nolint:lll
	return s.openBlob(ctx, acc, dataType, entry.BlobID)
}

// UploadDataBlob seals and uploads one data blob under the same scope as the
// data type's metadata.
func (s *Service) UploadDataBlob(ctx context.Context, acc *Access, dataType string, data []byte) (string, error) {
	return s.sealAndUpload(ctx, acc, dataType, data)
}

// SaveMonthlyRecords reconciles a monthly-partitioned data type against a
// new full record set: every month present in the new data gets a fresh
// blob, months with no remaining records lose their metadata entry, and no
// month ever has more than one live blob.
func (s *Service) SaveMonthlyRecords(
	ctx context.Context, acc *Access, dataType string, records []TimedRecord) error {
	unlock := s.saveMu.lock(acc.OwnerRef + "|" + dataType)
	defer unlock()

	byMonth := map[string][]TimedRecord{}

	for _, record := range records {
		key, err := MonthKey(record.Timestamp)
		if err != nil {
			return err
		}

		byMonth[key] = append(byMonth[key], record)
	}

	metadata, err := s.LoadMetadata(ctx, acc, dataType)
	if err != nil {
		return err
	}

	if metadata == nil {
		metadata = &PartitionMetadata{}
	}

	uploaded, err := s.uploadMonths(ctx, acc, dataType, byMonth)
	if err != nil {
		return err
	}

	for key, entry := range uploaded {
		metadata, err = UpsertEntry(metadata, entry)
		if err != nil {
			return fmt.Errorf("upsert month %s: %w", key, err)
		}
	}

	// Months recorded in metadata but absent from the new data now hold
	// zero records; their entries go away.
	for _, existing := range metadata.Entries {
		if _, stillPresent := byMonth[existing.PartitionKey]; stillPresent {
			continue
		}

		metadata, err = RemoveEntry(metadata, existing.PartitionKey)
		if err != nil {
			return fmt.Errorf("remove month %s: %w", existing.PartitionKey, err)
		}
	}

	return s.saveMetadataLocked(ctx, acc, dataType, metadata)
}

// uploadMonths seals and uploads one blob per month on a bounded worker
// pool. Each upload runs its own strictly sequential protocol; only distinct
// months are parallelized.
func (s *Service) uploadMonths(
	ctx context.Context, acc *Access, dataType string,
	byMonth map[string][]TimedRecord) (map[string]PartitionEntry, error) {
	pool := workerpool.New(s.uploadWorkers)

	var (
		mu       sync.Mutex
		uploaded = map[string]PartitionEntry{}
		firstErr error
	)

	for key, monthRecords := range byMonth {
		key, monthRecords := key, monthRecords

		pool.Submit(func() {
			entry, err := s.uploadMonth(ctx, acc, dataType, key, monthRecords)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("upload month %s: %w", key, err)
				}

				return
			}

			uploaded[key] = *entry
		})
	}

	pool.StopWait()

	if firstErr != nil {
		return nil, firstErr
	}

	return uploaded, nil
}

func (s *Service) uploadMonth(
	ctx context.Context, acc *Access, dataType, key string,
	records []TimedRecord) (*PartitionEntry, error) {
	plaintext, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}

	blobID, err := s.sealAndUpload(ctx, acc, dataType, plaintext)
	if err != nil {
		return nil, err
	}

	return &PartitionEntry{
		BlobID:       blobID,
		PartitionKey: key,
		RecordCount:  len(records),
	}, nil
}

// DeletePartition drops one partition's entry (or the whole list for
// singleton types when partitionKey is empty) and saves the metadata.
func (s *Service) DeletePartition(ctx context.Context, acc *Access, dataType, partitionKey string) error {
	unlock := s.saveMu.lock(acc.OwnerRef + "|" + dataType)
	defer unlock()

	metadata, err := s.LoadMetadata(ctx, acc, dataType)
	if err != nil {
		return err
	}

	if metadata == nil {
		return nil
	}

	metadata, err = RemoveEntry(metadata, partitionKey)
	if err != nil {
		return err
	}

	logger.Debugc(ctx, "partition removed", logfields.WithDataType(dataType),
		logfields.WithPartitionKey(partitionKey))

	return s.saveMetadataLocked(ctx, acc, dataType, metadata)
}

func (s *Service) sealAndUpload(ctx context.Context, acc *Access, dataType string, plaintext []byte) (string, error) {
	scopeID := scope.Derive(acc.OwnerRef, dataType)

	sealStart := time.Now()

	sealed, err := s.crypto.Encrypt(ctx, plaintext, scopeID, s.threshold)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	s.metrics.SealTime(time.Since(sealStart))

	uploadStart := time.Now()

	receipt, err := s.blobStore.Upload(ctx, sealed.Ciphertext, &blobstore.UploadOpts{
		Epochs:    s.storageEpochs,
		Deletable: true,
		OwnerRef:  acc.OwnerRef,
	})
	if err != nil {
		return "", err
	}

	s.metrics.BlobUploadTime(time.Since(uploadStart))

	return receipt.BlobID, nil
}

func (s *Service) openBlob(ctx context.Context, acc *Access, dataType, blobID string) ([]byte, error) {
	downloadStart := time.Now()

	ciphertext, err := s.blobStore.Download(ctx, blobID)
	if err != nil {
		return nil, err
	}

	s.metrics.BlobDownloadTime(time.Since(downloadStart))

	scopeID := scope.Derive(acc.OwnerRef, dataType)

	proof, err := s.buildProof(ctx, acc, dataType, scopeID)
	if err != nil {
		return nil, err
	}

	openStart := time.Now()

	plaintext, err := s.crypto.Decrypt(ctx, ciphertext, proof, acc.Credential, scopeID)
	if err != nil {
		s.metrics.DecryptFailure(decryptFailureReason(err))

		return nil, err
	}

	s.metrics.OpenTime(time.Since(openStart))

	return plaintext, nil
}

// buildProof assembles the access proof for a read: the consent token when
// the caller redeems a share, the owner registry otherwise.
func (s *Service) buildProof(ctx context.Context, acc *Access, dataType, scopeID string) ([]byte, error) {
	if acc.Consent == nil {
		return s.policy.Build(ctx, &policy.PatientOnly{
			ScopeID:        scopeID,
			OwnerRecordRef: acc.OwnerRecordRef,
			RegistryRef:    s.registryRef,
			DataType:       dataType,
		})
	}

	authPayload, err := policy.PackAuthPayload(acc.Consent.Secret, acc.OwnerRecordRef, dataType)
	if err != nil {
		return nil, err
	}

	return s.policy.Build(ctx, &policy.ConsentScoped{
		ScopeID:         scopeID,
		ConsentTokenRef: acc.Consent.TokenRef,
		OwnerRecordRef:  acc.OwnerRecordRef,
		DataType:        dataType,
		AuthPayload:     authPayload,
		NowRef:          s.clockRef,
	})
}

func decryptFailureReason(err error) string {
	switch {
	case errors.Is(err, encryption.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, encryption.ErrSessionExpired), errors.Is(err, session.ErrExpired):
		return "session_expired"
	case errors.Is(err, encryption.ErrCorruptCiphertext):
		return "corrupt_ciphertext"
	case errors.Is(err, encryption.ErrInsufficientShares):
		return "insufficient_shares"
	default:
		return "other"
	}
}

// keyedMutex serializes work per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()

	if k.locks == nil {
		k.locks = map[string]*sync.Mutex{}
	}

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}

	k.mu.Unlock()

	l.Lock()

	return l.Unlock
}
