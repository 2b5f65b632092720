/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sharestore is the registry of issued consent shares. The ledger
// holds only the hash commitment; this store keeps the owner-facing record
// needed to list active shares and revoke them.
package sharestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medvault/vault/pkg/storage/mongodb"
)

const shareCollection = "consent_share_store"

// ErrShareNotFound is returned when the share id is unknown.
var ErrShareNotFound = errors.New("consent share not found")

// ShareRecord describes one issued consent share.
type ShareRecord struct {
	// TokenRef is the ledger consent token reference, used as the record id.
	TokenRef       string
	OwnerRef       string
	Scopes         []string
	CommitmentHash []byte
	ExpiresAt      time.Time
	CreatedAt      time.Time
	Revoked        bool
}

type mongoDocument struct {
	TokenRef       string    `bson:"_id"`
	OwnerRef       string    `bson:"ownerRef"`
	Scopes         []string  `bson:"scopes"`
	CommitmentHash []byte    `bson:"commitmentHash"`
	ExpiresAt      time.Time `bson:"expiresAt"`
	CreatedAt      time.Time `bson:"createdAt"`
	Revoked        bool      `bson:"revoked"`
}

// Store manages consent share records in mongodb.
type Store struct {
	mongoClient *mongodb.Client
}

// NewStore creates Store and ensures the owner index.
func NewStore(ctx context.Context, mongoClient *mongodb.Client) (*Store, error) {
	s := &Store{mongoClient: mongoClient}

	if err := s.migrate(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (p *Store) migrate(ctx context.Context) error {
	_, err := p.mongoClient.Database().Collection(shareCollection).Indexes().CreateOne(ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "ownerRef", Value: 1}},
			Options: mongooptions.Index().SetName("ownerRefIndex"),
		})
	if err != nil {
		return fmt.Errorf("create ownerRef index: %w", err)
	}

	return nil
}

// Create records an issued share.
func (p *Store) Create(ctx context.Context, record *ShareRecord) error {
	doc := &mongoDocument{
		TokenRef:       record.TokenRef,
		OwnerRef:       record.OwnerRef,
		Scopes:         record.Scopes,
		CommitmentHash: record.CommitmentHash,
		ExpiresAt:      record.ExpiresAt,
		CreatedAt:      record.CreatedAt,
	}

	_, err := p.mongoClient.Database().Collection(shareCollection).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert share record: %w", err)
	}

	return nil
}

// Get fetches one share record by token reference.
func (p *Store) Get(ctx context.Context, tokenRef string) (*ShareRecord, error) {
	doc := &mongoDocument{}

	err := p.mongoClient.Database().Collection(shareCollection).
		FindOne(ctx, bson.M{"_id": tokenRef}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrShareNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("find share record: %w", err)
	}

	return fromDocument(doc), nil
}

// ListByOwner returns every share the owner has issued, newest first.
func (p *Store) ListByOwner(ctx context.Context, ownerRef string) ([]*ShareRecord, error) {
	cursor, err := p.mongoClient.Database().Collection(shareCollection).Find(ctx,
		bson.M{"ownerRef": ownerRef},
		mongooptions.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list share records: %w", err)
	}

	var docs []*mongoDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode share records: %w", err)
	}

	records := make([]*ShareRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromDocument(doc))
	}

	return records, nil
}

// Revoke marks the share revoked. Revocation here only hides the share from
// the owner's list; the ledger expiry update is the consent service's job.
func (p *Store) Revoke(ctx context.Context, tokenRef string) error {
	result, err := p.mongoClient.Database().Collection(shareCollection).UpdateOne(ctx,
		bson.M{"_id": tokenRef},
		bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return fmt.Errorf("revoke share record: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrShareNotFound
	}

	return nil
}

func fromDocument(doc *mongoDocument) *ShareRecord {
	return &ShareRecord{
		TokenRef:       doc.TokenRef,
		OwnerRef:       doc.OwnerRef,
		Scopes:         doc.Scopes,
		CommitmentHash: doc.CommitmentHash,
		ExpiresAt:      doc.ExpiresAt,
		CreatedAt:      doc.CreatedAt,
		Revoked:        doc.Revoked,
	}
}
