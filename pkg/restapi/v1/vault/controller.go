/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -self_package mocks -package vault_test -source=controller.go -mock_names recordManager=MockRecordManager,consentFlow=MockConsentFlow,sessionStore=MockSessionStore,assetCache=MockAssetCache

// Package vault exposes the vault REST surface: partitioned record reads
// and writes, consent shares and cached imaging assets.
package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medvault/vault/pkg/blobstore"
	"github.com/medvault/vault/pkg/encryption"
	"github.com/medvault/vault/pkg/envelope"
	"github.com/medvault/vault/pkg/imagecache"
	"github.com/medvault/vault/pkg/ledger"
	"github.com/medvault/vault/pkg/policy"
	"github.com/medvault/vault/pkg/restapi/resterr"
	"github.com/medvault/vault/pkg/service/consent"
	"github.com/medvault/vault/pkg/service/healthrecord"
	"github.com/medvault/vault/pkg/session"
	"github.com/medvault/vault/pkg/storage/mongodb/sharestore"
	"github.com/medvault/vault/pkg/storage/redis/sessionstore"
)

const (
	sessionHeader     = "X-Vault-Session"
	ownerRecordHeader = "X-Owner-Record-Ref"

	// A share recipient redeems a consent grant by presenting the token
	// reference and the secret from the scanned payload.
	consentTokenHeader  = "X-Consent-Token"
	consentSecretHeader = "X-Consent-Secret"
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type recordManager interface {
	LoadMetadata(ctx context.Context, acc *healthrecord.Access, dataType string) (*healthrecord.PartitionMetadata, error) //nolint:lll
	SaveMonthlyRecords(ctx context.Context, acc *healthrecord.Access, dataType string,
		records []healthrecord.TimedRecord) error
	LoadDataBlob(ctx context.Context, acc *healthrecord.Access, dataType string,
		entry healthrecord.PartitionEntry) ([]byte, error)
	DeletePartition(ctx context.Context, acc *healthrecord.Access, dataType, partitionKey string) error
}

type consentFlow interface {
	CreateShare(ctx context.Context, ownerRef string, scopes []string, ttl time.Duration) (*consent.Share, error)
	ListShares(ctx context.Context, ownerRef string) ([]*sharestore.ShareRecord, error)
	RevokeShare(ctx context.Context, tokenRef string) error
}

type sessionStore interface {
	Put(ctx context.Context, cred *session.Credential) (string, error)
	Get(ctx context.Context, sessionID string) (*session.Credential, error)
}

type assetCache interface {
	Get(blobID string) *imagecache.Asset
	Put(blobID string, asset *imagecache.Asset)
}

// Config holds the Controller dependencies.
type Config struct {
	Records  recordManager
	Consent  consentFlow
	Sessions sessionStore
	Assets   assetCache
	// SessionTTL for newly created sessions.
	SessionTTL time.Duration
}

// Controller implements the vault REST surface.
type Controller struct {
	records    recordManager
	consent    consentFlow
	sessions   sessionStore
	assets     assetCache
	sessionTTL time.Duration
}

// NewController creates a Controller and registers its routes.
func NewController(r router, cfg *Config) *Controller {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	c := &Controller{
		records:    cfg.Records,
		consent:    cfg.Consent,
		sessions:   cfg.Sessions,
		assets:     cfg.Assets,
		sessionTTL: ttl,
	}

	r.POST("/vault/sessions", c.CreateSession)
	r.GET("/vault/records/:dataType", c.GetMetadata)
	r.POST("/vault/records/:dataType", c.SaveRecords)
	r.GET("/vault/records/:dataType/:partition", c.GetPartition)
	r.DELETE("/vault/records/:dataType/:partition", c.DeletePartition)
	r.POST("/vault/shares", c.CreateShare)
	r.GET("/vault/shares", c.ListShares)
	r.POST("/vault/shares/parse", c.ParseShare)
	r.DELETE("/vault/shares/:tokenRef", c.RevokeShare)
	r.GET("/vault/assets/:blobID", c.GetAsset)

	return c
}

type createSessionRequest struct {
	OwnerRef string `json:"ownerRef"`
}

type createSessionResponse struct {
	SessionID      string    `json:"sessionId"`
	ExpiresAt      time.Time `json:"expiresAt"`
	SigningPayload []byte    `json:"signingPayload"`
}

// CreateSession establishes a decryption session credential.
func (c *Controller) CreateSession(ctx echo.Context) error {
	var req createSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.SessionComponent, "create-session", err)
	}

	if req.OwnerRef == "" {
		return resterr.NewValidationError(resterr.SessionComponent, "create-session",
			errors.New("ownerRef is required"))
	}

	cred, _, err := session.New(req.OwnerRef, c.sessionTTL)
	if err != nil {
		return resterr.New(resterr.CodeSystem, resterr.SessionComponent, "create-session", err)
	}

	sessionID, err := c.sessions.Put(ctx.Request().Context(), cred)
	if err != nil {
		return resterr.New(resterr.CodeSystem, resterr.SessionStoreComponent, "create-session", err)
	}

	return ctx.JSON(http.StatusCreated, createSessionResponse{
		SessionID:      sessionID,
		ExpiresAt:      cred.ExpiresAt(),
		SigningPayload: cred.SigningPayload(),
	})
}

// GetMetadata returns the partition metadata for a data type. A data type
// that was never saved yields an empty entry list, not an error.
func (c *Controller) GetMetadata(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	metadata, err := c.records.LoadMetadata(ctx.Request().Context(), acc, ctx.Param("dataType"))
	if err != nil {
		return classifyRecordErr(err, "get-metadata")
	}

	if metadata == nil {
		metadata = &healthrecord.PartitionMetadata{Entries: []healthrecord.PartitionEntry{}}
	}

	return ctx.JSON(http.StatusOK, metadata)
}

type saveRecordsRequest struct {
	Records []healthrecord.TimedRecord `json:"records"`
}

// SaveRecords reconciles the data type against the submitted record set.
func (c *Controller) SaveRecords(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	var req saveRecordsRequest
	if err = ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.HealthRecordSvcComponent, "save-records", err)
	}

	err = c.records.SaveMonthlyRecords(ctx.Request().Context(), acc, ctx.Param("dataType"), req.Records)
	if err != nil {
		return classifyRecordErr(err, "save-records")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetPartition returns one partition's decrypted records.
func (c *Controller) GetPartition(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	dataType := ctx.Param("dataType")
	partitionKey := ctx.Param("partition")

	metadata, err := c.records.LoadMetadata(ctx.Request().Context(), acc, dataType)
	if err != nil {
		return classifyRecordErr(err, "get-partition")
	}

	if metadata == nil {
		return resterr.New(resterr.CodeBlobNotFound, resterr.HealthRecordSvcComponent, "get-partition",
			errors.New("data type has no records"))
	}

	for _, entry := range metadata.Entries {
		if entry.PartitionKey != partitionKey {
			continue
		}

		plaintext, err := c.records.LoadDataBlob(ctx.Request().Context(), acc, dataType, entry)
		if err != nil {
			return classifyRecordErr(err, "get-partition")
		}

		return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, plaintext)
	}

	return resterr.New(resterr.CodeBlobNotFound, resterr.HealthRecordSvcComponent, "get-partition",
		errors.New("no entry for partition "+partitionKey))
}

// DeletePartition removes a partition's records.
func (c *Controller) DeletePartition(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	err = c.records.DeletePartition(ctx.Request().Context(), acc, ctx.Param("dataType"), ctx.Param("partition"))
	if err != nil {
		return classifyRecordErr(err, "delete-partition")
	}

	return ctx.NoContent(http.StatusNoContent)
}

type createShareRequest struct {
	Scopes []string `json:"scopes"`
	TTLMin int      `json:"ttlMin"`
}

type createShareResponse struct {
	Payload   string    `json:"payload"`
	TokenRef  string    `json:"tokenRef"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateShare issues a consent share for the session owner.
func (c *Controller) CreateShare(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	var req createShareRequest
	if err = ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.ConsentSvcComponent, "create-share", err)
	}

	if len(req.Scopes) == 0 || req.TTLMin <= 0 {
		return resterr.NewValidationError(resterr.ConsentSvcComponent, "create-share",
			errors.New("scopes and a positive ttlMin are required"))
	}

	share, err := c.consent.CreateShare(ctx.Request().Context(), acc.OwnerRef, req.Scopes,
		time.Duration(req.TTLMin)*time.Minute)
	if err != nil {
		return resterr.New(resterr.CodeSystem, resterr.ConsentSvcComponent, "create-share", err)
	}

	return ctx.JSON(http.StatusCreated, createShareResponse{
		Payload:   share.Encoded,
		TokenRef:  share.TokenRef,
		ExpiresAt: share.ExpiresAt,
	})
}

// ListShares returns the session owner's active shares.
func (c *Controller) ListShares(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	records, err := c.consent.ListShares(ctx.Request().Context(), acc.OwnerRef)
	if err != nil {
		return resterr.New(resterr.CodeSystem, resterr.ConsentSvcComponent, "list-shares", err)
	}

	return ctx.JSON(http.StatusOK, records)
}

type parseShareRequest struct {
	Input string `json:"input"`
}

// ParseShare recovers a consent payload from scanner output.
func (c *Controller) ParseShare(ctx echo.Context) error {
	var req parseShareRequest
	if err := ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.ConsentSvcComponent, "parse-share", err)
	}

	payload, err := consent.ParsePayload(req.Input)
	if err != nil {
		return resterr.New(resterr.CodeMalformedEnvelope, resterr.ConsentSvcComponent, "parse-share", err)
	}

	return ctx.JSON(http.StatusOK, payload)
}

// RevokeShare expires a share immediately.
func (c *Controller) RevokeShare(ctx echo.Context) error {
	if _, err := c.access(ctx); err != nil {
		return err
	}

	err := c.consent.RevokeShare(ctx.Request().Context(), ctx.Param("tokenRef"))
	if err != nil {
		if errors.Is(err, sharestore.ErrShareNotFound) {
			return resterr.New(resterr.CodeBlobNotFound, resterr.ShareStoreComponent, "revoke-share", err)
		}

		return resterr.New(resterr.CodeSystem, resterr.ConsentSvcComponent, "revoke-share", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetAsset returns a decrypted imaging asset, from cache when possible.
func (c *Controller) GetAsset(ctx echo.Context) error {
	acc, err := c.access(ctx)
	if err != nil {
		return err
	}

	blobID := ctx.Param("blobID")

	dataType := ctx.QueryParam("dataType")
	if dataType == "" {
		return resterr.NewValidationError(resterr.ImagingCacheComponent, "get-asset",
			errors.New("dataType query parameter is required"))
	}

	if asset := c.assets.Get(blobID); asset != nil {
		return ctx.Blob(http.StatusOK, asset.MIMEType, asset.Data)
	}

	plaintext, err := c.records.LoadDataBlob(ctx.Request().Context(), acc, dataType,
		healthrecord.PartitionEntry{BlobID: blobID})
	if err != nil {
		return classifyRecordErr(err, "get-asset")
	}

	env, err := envelope.Decode(plaintext)
	if err != nil {
		return resterr.New(resterr.CodeMalformedEnvelope, resterr.ImagingCacheComponent, "get-asset", err)
	}

	c.assets.Put(blobID, &imagecache.Asset{Data: env.Payload, MIMEType: env.MimeType})

	return ctx.Blob(http.StatusOK, env.MimeType, env.Payload)
}

// access resolves the caller's session and owner identifiers.
func (c *Controller) access(ctx echo.Context) (*healthrecord.Access, error) {
	sessionID := ctx.Request().Header.Get(sessionHeader)
	if sessionID == "" {
		return nil, resterr.NewValidationError(resterr.SessionComponent, "resolve-session",
			errors.New(sessionHeader+" header is required"))
	}

	cred, err := c.sessions.Get(ctx.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, resterr.New(resterr.CodeSessionExpired, resterr.SessionStoreComponent,
				"resolve-session", err)
		}

		return nil, resterr.New(resterr.CodeSystem, resterr.SessionStoreComponent, "resolve-session", err)
	}

	acc := &healthrecord.Access{
		OwnerRef:       cred.OwnerRef,
		OwnerRecordRef: ctx.Request().Header.Get(ownerRecordHeader),
		Credential:     cred,
	}

	if tokenRef := ctx.Request().Header.Get(consentTokenHeader); tokenRef != "" {
		secret, err := base64.RawURLEncoding.DecodeString(ctx.Request().Header.Get(consentSecretHeader))
		if err != nil || len(secret) == 0 {
			return nil, resterr.NewValidationError(resterr.ConsentSvcComponent, "resolve-session",
				errors.New(consentSecretHeader+" header must carry a base64url secret"))
		}

		acc.Consent = &healthrecord.ConsentGrant{TokenRef: tokenRef, Secret: secret}
	}

	return acc, nil
}

// classifyRecordErr maps record pipeline failures onto stable error codes so
// a client can tell "try again" from "reconnect" from "this record is
// corrupted".
func classifyRecordErr(err error, operation string) error {
	switch {
	case errors.Is(err, encryption.ErrAccessDenied):
		return resterr.New(resterr.CodeAccessDenied, resterr.EncryptionEngineComponent, operation, err)
	case errors.Is(err, encryption.ErrSessionExpired), errors.Is(err, session.ErrExpired):
		return resterr.New(resterr.CodeSessionExpired, resterr.EncryptionEngineComponent, operation, err)
	case errors.Is(err, encryption.ErrCorruptCiphertext):
		return resterr.New(resterr.CodeCorruptCiphertext, resterr.EncryptionEngineComponent, operation, err)
	case errors.Is(err, encryption.ErrInsufficientShares):
		return resterr.New(resterr.CodeTransport, resterr.KeyAuthorityComponent, operation, err)
	case errors.Is(err, blobstore.ErrPayloadTooLarge):
		return resterr.New(resterr.CodePayloadTooLarge, resterr.BlobStoreComponent, operation, err)
	case errors.Is(err, blobstore.ErrBlobNotFound):
		return resterr.New(resterr.CodeBlobNotFound, resterr.BlobStoreComponent, operation, err)
	case errors.Is(err, policy.ErrPolicyBuild):
		return resterr.New(resterr.CodePolicyBuild, resterr.PolicyBuilderComponent, operation, err)
	case errors.Is(err, ledger.ErrObjectNotFound):
		return resterr.New(resterr.CodePolicyBuild, resterr.LedgerComponent, operation, err)
	default:
		return resterr.New(resterr.CodeSystem, resterr.HealthRecordSvcComponent, operation, err)
	}
}
