/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/trustbloc/logutil-go/pkg/log"
)

var logger = log.New("ledger-client")

const (
	methodGetDataEntry        = "vault_getDataEntry"
	methodPutDataEntry        = "vault_putDataEntry"
	methodGetObject           = "vault_getObject"
	methodDryRunTransaction   = "vault_dryRunTransaction"
	methodSubmitConsentGrant  = "vault_submitConsentGrant"
	methodUpdateConsentExpiry = "vault_updateConsentExpiry"
	methodRegisterBlob        = "vault_registerBlob"
	methodCertifyBlob         = "vault_certifyBlob"

	defaultRequestTimeout = 15 * time.Second
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a JSON-RPC client for a single ledger fullnode endpoint.
type Client struct {
	endpoint   string
	httpClient httpClient
}

type clientOpts struct {
	httpClient httpClient
}

// ClientOpt configures Client.
type ClientOpt func(opts *clientOpts)

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(client httpClient) ClientOpt {
	return func(opts *clientOpts) {
		opts.httpClient = client
	}
}

// NewClient creates a ledger client for the given fullnode endpoint.
func NewClient(endpoint string, opts ...ClientOpt) *Client {
	op := &clientOpts{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, fn := range opts {
		fn(op)
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: op.httpClient,
	}
}

// GetDataEntry resolves the DataEntry for (ownerRef, dataType). Returns
// ErrEntryNotFound when no entry exists yet.
func (c *Client) GetDataEntry(ctx context.Context, ownerRef, dataType string) (*DataEntry, error) {
	result, err := c.call(ctx, methodGetDataEntry, ownerRef, dataType)
	if err != nil {
		return nil, err
	}

	if result.Type == gjson.Null {
		return nil, ErrEntryNotFound
	}

	return DecodeDataEntry([]byte(result.Raw))
}

// PutDataEntry writes the DataEntry for (ownerRef, dataType) with the given
// write mode. The seal_id is always written in the current byte-vector
// encoding; the legacy hex form is read-only.
func (c *Client) PutDataEntry(
	ctx context.Context, ownerRef, dataType string, entry *DataEntry, mode WriteMode) error {
	sealBytes, err := hex.DecodeString(entry.ScopeID)
	if err != nil {
		return fmt.Errorf("scope id is not hex: %w", err)
	}

	obj := "{}"
	obj, _ = sjson.Set(obj, "seal_id", sealBytes)
	obj, _ = sjson.Set(obj, "blob_ids", entry.BlobIDs)
	obj, _ = sjson.Set(obj, "updated_at", entry.UpdatedAt)

	_, err = c.call(ctx, methodPutDataEntry, ownerRef, dataType, gjson.Parse(obj).Value(), string(mode))

	return err
}

// GetObject fetches the raw JSON of a ledger object by reference. Used by the
// access-policy builder to resolve object shapes; never mutates state.
func (c *Client) GetObject(ctx context.Context, ref string) ([]byte, error) {
	result, err := c.call(ctx, methodGetObject, ref)
	if err != nil {
		return nil, err
	}

	if result.Type == gjson.Null {
		return nil, ErrObjectNotFound
	}

	return []byte(result.Raw), nil
}

// DryRun simulates the given transaction payload without submitting it and
// returns the serialized evaluation result. This is the only execution mode
// access proofs are ever used with.
func (c *Client) DryRun(ctx context.Context, txBytes []byte) ([]byte, error) {
	result, err := c.call(ctx, methodDryRunTransaction, base64.StdEncoding.EncodeToString(txBytes))
	if err != nil {
		return nil, err
	}

	return base64.StdEncoding.DecodeString(result.String())
}

// SubmitConsentGrant records a consent-token commitment and returns the
// created token object reference.
func (c *Client) SubmitConsentGrant(ctx context.Context, grant *ConsentGrant) (string, error) {
	obj := "{}"
	obj, _ = sjson.Set(obj, "owner", grant.OwnerRef)
	obj, _ = sjson.Set(obj, "commitment", base64.StdEncoding.EncodeToString(grant.CommitmentHash))
	obj, _ = sjson.Set(obj, "scopes", grant.Scopes)
	obj, _ = sjson.Set(obj, "expires_at", grant.ExpiresAt.UTC().Unix())

	result, err := c.call(ctx, methodSubmitConsentGrant, gjson.Parse(obj).Value())
	if err != nil {
		return "", err
	}

	return result.String(), nil
}

// UpdateConsentExpiry moves a consent token's expiry; passing a time in the
// past revokes the grant.
func (c *Client) UpdateConsentExpiry(ctx context.Context, tokenRef string, expiresAt time.Time) error {
	_, err := c.call(ctx, methodUpdateConsentExpiry, tokenRef, expiresAt.UTC().Unix())

	return err
}

// RegisterBlob records intent to store a blob (step two of the upload
// protocol).
func (c *Client) RegisterBlob(ctx context.Context, reg *BlobRegistration) error {
	obj := "{}"
	obj, _ = sjson.Set(obj, "blob_id", reg.BlobID)
	obj, _ = sjson.Set(obj, "owner", reg.OwnerRef)
	obj, _ = sjson.Set(obj, "epochs", reg.Epochs)
	obj, _ = sjson.Set(obj, "deletable", reg.Deletable)

	_, err := c.call(ctx, methodRegisterBlob, gjson.Parse(obj).Value())

	return err
}

// CertifyBlob records the storage network's availability receipt (step four
// of the upload protocol).
func (c *Client) CertifyBlob(ctx context.Context, blobID string, receipt []byte) error {
	_, err := c.call(ctx, methodCertifyBlob, blobID, base64.StdEncoding.EncodeToString(receipt))

	return err
}

// Health verifies the endpoint answers RPC calls.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.call(ctx, methodGetObject, "0x0")
	if err != nil && err != ErrObjectNotFound { //nolint:errorlint
		return err
	}

	return nil
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) (gjson.Result, error) {
	body := "{}"
	body, _ = sjson.Set(body, "jsonrpc", "2.0")
	body, _ = sjson.Set(body, "id", uuid.NewString())
	body, _ = sjson.Set(body, "method", method)
	body, _ = sjson.Set(body, "params", params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader([]byte(body)))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: %w", method, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warnc(ctx, "failed to close response body", log.WithError(closeErr))
		}
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: read response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	parsed := gjson.ParseBytes(respBytes)

	if rpcErr := parsed.Get("error"); rpcErr.Exists() {
		if rpcErr.Get("code").Int() == rpcNotFoundCode {
			return gjson.Result{}, ErrObjectNotFound
		}

		return gjson.Result{}, fmt.Errorf("%s: rpc error %d: %s",
			method, rpcErr.Get("code").Int(), rpcErr.Get("message").String())
	}

	return parsed.Get("result"), nil
}

const rpcNotFoundCode = -32001
