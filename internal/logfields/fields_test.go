/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/trustbloc/logutil-go/pkg/log"
)

func TestStandardFields(t *testing.T) {
	const module = "test_module"

	t.Run("json fields", func(t *testing.T) {
		stdOut := newMockWriter()

		logger := log.New(module, log.WithStdOut(stdOut), log.WithEncoding(log.JSON))

		aggregator := "https://aggregator-1.example.com"
		blobID := "9a2f7d31c4"
		dataType := "blood-pressure"
		entryCount := 4
		expiresAt := time.Date(2023, time.April, 5, 12, 0, 0, 0, time.UTC)
		keyServerID := "ks-1"
		ownerRef := "0xowner"
		partitionKey := "2023-04"
		payloadSize := 2048
		scopeID := "5f0c1a"
		shareToken := "tok-123"
		threshold := 2

		logger.Info(
			"Some message",
			WithAggregator(aggregator),
			WithBlobID(blobID),
			WithDataType(dataType),
			WithEntryCount(entryCount),
			WithExpiresAt(expiresAt),
			WithKeyServerID(keyServerID),
			WithOwnerRef(ownerRef),
			WithPartitionKey(partitionKey),
			WithPayloadSize(payloadSize),
			WithScopeID(scopeID),
			WithShareToken(shareToken),
			WithThreshold(threshold),
		)

		l := unmarshalLogData(t, stdOut.Bytes())

		require.Equal(t, aggregator, l.Aggregator)
		require.Equal(t, blobID, l.BlobID)
		require.Equal(t, dataType, l.DataType)
		require.Equal(t, entryCount, l.EntryCount)
		require.NotEmpty(t, l.ExpiresAt)
		require.Equal(t, keyServerID, l.KeyServerID)
		require.Equal(t, ownerRef, l.OwnerRef)
		require.Equal(t, partitionKey, l.PartitionKey)
		require.Equal(t, payloadSize, l.PayloadSize)
		require.Equal(t, scopeID, l.ScopeID)
		require.Equal(t, shareToken, l.ShareToken)
		require.Equal(t, threshold, l.Threshold)
	})
}

type logData struct {
	Level  string `json:"level"`
	Time   string `json:"time"`
	Logger string `json:"logger"`
	Caller string `json:"caller"`
	Msg    string `json:"msg"`
	Error  string `json:"error"`

	Aggregator   string `json:"aggregator"`
	BlobID       string `json:"blobID"`
	DataType     string `json:"dataType"`
	EntryCount   int    `json:"entryCount"`
	ExpiresAt    string `json:"expiresAt"`
	KeyServerID  string `json:"keyServerID"`
	OwnerRef     string `json:"ownerRef"`
	PartitionKey string `json:"partitionKey"`
	PayloadSize  int    `json:"payloadSize"`
	ScopeID      string `json:"scopeID"`
	ShareToken   string `json:"shareToken"`
	Threshold    int    `json:"threshold"`
}

func unmarshalLogData(t *testing.T, b []byte) *logData {
	t.Helper()

	l := &logData{}

	require.NoError(t, json.Unmarshal(b, l))

	return l
}

type mockWriter struct {
	*bytes.Buffer
}

func (m *mockWriter) Sync() error {
	return nil
}

func newMockWriter() *mockWriter {
	return &mockWriter{Buffer: bytes.NewBuffer(nil)}
}
