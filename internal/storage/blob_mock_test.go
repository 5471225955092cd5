package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockBlobClient_RoundTrip(t *testing.T) {
	client := NewMockBlobClient(zap.NewNop())

	// The caller owns the blob name; it is stored verbatim
	path, err := client.UploadReport(context.Background(), "case-reports/PV-2024-001-abc.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "case-reports/PV-2024-001-abc.pdf", path)

	data, err := client.DownloadReport(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestMockBlobClient_IsolatesStoredBytes(t *testing.T) {
	client := NewMockBlobClient(zap.NewNop())

	payload := []byte("%PDF-1.4")
	path, err := client.UploadReport(context.Background(), "case-reports/x.pdf", payload)
	require.NoError(t, err)

	// Mutating the caller's buffer must not reach the archive
	payload[0] = '!'

	data, err := client.DownloadReport(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestMockBlobClient_MissingBlob(t *testing.T) {
	client := NewMockBlobClient(zap.NewNop())

	_, err := client.DownloadReport(context.Background(), "case-reports/nope.pdf")
	assert.Error(t, err)
}
