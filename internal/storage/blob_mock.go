package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MockBlobClient is an in-memory implementation of BlobStore for testing
// and for running the backend without Azure credentials
type MockBlobClient struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMockBlobClient creates a new mock blob client
func NewMockBlobClient(logger *zap.Logger) *MockBlobClient {
	return &MockBlobClient{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// UploadReport stores a case report PDF in memory
func (c *MockBlobClient) UploadReport(ctx context.Context, blobName string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage[blobName] = bytes.Clone(data)

	if c.logger != nil {
		c.logger.Info("mock: case report uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

// DownloadReport retrieves a case report PDF from memory
func (c *MockBlobClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}

	if c.logger != nil {
		c.logger.Info("mock: case report downloaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return bytes.Clone(data), nil
}

// Clear removes all data from in-memory storage
func (c *MockBlobClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage = make(map[string][]byte)
}

// Ensure MockBlobClient implements BlobStore interface
var _ BlobStore = (*MockBlobClient)(nil)
