package storage

import "context"

// BlobStore defines the interface for report blob operations
// This interface allows for easier testing with mock implementations
type BlobStore interface {
	UploadReport(ctx context.Context, blobName string, data []byte) (string, error)
	DownloadReport(ctx context.Context, blobName string) ([]byte, error)
}

// Ensure BlobClient implements BlobStore interface
var _ BlobStore = (*BlobClient)(nil)
