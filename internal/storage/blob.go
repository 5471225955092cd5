package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// BlobClient wraps Azure Blob Storage for archiving case report PDFs
type BlobClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobClient creates a new Azure Blob Storage client
func NewBlobClient(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// NewBlobClientFromConnectionString creates an Azure Blob Storage client
// from a storage account connection string
func NewBlobClientFromConnectionString(connectionString, containerName string, logger *zap.Logger) (*BlobClient, error) {
	if connectionString == "" || containerName == "" {
		return nil, fmt.Errorf("connectionString and containerName are required")
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// UploadReport uploads a case report PDF under the given blob name
func (c *BlobClient) UploadReport(ctx context.Context, blobName string, data []byte) (string, error) {
	c.logger.Info("uploading case report to blob storage",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("application/pdf"),
		},
	})

	if err != nil {
		c.logger.Error("failed to upload case report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload case report: %w", err)
	}

	c.logger.Info("case report uploaded successfully",
		zap.String("blob_name", blobName),
	)

	return blobName, nil
}

// DownloadReport downloads a case report PDF by its blob path
func (c *BlobClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	c.logger.Info("downloading case report from blob storage",
		zap.String("blob_name", blobName),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		c.logger.Error("failed to download case report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download case report: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		c.logger.Error("failed to read case report data",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read case report data: %w", err)
	}

	c.logger.Info("case report downloaded successfully",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

// toPtr is a helper function to convert a value to a pointer
func toPtr(s string) *string {
	return &s
}
