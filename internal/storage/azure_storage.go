package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	apperrors "go-face-inspector/internal/errors"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage downloads raw image bytes from blob storage
type BlobStorage interface {
	GetBlob(ctx context.Context, blobURL string) ([]byte, error)
}

type azureStorage struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureStorage creates a shared-key authenticated blob client for accountName
func NewAzureStorage(accountName string, accountKey string, maxBytes int64) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &azureStorage{client: client, maxBytes: maxBytes}, nil
}

// GetBlob downloads the blob addressed by blobURL
func (s *azureStorage) GetBlob(ctx context.Context, blobURL string) ([]byte, error) {
	containerName, blobName, err := SplitBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("blob download timed out", err)
		}
		return nil, apperrors.NewNetworkError("blob download failed", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	reader := io.Reader(retryReader)
	if s.maxBytes > 0 {
		reader = io.LimitReader(retryReader, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read blob body", err)
	}
	return data, nil
}

// SplitBlobURL extracts the container and blob names from a blob URL
func SplitBlobURL(blobURL string) (containerName, blobName string, err error) {
	parts, err := azblob.ParseURL(blobURL)
	if err != nil {
		return "", "", apperrors.NewValidationError("invalid blob URL", err)
	}
	if parts.ContainerName == "" || strings.Trim(parts.BlobName, "/") == "" {
		return "", "", apperrors.NewValidationError("blob URL must name a container and a blob", nil)
	}
	return parts.ContainerName, parts.BlobName, nil
}
