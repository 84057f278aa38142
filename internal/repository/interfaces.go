package repository

import (
	"context"
	"io"

	"go-face-inspector/internal/storage"
	"go-face-inspector/pkg/models"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// LoadUpload decodes an image from an uploaded body
	LoadUpload(ctx context.Context, body io.Reader) (*storage.DecodedImage, error)

	// LoadBlob downloads and decodes an image held in blob storage
	LoadBlob(ctx context.Context, blobURL string) (*storage.DecodedImage, error)

	// BlobSourceEnabled reports whether a blob backend is configured
	BlobSourceEnabled() bool
}

// ReportRepository keeps finished analyses for the lifetime of a session
type ReportRepository interface {
	// Save stores an analysis result under its ID
	Save(ctx context.Context, result *models.AnalysisResult) error

	// Get retrieves a stored analysis result
	Get(ctx context.Context, id string) (*models.AnalysisResult, error)

	// Count returns the number of stored results, including expired ones not yet evicted
	Count() int
}
