package repository

import (
	"context"
	"io"

	"go-face-inspector/internal/storage"
)

// imageRepository implements ImageRepository over the decoder and an optional blob store
type imageRepository struct {
	decoder *storage.ImageDecoder
	blobs   storage.BlobStorage
}

// NewImageRepository creates an image repository. blobs may be nil when no
// blob backend is configured.
func NewImageRepository(decoder *storage.ImageDecoder, blobs storage.BlobStorage) ImageRepository {
	return &imageRepository{
		decoder: decoder,
		blobs:   blobs,
	}
}

// LoadUpload decodes an uploaded image
func (r *imageRepository) LoadUpload(ctx context.Context, body io.Reader) (*storage.DecodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.decoder.Decode(body)
}

// LoadBlob downloads a blob and decodes it
func (r *imageRepository) LoadBlob(ctx context.Context, blobURL string) (*storage.DecodedImage, error) {
	if r.blobs == nil {
		return nil, ErrBlobSourceDisabled
	}
	data, err := r.blobs.GetBlob(ctx, blobURL)
	if err != nil {
		return nil, err
	}
	return r.decoder.DecodeBytes(data)
}

func (r *imageRepository) BlobSourceEnabled() bool {
	return r.blobs != nil
}
