package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	apperrors "go-face-inspector/internal/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

// Supported upload content types
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// DecodedImage is an upload turned into pixels, plus what we learned on the way
type DecodedImage struct {
	Image       image.Image
	ContentType string
	Format      string
	Size        int64
	// Width and Height are the dimensions before thumbnailing
	Width  int
	Height int
}

// ImageDecoder sniffs, validates and decodes raw upload bytes
type ImageDecoder struct {
	maxBytes     int64
	thumbnailMax uint
}

// NewImageDecoder creates a decoder rejecting payloads over maxBytes and
// shrinking images to fit within thumbnailMax x thumbnailMax (0 disables).
func NewImageDecoder(maxBytes int64, thumbnailMax int) *ImageDecoder {
	if thumbnailMax < 0 {
		thumbnailMax = 0
	}
	return &ImageDecoder{maxBytes: maxBytes, thumbnailMax: uint(thumbnailMax)}
}

// Decode reads r fully and returns the decoded image. Unsupported content
// and empty images are validation errors; corrupt data is a decode error.
func (d *ImageDecoder) Decode(r io.Reader) (*DecodedImage, error) {
	reader := r
	if d.maxBytes > 0 {
		reader = io.LimitReader(r, d.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to read image data", err)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes an in-memory payload
func (d *ImageDecoder) DecodeBytes(data []byte) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("image payload is empty", nil)
	}
	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("image exceeds maximum size of %d bytes", d.maxBytes), nil)
	}

	mtype := mimetype.Detect(data)
	if !mtype.Is(MIMEJPEG) && !mtype.Is(MIMEPNG) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported content type %q, expected JPEG or PNG", mtype.String()), nil)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to read image header", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, apperrors.NewValidationError("image has zero width or height", nil)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode image", err)
	}

	decoded := &DecodedImage{
		Image:       img,
		ContentType: mtype.String(),
		Format:      format,
		Size:        int64(len(data)),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}
	if d.thumbnailMax > 0 {
		decoded.Image = resize.Thumbnail(d.thumbnailMax, d.thumbnailMax, img, resize.Lanczos3)
	}
	return decoded, nil
}
