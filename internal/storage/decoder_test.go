package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	apperrors "go-face-inspector/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	decoder := NewImageDecoder(1<<20, 0)

	decoded, err := decoder.Decode(bytes.NewReader(encodePNG(t, 64, 32)))
	require.NoError(t, err)

	assert.Equal(t, MIMEPNG, decoded.ContentType)
	assert.Equal(t, "png", decoded.Format)
	assert.Equal(t, 64, decoded.Width)
	assert.Equal(t, 32, decoded.Height)
	assert.Equal(t, image.Rect(0, 0, 64, 32), decoded.Image.Bounds())
}

func TestDecode_JPEGThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 400))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	decoded, err := NewImageDecoder(1<<22, 400).DecodeBytes(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, MIMEJPEG, decoded.ContentType)
	assert.Equal(t, 800, decoded.Width)
	assert.Equal(t, 400, decoded.Image.Bounds().Dx())
	assert.Equal(t, 200, decoded.Image.Bounds().Dy())
}

func TestDecode_SmallImageNotUpscaled(t *testing.T) {
	decoded, err := NewImageDecoder(1<<20, 400).DecodeBytes(encodePNG(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), decoded.Image.Bounds())
}

func TestDecode_Rejections(t *testing.T) {
	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xAB}, 64)...)

	testCases := []struct {
		name     string
		data     []byte
		maxBytes int64
		wantType apperrors.ErrorType
	}{
		{"empty payload", nil, 1 << 20, apperrors.ErrorTypeValidation},
		{"plain text", []byte(strings.Repeat("not an image ", 10)), 1 << 20, apperrors.ErrorTypeValidation},
		{"corrupt png", corrupt, 1 << 20, apperrors.ErrorTypeDecode},
		{"too large", encodePNG(t, 64, 64), 16, apperrors.ErrorTypeValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewImageDecoder(tc.maxBytes, 0).Decode(bytes.NewReader(tc.data))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tc.wantType), "got %v", err)
		})
	}
}

func TestSplitBlobURL(t *testing.T) {
	container, blob, err := SplitBlobURL("https://acct.blob.core.windows.net/faces/2024/portrait.jpg")
	require.NoError(t, err)
	assert.Equal(t, "faces", container)
	assert.Equal(t, "2024/portrait.jpg", blob)

	_, _, err = SplitBlobURL("https://acct.blob.core.windows.net/faces")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
