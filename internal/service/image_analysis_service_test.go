package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"go-face-inspector/internal/analyzer"
	apperrors "go-face-inspector/internal/errors"
	"go-face-inspector/internal/repository"
	"go-face-inspector/internal/storage"
	"go-face-inspector/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBlobs struct {
	data []byte
	err  error
	urls []string
}

func (b *stubBlobs) GetBlob(ctx context.Context, blobURL string) ([]byte, error) {
	b.urls = append(b.urls, blobURL)
	return b.data, b.err
}

func gradientPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x*7 + y*3) % 256)
			img.Set(x, y, color.RGBA{v, v / 2, 255 - v, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T, blobs storage.BlobStorage) *imageAnalysisService {
	t.Helper()
	a, err := analyzer.NewImageAnalyzer(nil)
	require.NoError(t, err)

	pool := NewWorkerPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	svc := NewImageAnalysisService(Dependencies{
		Images:   repository.NewImageRepository(storage.NewImageDecoder(1<<22, 400), blobs),
		Reports:  repository.NewMemoryReportRepository(time.Minute),
		Analyzer: a,
		Pool:     pool,
		Timeout:  10 * time.Second,
	})
	return svc.(*imageAnalysisService)
}

func TestAnalyzeUpload_Initial(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.AnalyzeUpload(context.Background(), "portrait.png", bytes.NewReader(gradientPNG(t, 240, 200)), AnalysisRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "portrait.png", result.Source)
	assert.Equal(t, models.ModeInitial, result.Mode)
	assert.Nil(t, result.Extended)
	assert.Equal(t, "240x200", result.Report.Resolution.Dimensions)
	assert.Equal(t, storage.MIMEPNG, result.Image.ContentType)
	assert.Equal(t, 240, result.Image.Width)

	require.Len(t, result.IntensityHistogram, 256)
	total := 0
	for _, n := range result.IntensityHistogram {
		total += n
	}
	assert.Equal(t, result.Image.AnalyzedWidth*result.Image.AnalyzedHeight, total)

	stored, err := svc.GetReport(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Same(t, result, stored)

	svc.events.Wait()
	stats := svc.Stats()
	assert.Equal(t, int64(1), stats.Analyses.SuccessfulAnalyses)
	assert.Equal(t, int64(1), stats.Analyses.ByMode["initial"])
	assert.Equal(t, 1, stats.StoredReports)
	assert.Eventually(t, func() bool { return svc.Stats().Pool.Completed == 1 }, time.Second, 10*time.Millisecond)
}

func TestAnalyzeUpload_DetailedWithEnhancedImage(t *testing.T) {
	svc := newTestService(t, nil)

	req := AnalysisRequest{Mode: models.ModeDetailed, IncludeEnhanced: true}
	result, err := svc.AnalyzeUpload(context.Background(), "", bytes.NewReader(gradientPNG(t, 120, 100)), req)
	require.NoError(t, err)

	assert.Equal(t, SourceUpload, result.Source)
	require.NotNil(t, result.Extended)
	assert.Equal(t, 0, result.Extended.FaceDetails.FacesFound)

	types := map[string]bool{}
	for _, issue := range result.Issues {
		types[issue.Type] = true
	}
	assert.True(t, types["no_face_detected"])
	assert.True(t, types["low_resolution"])
	assert.Len(t, result.Errors, len(result.Issues))

	require.NotNil(t, result.Extended.Enhancement)
	raw, err := base64.StdEncoding.DecodeString(result.Extended.Enhancement.EnhancedImagePNG)
	require.NoError(t, err)
	enhanced, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 100), enhanced.Bounds())
}

func TestAnalyzeUpload_FastSkipsEnhancement(t *testing.T) {
	svc := newTestService(t, nil)

	req := AnalysisRequest{Mode: models.ModeDetailed, Fast: true, IncludeEnhanced: true}
	result, err := svc.AnalyzeUpload(context.Background(), "", bytes.NewReader(gradientPNG(t, 64, 64)), req)
	require.NoError(t, err)

	require.NotNil(t, result.Extended)
	assert.Nil(t, result.Extended.Enhancement)
}

func TestAnalyzeUpload_Failures(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.AnalyzeUpload(context.Background(), "", strings.NewReader("definitely not an image"), AnalysisRequest{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "got %v", err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.AnalyzeUpload(ctx, "", bytes.NewReader(gradientPNG(t, 8, 8)), AnalysisRequest{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout), "got %v", err)

	svc.events.Wait()
	stats := svc.Stats()
	assert.Equal(t, int64(2), stats.Analyses.FailedAnalyses)
	assert.Equal(t, int64(2), stats.Analyses.DecodeFailures)
	assert.Equal(t, 0, stats.StoredReports)
}

func TestAnalyzeBlob(t *testing.T) {
	const blobURL = "https://acct.blob.core.windows.net/faces/portrait.png"

	t.Run("disabled", func(t *testing.T) {
		svc := newTestService(t, nil)
		_, err := svc.AnalyzeBlob(context.Background(), blobURL, AnalysisRequest{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable), "got %v", err)
	})

	t.Run("invalid url", func(t *testing.T) {
		blobs := &stubBlobs{}
		svc := newTestService(t, blobs)
		_, err := svc.AnalyzeBlob(context.Background(), "https://example.com/faces/portrait.png", AnalysisRequest{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "got %v", err)
		assert.Empty(t, blobs.urls)
	})

	t.Run("fetch error", func(t *testing.T) {
		blobs := &stubBlobs{err: apperrors.NewNetworkError("blob download failed", nil)}
		svc := newTestService(t, blobs)
		_, err := svc.AnalyzeBlob(context.Background(), blobURL, AnalysisRequest{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork), "got %v", err)
	})

	t.Run("success", func(t *testing.T) {
		blobs := &stubBlobs{data: gradientPNG(t, 32, 32)}
		svc := newTestService(t, blobs)
		result, err := svc.AnalyzeBlob(context.Background(), blobURL, AnalysisRequest{Mode: models.ModeDetailed})
		require.NoError(t, err)
		assert.Equal(t, blobURL, result.Source)
		assert.Equal(t, []string{blobURL}, blobs.urls)
		assert.NotNil(t, result.Extended)
	})
}

func TestGetReport_NotFound(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.GetReport(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound), "got %v", err)
}

func TestMapError(t *testing.T) {
	testCases := []struct {
		err  error
		want apperrors.ErrorType
	}{
		{analyzer.ErrEmptyImage, apperrors.ErrorTypeValidation},
		{repository.ErrAnalysisNotFound, apperrors.ErrorTypeNotFound},
		{repository.ErrBlobSourceDisabled, apperrors.ErrorTypeUnavailable},
		{ErrPoolClosed, apperrors.ErrorTypeUnavailable},
		{context.DeadlineExceeded, apperrors.ErrorTypeTimeout},
		{assert.AnError, apperrors.ErrorTypeInternal},
		{apperrors.NewDecodeError("bad", nil), apperrors.ErrorTypeDecode},
	}
	for _, tc := range testCases {
		assert.True(t, apperrors.IsType(mapError(tc.err), tc.want), "%v", tc.err)
	}
}
