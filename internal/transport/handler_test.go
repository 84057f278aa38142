package transport

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-face-inspector/internal/analyzer"
	"go-face-inspector/internal/config"
	"go-face-inspector/internal/repository"
	"go-face-inspector/internal/service"
	"go-face-inspector/internal/storage"
	"go-face-inspector/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeout:     10 * time.Second,
		AnalysisTimeout:    10 * time.Second,
		MaxUploadSize:      1 << 20,
		ThumbnailMaxSize:   400,
		StylesheetPath:     "assets/style.css",
		RateLimitPerSecond: 1000,
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestHandler(t *testing.T, cfg *config.Config, stylesheet []byte) http.Handler {
	t.Helper()
	a, err := analyzer.NewImageAnalyzer(nil)
	require.NoError(t, err)

	pool := service.NewWorkerPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	svc := service.NewImageAnalysisService(service.Dependencies{
		Images:   repository.NewImageRepository(storage.NewImageDecoder(cfg.MaxUploadSize, cfg.ThumbnailMaxSize), nil),
		Reports:  repository.NewMemoryReportRepository(time.Minute),
		Analyzer: a,
		Pool:     pool,
		Timeout:  cfg.AnalysisTimeout,
	})
	return NewHandler(svc, cfg, stylesheet)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 96, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 96; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 2), uint8(y * 3), 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, target, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, "face.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndIndex(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"available"`)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)
	assert.Contains(t, rec.Body.String(), stylesheetRoute)
}

func TestStylesheet(t *testing.T) {
	rec := serve(newTestHandler(t, testConfig(), []byte("body{}")), httptest.NewRequest(http.MethodGet, stylesheetRoute, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "body{}", rec.Body.String())

	rec = serve(newTestHandler(t, testConfig(), nil), httptest.NewRequest(http.MethodGet, stylesheetRoute, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeUploadAndReports(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	rec := serve(h, multipartRequest(t, "/api/v1/analyze?mode=detailed", formField, pngBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.AnalysisResult)
	assert.Equal(t, models.ModeDetailed, resp.Mode)
	assert.Equal(t, "face.png", resp.Source)
	assert.Equal(t, "96x80", resp.Report.Resolution.Dimensions)
	assert.Equal(t, "/dashboard/"+resp.ID, resp.Links.Dashboard)

	rec = serve(h, httptest.NewRequest(http.MethodGet, resp.Links.Self, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resp.ID)

	rec = serve(h, httptest.NewRequest(http.MethodGet, resp.Links.PDF, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = serve(h, httptest.NewRequest(http.MethodGet, resp.Links.Dashboard, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Image Quality Analysis")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stored_reports":1`)
}

func TestAnalyzeUpload_BadRequests(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	testCases := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"missing file", multipartRequest(t, "/api/v1/analyze", "", nil), http.StatusBadRequest},
		{"unknown mode", multipartRequest(t, "/api/v1/analyze?mode=deep", formField, pngBytes(t)), http.StatusBadRequest},
		{"bad flag", multipartRequest(t, "/api/v1/analyze?include_enhanced=maybe", formField, pngBytes(t)), http.StatusBadRequest},
		{"not an image", multipartRequest(t, "/api/v1/analyze", formField, []byte(strings.Repeat("text ", 20))), http.StatusBadRequest},
		{"corrupt png", multipartRequest(t, "/api/v1/analyze", formField, append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 64)...)), http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, tc.req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusText(tc.want), resp.Error)
		})
	}
}

func TestAnalyzeBlob_Errors(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/blob", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(h, req)
	}

	assert.Equal(t, http.StatusBadRequest, post(`{"mode":"initial"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"url":"https://acct.blob.core.windows.net/faces/a.png","mode":"deep"}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, post(`{"url":"https://acct.blob.core.windows.net/faces/a.png"}`).Code)
}

func TestReportNotFound(t *testing.T) {
	h := newTestHandler(t, testConfig(), nil)

	for _, path := range []string{"/api/v1/reports/nope", "/api/v1/reports/nope/pdf", "/dashboard/nope"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerSecond = 1
	h := newTestHandler(t, cfg, nil)

	first := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.CORSAllowedOrigins = []string{"https://portal.example.com"}
	h := newTestHandler(t, cfg, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
