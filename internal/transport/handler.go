package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go-face-inspector/internal/config"
	apperrors "go-face-inspector/internal/errors"
	"go-face-inspector/internal/logger"
	"go-face-inspector/internal/report"
	"go-face-inspector/internal/service"
	"go-face-inspector/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	stylesheetRoute = "/static/style.css"
	formField       = "image"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Face Image Quality Inspector</title>
  <link rel="stylesheet" href="{{.Stylesheet}}">
</head>
<body>
  <h1>Face Image Quality Inspector</h1>
  <form action="/api/v1/analyze" method="post" enctype="multipart/form-data">
    <input type="file" name="image" accept="image/jpeg,image/png" required>
    <select name="mode">
      <option value="initial">Initial analysis</option>
      <option value="detailed">Detailed analysis</option>
    </select>
    <label><input type="checkbox" name="include_enhanced" value="true"> Include enhanced image</label>
    <button type="submit">Analyze</button>
  </form>
  <p>Maximum upload size: {{.MaxUploadMB}} MB. JPEG and PNG only.</p>
</body>
</html>
`))

// Handler serves the analysis API and the report pages
type Handler struct {
	service    service.ImageAnalysisService
	cfg        *config.Config
	stylesheet []byte
}

// NewHandler builds the gin engine. stylesheet is served at /static/style.css;
// when nil that route answers 404.
func NewHandler(svc service.ImageAnalysisService, cfg *config.Config, stylesheet []byte) http.Handler {
	h := &Handler{service: svc, cfg: cfg, stylesheet: stylesheet}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadSize + multipartOverhead
	r.Use(
		gin.Recovery(),
		requestLogger(),
		corsMiddleware(cfg.CORSAllowedOrigins),
		rateLimiter(cfg.RateLimitPerSecond),
		requestSizeLimiter(cfg.MaxUploadSize+multipartOverhead),
	)

	r.GET("/health", healthCheck)
	r.GET("/", h.index)
	r.GET(stylesheetRoute, h.serveStylesheet)
	r.GET("/dashboard/:id", h.dashboard)

	api := r.Group("/api/v1")
	api.POST("/analyze", h.analyzeUpload)
	api.POST("/analyze/blob", h.analyzeBlob)
	api.GET("/reports/:id", h.getReport)
	api.GET("/reports/:id/pdf", h.getReportPDF)
	api.GET("/stats", h.stats)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) index(c *gin.Context) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, map[string]interface{}{
		"Stylesheet":  stylesheetRoute,
		"MaxUploadMB": h.cfg.MaxUploadSize >> 20,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render page", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) serveStylesheet(c *gin.Context) {
	if h.stylesheet == nil {
		respondError(c, http.StatusNotFound, "stylesheet not configured", fmt.Errorf("nothing loaded from %q", h.cfg.StylesheetPath))
		return
	}
	c.Data(http.StatusOK, "text/css; charset=utf-8", h.stylesheet)
}

func (h *Handler) analyzeUpload(c *gin.Context) {
	file, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
			return
		}
		respondError(c, http.StatusBadRequest, "missing image upload", err)
		return
	}
	body, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable image upload", err)
		return
	}
	defer body.Close()

	req, err := parseAnalysisRequest(c.Query("mode"), c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"filename": file.Filename,
		"size":     file.Size,
		"mode":     req.Mode,
		"ip":       c.ClientIP(),
	}).Debug("Analyzing uploaded image")

	result, err := h.service.AnalyzeUpload(ctx, file.Filename, body, req)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, newAnalysisResponse(result))
}

func (h *Handler) analyzeBlob(c *gin.Context) {
	var body models.BlobAnalysisRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	req, err := parseAnalysisRequest(body.Mode, c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.service.AnalyzeBlob(ctx, body.URL, req)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, newAnalysisResponse(result))
}

func (h *Handler) getReport(c *gin.Context) {
	result, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "report unavailable", err)
		return
	}
	c.JSON(http.StatusOK, newAnalysisResponse(result))
}

func (h *Handler) getReportPDF(c *gin.Context) {
	result, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "report unavailable", err)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, result); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render pdf", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="face-report-%s.pdf"`, result.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) dashboard(c *gin.Context) {
	result, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "report unavailable", err)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderDashboard(&buf, result, report.DashboardOptions{StylesheetURL: stylesheetRoute}); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render dashboard", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}

// parseAnalysisRequest reads the mode plus the include_enhanced and fast
// flags, which may come from the query string or the form.
func parseAnalysisRequest(rawMode string, c *gin.Context) (service.AnalysisRequest, error) {
	if rawMode == "" && c.ContentType() == gin.MIMEMultipartPOSTForm {
		rawMode = c.PostForm("mode")
	}
	mode, ok := models.ParseAnalysisMode(rawMode)
	if !ok {
		return service.AnalysisRequest{}, apperrors.NewValidationError(fmt.Sprintf("unknown mode %q", rawMode), nil)
	}

	req := service.AnalysisRequest{Mode: mode}
	var err error
	if req.IncludeEnhanced, err = boolParam(c, "include_enhanced"); err != nil {
		return req, err
	}
	if req.Fast, err = boolParam(c, "fast"); err != nil {
		return req, err
	}
	return req, nil
}

func boolParam(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" && c.ContentType() == gin.MIMEMultipartPOSTForm {
		raw = c.PostForm(name)
	}
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("%s must be a boolean", name), err)
	}
	return v, nil
}

func newAnalysisResponse(result *models.AnalysisResult) models.AnalysisResponse {
	return models.AnalysisResponse{
		AnalysisResult: result,
		Links: models.ReportLinks{
			Self:      "/api/v1/reports/" + result.ID,
			Dashboard: "/dashboard/" + result.ID,
			PDF:       "/api/v1/reports/" + result.ID + "/pdf",
		},
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
