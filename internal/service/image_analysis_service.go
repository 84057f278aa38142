package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"math"
	"time"

	"go-face-inspector/internal/analyzer"
	apperrors "go-face-inspector/internal/errors"
	"go-face-inspector/internal/observer"
	"go-face-inspector/internal/repository"
	"go-face-inspector/internal/storage"
	"go-face-inspector/internal/strategy"
	"go-face-inspector/pkg/models"
	"go-face-inspector/pkg/validation"

	"github.com/google/uuid"
)

// SourceUpload labels analyses of uploaded files without a filename
const SourceUpload = "upload"

// AnalysisRequest selects the pipeline for one analysis
type AnalysisRequest struct {
	Mode models.AnalysisMode
	// IncludeEnhanced attaches the CLAHE output as base64 PNG (detailed only)
	IncludeEnhanced bool
	// Fast runs the detailed pipeline without enhancement
	Fast bool
}

// Stats combines analysis counters with worker pool and store state
type Stats struct {
	Analyses      observer.Stats `json:"analyses"`
	Pool          PoolStats      `json:"pool"`
	StoredReports int            `json:"stored_reports"`
}

// ImageAnalysisService runs face image analyses and keeps their results
type ImageAnalysisService interface {
	AnalyzeUpload(ctx context.Context, filename string, body io.Reader, req AnalysisRequest) (*models.AnalysisResult, error)
	AnalyzeBlob(ctx context.Context, blobURL string, req AnalysisRequest) (*models.AnalysisResult, error)
	GetReport(ctx context.Context, id string) (*models.AnalysisResult, error)
	Stats() Stats
}

// Dependencies wires an ImageAnalysisService
type Dependencies struct {
	Images    repository.ImageRepository
	Reports   repository.ReportRepository
	Analyzer  analyzer.ImageAnalyzer
	Validator *validation.QualityValidator
	URLs      *validation.BlobURLValidator
	Pool      *WorkerPool
	Events    *observer.EventPublisher
	Metrics   *observer.MetricsObserver
	// Timeout bounds waiting for and running one analysis
	Timeout time.Duration
}

type imageAnalysisService struct {
	images    repository.ImageRepository
	reports   repository.ReportRepository
	analyzer  analyzer.ImageAnalyzer
	validator *validation.QualityValidator
	urls      *validation.BlobURLValidator
	pool      *WorkerPool
	events    *observer.EventPublisher
	metrics   *observer.MetricsObserver
	timeout   time.Duration
}

// NewImageAnalysisService creates a new image analysis service. Missing
// validators, pool, publisher and metrics fall back to defaults.
func NewImageAnalysisService(deps Dependencies) ImageAnalysisService {
	s := &imageAnalysisService{
		images:    deps.Images,
		reports:   deps.Reports,
		analyzer:  deps.Analyzer,
		validator: deps.Validator,
		urls:      deps.URLs,
		pool:      deps.Pool,
		events:    deps.Events,
		metrics:   deps.Metrics,
		timeout:   deps.Timeout,
	}
	if s.validator == nil {
		s.validator = validation.NewQualityValidator()
	}
	if s.urls == nil {
		s.urls = validation.NewBlobURLValidator(nil)
	}
	if s.pool == nil {
		s.pool = NewWorkerPool(0)
		s.pool.Start()
	}
	if s.events == nil {
		s.events = observer.NewEventPublisher()
	}
	if s.metrics == nil {
		s.metrics = observer.NewMetricsObserver()
		s.events.Subscribe(s.metrics)
	}
	if s.timeout <= 0 {
		s.timeout = 20 * time.Second
	}
	return s
}

// AnalyzeUpload decodes and analyzes an uploaded image
func (s *imageAnalysisService) AnalyzeUpload(ctx context.Context, filename string, body io.Reader, req AnalysisRequest) (*models.AnalysisResult, error) {
	source := filename
	if source == "" {
		source = SourceUpload
	}
	return s.analyze(ctx, source, req, func(ctx context.Context) (*storage.DecodedImage, error) {
		return s.images.LoadUpload(ctx, body)
	})
}

// AnalyzeBlob fetches an image from blob storage and analyzes it
func (s *imageAnalysisService) AnalyzeBlob(ctx context.Context, blobURL string, req AnalysisRequest) (*models.AnalysisResult, error) {
	if !s.images.BlobSourceEnabled() {
		return nil, apperrors.NewUnavailableError("blob analysis is not configured", repository.ErrBlobSourceDisabled)
	}
	if err := s.urls.ValidateBlobURL(blobURL); err != nil {
		return nil, apperrors.NewValidationError("invalid blob URL", err)
	}
	return s.analyze(ctx, blobURL, req, func(ctx context.Context) (*storage.DecodedImage, error) {
		return s.images.LoadBlob(ctx, blobURL)
	})
}

// GetReport returns a stored analysis
func (s *imageAnalysisService) GetReport(ctx context.Context, id string) (*models.AnalysisResult, error) {
	result, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (s *imageAnalysisService) Stats() Stats {
	return Stats{
		Analyses:      s.metrics.GetStats(),
		Pool:          s.pool.Stats(),
		StoredReports: s.reports.Count(),
	}
}

func (s *imageAnalysisService) analyze(
	ctx context.Context,
	source string,
	req AnalysisRequest,
	load func(context.Context) (*storage.DecodedImage, error),
) (*models.AnalysisResult, error) {
	strat := s.selectStrategy(req)
	id := uuid.NewString()
	start := time.Now()

	event := observer.AnalysisEvent{
		AnalysisID: id,
		Source:     source,
		Mode:       string(strat.Mode()),
		Metadata:   map[string]interface{}{"strategy": strat.GetStrategyName()},
	}
	s.publish(ctx, event, observer.AnalysisStarted, nil)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	decoded, err := load(ctx)
	if err != nil {
		s.publish(ctx, event, observer.ImageDecodeFailed, err)
		s.publish(ctx, event, observer.AnalysisFailed, err)
		return nil, mapError(err)
	}
	s.publish(ctx, event, observer.ImageDecoded, nil)

	var out analyzer.AnalysisOutput
	err = s.pool.Run(ctx, func() error {
		var runErr error
		out, runErr = strat.Analyze(ctx, decoded.Image)
		return runErr
	})
	if err != nil {
		s.publish(ctx, event, observer.AnalysisFailed, err)
		return nil, mapError(err)
	}

	result := s.buildResult(id, source, strat.Mode(), start, decoded, out)
	if err := s.reports.Save(ctx, result); err != nil {
		s.publish(ctx, event, observer.AnalysisFailed, err)
		return nil, mapError(err)
	}

	event.ProcessingTime = time.Since(start)
	event.Success = true
	s.publish(ctx, event, observer.AnalysisCompleted, nil)
	return result, nil
}

func (s *imageAnalysisService) selectStrategy(req AnalysisRequest) strategy.AnalysisStrategy {
	switch {
	case req.Mode != models.ModeDetailed:
		return strategy.NewInitialAnalysisStrategy(s.analyzer)
	case req.Fast:
		return strategy.NewFastAnalysisStrategy(s.analyzer)
	default:
		return strategy.NewDetailedAnalysisStrategy(s.analyzer, req.IncludeEnhanced)
	}
}

func (s *imageAnalysisService) buildResult(
	id, source string,
	mode models.AnalysisMode,
	start time.Time,
	decoded *storage.DecodedImage,
	out analyzer.AnalysisOutput,
) *models.AnalysisResult {
	analyzed := decoded.Image.Bounds()
	result := &models.AnalysisResult{
		ID:        id,
		Source:    source,
		Mode:      mode,
		Timestamp: start.UTC(),
		Image: models.ImageMetadata{
			ContentType:    decoded.ContentType,
			ContentLength:  decoded.Size,
			Format:         decoded.Format,
			Width:          decoded.Width,
			Height:         decoded.Height,
			AnalyzedWidth:  analyzed.Dx(),
			AnalyzedHeight: analyzed.Dy(),
		},
		Report:             out.Report,
		Extended:           out.Extended,
		IntensityHistogram: out.Histogram[:],
	}

	if out.Extended != nil {
		result.Issues = s.validator.ValidateDetailedQuality(out.Report, out.Extended, decoded.Width, decoded.Height)
	} else {
		result.Issues = s.validator.ValidateBasicQuality(out.Report, decoded.Width, decoded.Height)
	}

	result.Errors = append(result.Errors, out.Warnings...)
	result.Errors = append(result.Errors, s.validator.ConvertIssuesToMessages(result.Issues)...)

	if out.Enhanced != nil && out.Extended != nil && out.Extended.Enhancement != nil {
		if encoded, err := encodePNG(out.Enhanced); err == nil {
			out.Extended.Enhancement.EnhancedImagePNG = encoded
		} else {
			result.Errors = append(result.Errors, "enhanced image could not be encoded: "+err.Error())
		}
	}

	result.ProcessingTimeSec = math.Round(time.Since(start).Seconds()*1000) / 1000
	return result
}

func (s *imageAnalysisService) publish(ctx context.Context, event observer.AnalysisEvent, t observer.EventType, err error) {
	event.EventType = t
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	s.events.NotifyObservers(ctx, event)
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// mapError converts component errors into the AppError taxonomy
func mapError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, analyzer.ErrEmptyImage):
		return apperrors.NewValidationError("image has no pixels", err)
	case errors.Is(err, repository.ErrAnalysisNotFound):
		return apperrors.NewNotFoundError("analysis not found or expired", err)
	case errors.Is(err, repository.ErrBlobSourceDisabled), errors.Is(err, ErrPoolClosed):
		return apperrors.NewUnavailableError("analysis is not available", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewTimeoutError("analysis timed out", err)
	default:
		return apperrors.NewInternalError("analysis failed", err)
	}
}
