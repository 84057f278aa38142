package container

import (
	"fmt"
	"net/http"
	"os"

	"go-face-inspector/internal/analyzer"
	"go-face-inspector/internal/config"
	"go-face-inspector/internal/factory"
	"go-face-inspector/internal/logger"
	"go-face-inspector/internal/observer"
	"go-face-inspector/internal/repository"
	"go-face-inspector/internal/service"
	"go-face-inspector/internal/storage"
	"go-face-inspector/internal/transport"
	"go-face-inspector/pkg/validation"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	config               *config.Config
	imageAnalyzer        analyzer.ImageAnalyzer
	imageRepository      repository.ImageRepository
	reportRepository     repository.ReportRepository
	workerPool           *service.WorkerPool
	events               *observer.EventPublisher
	imageAnalysisService service.ImageAnalysisService
	handler              http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	detector, err := components.DetectorFactory.CreateDetector(factory.DetectorTypeFor(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create face detector: %w", err)
	}
	blobs, err := components.StorageFactory.CreateStorage(factory.StorageTypeFor(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create blob storage: %w", err)
	}

	imageAnalyzer, err := analyzer.NewImageAnalyzer(detector)
	if err != nil {
		return nil, err
	}

	decoder := storage.NewImageDecoder(cfg.MaxUploadSize, cfg.ThumbnailMaxSize)
	imageRepository := repository.NewImageRepository(decoder, blobs)
	reportRepository := repository.NewMemoryReportRepository(cfg.ReportTTL)

	workerPool := service.NewWorkerPool(cfg.MaxConcurrentAnalyses)
	workerPool.Start()

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	imageAnalysisService := service.NewImageAnalysisService(service.Dependencies{
		Images:    imageRepository,
		Reports:   reportRepository,
		Analyzer:  imageAnalyzer,
		Validator: validation.NewQualityValidator(),
		URLs:      validation.NewBlobURLValidator(cfg.AzureAllowedHosts),
		Pool:      workerPool,
		Events:    events,
		Metrics:   metrics,
		Timeout:   cfg.AnalysisTimeout,
	})
	handler := transport.NewHandler(imageAnalysisService, cfg, loadStylesheet(cfg.StylesheetPath))

	logger.WithFields(logrus.Fields{
		"face_detector": cfg.FaceDetector,
		"blob_source":   imageRepository.BlobSourceEnabled(),
		"workers":       workerPool.Stats().Workers,
	}).Info("Container initialized")

	return &Container{
		config:               cfg,
		imageAnalyzer:        imageAnalyzer,
		imageRepository:      imageRepository,
		reportRepository:     reportRepository,
		workerPool:           workerPool,
		events:               events,
		imageAnalysisService: imageAnalysisService,
		handler:              handler,
	}, nil
}

// loadStylesheet resolves the styling asset once at startup. A missing file
// is logged and the stylesheet route answers 404.
func loadStylesheet(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("Stylesheet not loaded")
		return nil
	}
	return data
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the analysis service
func (c *Container) Service() service.ImageAnalysisService {
	return c.imageAnalysisService
}

// Close drains the worker pool and pending events, then releases the detector
func (c *Container) Close() error {
	c.workerPool.Close()
	c.workerPool.Wait()
	c.events.Wait()
	return c.imageAnalyzer.Close()
}
