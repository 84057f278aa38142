package analyzer

import (
	"context"
	"image"

	"go-face-inspector/pkg/models"
)

// ImageAnalyzer defines the main interface for image analysis
type ImageAnalyzer interface {
	// AnalyzeInitial computes the four metric clusters of an image
	AnalyzeInitial(img image.Image) (AnalysisOutput, error)

	// AnalyzeWithOptions runs the pipeline selected by options
	AnalyzeWithOptions(ctx context.Context, img image.Image, options AnalysisOptions) (AnalysisOutput, error)

	// Lifecycle management
	Close() error
}

// MetricExtractor computes the per-image statistics of the initial analysis.
// All methods are pure; callers reject empty images beforehand.
type MetricExtractor interface {
	MeasureBlur(gray *image.Gray) float64
	IsBlurry(gray *image.Gray, threshold float64) bool
	MeasureBrightness(gray *image.Gray) float64
	MeasureContrast(gray *image.Gray) float64
	MeasureNoise(gray *image.Gray) float64
	CalculateSNR(gray *image.Gray) float64
	AssessOverallQuality(gray *image.Gray) float64
	DescribeResolution(width, height int) models.ResolutionMetrics
	Histogram(gray *image.Gray) [256]int
}

// SymmetryAnalyzer compares the mirrored halves of a face
type SymmetryAnalyzer interface {
	AnalyzeSymmetry(gray *image.Gray, face *models.FaceRegion) models.SymmetryReport
}

// LightingAssessor grades the lighting of an image
type LightingAssessor interface {
	AssessLighting(gray *image.Gray) models.LightingReport
}

// Enhancer produces a contrast-enhanced copy of an image
type Enhancer interface {
	Enhance(img image.Image) *image.RGBA
}

// FaceDetector locates faces and their landmarks. Implementations live
// outside this package so the metric core never depends on a backend.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]models.FaceRegion, error)
	DetectLandmarks(ctx context.Context, img image.Image, region models.FaceRegion) (map[string][]image.Point, error)
}
