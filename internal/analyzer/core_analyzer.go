package analyzer

import (
	"context"
	"fmt"
	"image"
	"io"

	"go-face-inspector/pkg/models"
)

// coreAnalyzer implements ImageAnalyzer interface and orchestrates all components
type coreAnalyzer struct {
	metrics  MetricExtractor
	lighting LightingAssessor
	detector FaceDetector
}

// NewImageAnalyzer creates a new image analyzer. A nil detector means no
// faces are ever found; the detailed pipeline still runs.
func NewImageAnalyzer(detector FaceDetector) (ImageAnalyzer, error) {
	metrics := NewMetricsCalculator()
	return &coreAnalyzer{
		metrics:  metrics,
		lighting: NewLightingAssessor(metrics),
		detector: detector,
	}, nil
}

// AnalyzeInitial computes the blur, quality, resolution and noise clusters
func (ca *coreAnalyzer) AnalyzeInitial(img image.Image) (AnalysisOutput, error) {
	return ca.AnalyzeWithOptions(context.Background(), img, DefaultOptions())
}

// AnalyzeWithOptions performs image analysis with flexible configuration.
// The input image is never modified.
func (ca *coreAnalyzer) AnalyzeWithOptions(ctx context.Context, img image.Image, options AnalysisOptions) (AnalysisOutput, error) {
	var out AnalysisOutput
	if img == nil || img.Bounds().Empty() {
		return out, ErrEmptyImage
	}
	options = options.normalized()

	gray := ToGray(img)
	out.Report = ca.initialReport(gray, options)
	out.Histogram = ca.metrics.Histogram(gray)

	if !options.Detailed {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	extended := &models.ExtendedAnalysis{
		BlurAssessment: AssessBlur(out.Report.Blur.LaplacianVar, options.BlurScoreThreshold),
	}

	var faces []models.FaceRegion
	if !options.SkipFaces {
		faces, out.Warnings = ca.detectFaces(ctx, img)
	}
	extended.FaceDetails = DescribeFeatures(faces)

	if !options.SkipLighting {
		extended.Lighting = ca.lighting.AssessLighting(gray)
	}

	if !options.SkipSymmetry {
		var first *models.FaceRegion
		if len(faces) > 0 {
			// Detector boxes use source coordinates; gray is rebased to the origin.
			face := faces[0]
			face.Bounds = face.Bounds.Sub(img.Bounds().Min)
			first = &face
		}
		extended.Symmetry = NewSymmetryAnalyzer(options.SymmetryThreshold).AnalyzeSymmetry(gray, first)
	}

	if !options.SkipEnhancement {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		enhanced := NewCLAHEEnhancer(options.ClipLimit, options.TileGrid).Enhance(img)
		extended.Enhancement = ca.compareEnhancement(out.Report.Blur.LaplacianVar, enhanced)
		if options.IncludeEnhancedImage {
			out.Enhanced = enhanced
		}
	}

	out.Extended = extended
	return out, nil
}

func (ca *coreAnalyzer) initialReport(gray *image.Gray, options AnalysisOptions) models.MetricReport {
	b := gray.Bounds()
	variance := ca.metrics.MeasureBlur(gray)
	mean := ca.metrics.MeasureBrightness(gray)
	contrast := ca.metrics.MeasureContrast(gray)

	return models.MetricReport{
		Blur: models.BlurMetrics{
			LaplacianVar: variance,
			IsBlurry:     variance < options.BlurThreshold,
			Score:        BlurDisplayScore(variance),
		},
		Quality: models.QualityMetrics{
			OverallScore: OverallQuality(contrast, mean, variance),
			Contrast:     contrast,
			Brightness:   mean,
		},
		Resolution: ca.metrics.DescribeResolution(b.Dx(), b.Dy()),
		Noise: models.NoiseMetrics{
			NoiseLevel:    ca.metrics.MeasureNoise(gray),
			SignalToNoise: models.Decibels(ca.metrics.CalculateSNR(gray)),
		},
	}
}

// detectFaces runs the detector and landmark pass. Failures degrade to
// "no face" with a warning rather than failing the analysis.
func (ca *coreAnalyzer) detectFaces(ctx context.Context, img image.Image) ([]models.FaceRegion, []string) {
	if ca.detector == nil {
		return nil, nil
	}

	faces, err := ca.detector.DetectFaces(ctx, img)
	if err != nil {
		return nil, []string{fmt.Sprintf("face detection failed: %v", err)}
	}

	var warnings []string
	for i := range faces {
		if faces[i].Landmarks != nil {
			continue
		}
		landmarks, err := ca.detector.DetectLandmarks(ctx, img, faces[i])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("landmark detection failed for face %d: %v", i, err))
			continue
		}
		faces[i].Landmarks = landmarks
	}
	return faces, warnings
}

// compareEnhancement reports sharpness before and after enhancement. The
// improvement is undefined, and reported as zero, when the original is flat.
func (ca *coreAnalyzer) compareEnhancement(original float64, enhanced image.Image) *models.EnhancementReport {
	after := ca.metrics.MeasureBlur(ToGray(enhanced))
	report := &models.EnhancementReport{
		OriginalQuality: original,
		EnhancedQuality: after,
	}
	if original != 0 {
		report.ImprovementPercentage = (after - original) / original * 100
		report.ImprovementDefined = true
	}
	return report
}

// Close releases the detector if it holds resources
func (ca *coreAnalyzer) Close() error {
	if closer, ok := ca.detector.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
