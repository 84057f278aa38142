package validation

import (
	"go-face-inspector/pkg/models"
)

// Issue severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// QualityThresholds defines configurable thresholds for quality validation
type QualityThresholds struct {
	// Sharpness thresholds
	MinLaplacianVariance float64
	MaxLaplacianVariance float64

	// Lighting thresholds
	MinBrightness float64
	MaxBrightness float64
	MinContrast   float64

	// Face thresholds
	MinSymmetry float64

	// Resolution thresholds
	MinWidth       int
	MinHeight      int
	MinTotalPixels int
}

// DefaultQualityThresholds returns the default quality thresholds
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MinLaplacianVariance: 100.0,
		MaxLaplacianVariance: 2000.0, // above this the image is mostly sensor noise or oversharpening
		MinBrightness:        40.0,
		MaxBrightness:        220.0,
		MinContrast:          40.0,
		MinSymmetry:          0.75,
		MinWidth:             200,
		MinHeight:            200,
		MinTotalPixels:       40000,
	}
}

// QualityValidator handles image quality validation logic
type QualityValidator struct {
	thresholds QualityThresholds
}

// NewQualityValidator creates a new quality validator with default thresholds
func NewQualityValidator() *QualityValidator {
	return &QualityValidator{
		thresholds: DefaultQualityThresholds(),
	}
}

// NewQualityValidatorWithThresholds creates a quality validator with custom thresholds
func NewQualityValidatorWithThresholds(thresholds QualityThresholds) *QualityValidator {
	return &QualityValidator{
		thresholds: thresholds,
	}
}

// ValidateBasicQuality checks the initial metric report. width and height
// are the dimensions of the image as uploaded.
func (qv *QualityValidator) ValidateBasicQuality(report models.MetricReport, width, height int) []models.QualityIssue {
	var issues []models.QualityIssue

	// 1. Blurriness
	if report.Blur.LaplacianVar < qv.thresholds.MinLaplacianVariance {
		issues = append(issues, models.QualityIssue{
			Type:        "blurriness",
			Message:     "Image is blurry. Hold the camera steady and make sure the face is in focus.",
			Severity:    SeverityError,
			ActualValue: report.Blur.LaplacianVar,
			Threshold:   qv.thresholds.MinLaplacianVariance,
		})
	} else if report.Blur.LaplacianVar >= qv.thresholds.MaxLaplacianVariance {
		issues = append(issues, models.QualityIssue{
			Type:        "over_sharpening",
			Message:     "Image has too much noise or artificial sharpening. Use natural lighting and avoid digital zoom.",
			Severity:    SeverityWarning,
			ActualValue: report.Blur.LaplacianVar,
			Threshold:   qv.thresholds.MaxLaplacianVariance,
		})
	}

	// 2. Brightness
	if report.Quality.Brightness < qv.thresholds.MinBrightness {
		issues = append(issues, models.QualityIssue{
			Type:        "too_dark",
			Message:     "Image is too dark. Take the photo in more light.",
			Severity:    SeverityError,
			ActualValue: report.Quality.Brightness,
			Threshold:   qv.thresholds.MinBrightness,
		})
	} else if report.Quality.Brightness > qv.thresholds.MaxBrightness {
		issues = append(issues, models.QualityIssue{
			Type:        "too_bright",
			Message:     "Image is too bright. Avoid strong sunlight or flash.",
			Severity:    SeverityError,
			ActualValue: report.Quality.Brightness,
			Threshold:   qv.thresholds.MaxBrightness,
		})
	}

	// 3. Contrast
	if report.Quality.Contrast < qv.thresholds.MinContrast {
		issues = append(issues, models.QualityIssue{
			Type:        "low_contrast",
			Message:     "Image looks flat. Use directional light so facial features stand out.",
			Severity:    SeverityWarning,
			ActualValue: report.Quality.Contrast,
			Threshold:   qv.thresholds.MinContrast,
		})
	}

	// 4. Resolution
	totalPixels := width * height
	if totalPixels < qv.thresholds.MinTotalPixels ||
		width < qv.thresholds.MinWidth ||
		height < qv.thresholds.MinHeight {
		issues = append(issues, models.QualityIssue{
			Type:        "low_resolution",
			Message:     "Image is too small. Move closer or use a higher resolution camera.",
			Severity:    SeverityError,
			ActualValue: float64(totalPixels),
			Threshold:   float64(qv.thresholds.MinTotalPixels),
		})
	}

	return issues
}

// ValidateDetailedQuality adds face-specific checks to the basic validation
func (qv *QualityValidator) ValidateDetailedQuality(report models.MetricReport, extended *models.ExtendedAnalysis, width, height int) []models.QualityIssue {
	issues := qv.ValidateBasicQuality(report, width, height)
	if extended == nil {
		return issues
	}

	if extended.FaceDetails.FacesFound == 0 {
		issues = append(issues, models.QualityIssue{
			Type:     "no_face_detected",
			Message:  "No face was found. Face the camera directly and keep the whole face in frame.",
			Severity: SeverityError,
		})
		return issues
	}

	if extended.FaceDetails.FacesFound > 1 {
		issues = append(issues, models.QualityIssue{
			Type:        "multiple_faces",
			Message:     "More than one face was found. Only the first face was used for symmetry.",
			Severity:    SeverityInfo,
			ActualValue: float64(extended.FaceDetails.FacesFound),
			Threshold:   1,
		})
	}

	if extended.Symmetry.Face != nil && !extended.Symmetry.IsSymmetric {
		issues = append(issues, models.QualityIssue{
			Type:        "asymmetric_face",
			Message:     "Face appears turned or unevenly lit. Look straight at the camera.",
			Severity:    SeverityWarning,
			ActualValue: extended.Symmetry.Score,
			Threshold:   qv.thresholds.MinSymmetry,
		})
	}

	return issues
}

// ConvertIssuesToMessages converts quality issues to simple error messages
func (qv *QualityValidator) ConvertIssuesToMessages(issues []models.QualityIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func (qv *QualityValidator) HasCriticalIssues(issues []models.QualityIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
