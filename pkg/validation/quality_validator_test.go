package validation

import (
	"testing"

	"go-face-inspector/pkg/models"
)

func goodReport() models.MetricReport {
	return models.MetricReport{
		Blur:    models.BlurMetrics{LaplacianVar: 450},
		Quality: models.QualityMetrics{Brightness: 130, Contrast: 55},
	}
}

func issueTypes(issues []models.QualityIssue) map[string]bool {
	types := map[string]bool{}
	for _, issue := range issues {
		types[issue.Type] = true
	}
	return types
}

func TestNewQualityValidator(t *testing.T) {
	validator := NewQualityValidator()
	if validator == nil {
		t.Fatal("Expected non-nil quality validator")
	}

	expected := DefaultQualityThresholds().MinLaplacianVariance
	if validator.thresholds.MinLaplacianVariance != expected {
		t.Errorf("Expected MinLaplacianVariance to be %f, got %f", expected, validator.thresholds.MinLaplacianVariance)
	}
}

func TestNewQualityValidatorWithThresholds(t *testing.T) {
	validator := NewQualityValidatorWithThresholds(QualityThresholds{MinLaplacianVariance: 500.0})
	if validator.thresholds.MinLaplacianVariance != 500.0 {
		t.Errorf("Expected custom MinLaplacianVariance to be 500.0, got %f", validator.thresholds.MinLaplacianVariance)
	}
}

func TestValidateBasicQuality_HighQuality(t *testing.T) {
	validator := NewQualityValidator()

	issues := validator.ValidateBasicQuality(goodReport(), 800, 600)
	if len(issues) > 0 {
		t.Errorf("Expected no quality issues for high-quality image, got: %v", issues)
	}
	if validator.HasCriticalIssues(issues) {
		t.Error("Expected no critical issues")
	}
}

func TestValidateBasicQuality_Problems(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*models.MetricReport)
		width  int
		height int
		want   string
	}{
		{"blurry", func(r *models.MetricReport) { r.Blur.LaplacianVar = 20 }, 800, 600, "blurriness"},
		{"noisy", func(r *models.MetricReport) { r.Blur.LaplacianVar = 5000 }, 800, 600, "over_sharpening"},
		{"dark", func(r *models.MetricReport) { r.Quality.Brightness = 12 }, 800, 600, "too_dark"},
		{"bright", func(r *models.MetricReport) { r.Quality.Brightness = 240 }, 800, 600, "too_bright"},
		{"flat", func(r *models.MetricReport) { r.Quality.Contrast = 10 }, 800, 600, "low_contrast"},
		{"small", func(r *models.MetricReport) {}, 120, 160, "low_resolution"},
	}

	validator := NewQualityValidator()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := goodReport()
			tc.mutate(&report)

			issues := validator.ValidateBasicQuality(report, tc.width, tc.height)
			if !issueTypes(issues)[tc.want] {
				t.Errorf("Expected %s issue, got %v", tc.want, issues)
			}
		})
	}
}

func TestValidateDetailedQuality_NoFace(t *testing.T) {
	validator := NewQualityValidator()

	issues := validator.ValidateDetailedQuality(goodReport(), &models.ExtendedAnalysis{}, 800, 600)
	types := issueTypes(issues)
	if !types["no_face_detected"] {
		t.Errorf("Expected no_face_detected, got %v", issues)
	}
	if types["asymmetric_face"] {
		t.Error("Symmetry must not be judged without a face")
	}
	if !validator.HasCriticalIssues(issues) {
		t.Error("Expected missing face to be critical")
	}
}

func TestValidateDetailedQuality_AsymmetricFace(t *testing.T) {
	validator := NewQualityValidator()
	extended := &models.ExtendedAnalysis{
		FaceDetails: models.FaceDetails{FacesFound: 2},
		Symmetry:    models.SymmetryReport{Score: 0.4, Face: &models.Box{Width: 100, Height: 100}},
	}

	types := issueTypes(validator.ValidateDetailedQuality(goodReport(), extended, 800, 600))
	if !types["asymmetric_face"] || !types["multiple_faces"] {
		t.Errorf("Expected asymmetric_face and multiple_faces, got %v", types)
	}
}

func TestConvertIssuesToMessages(t *testing.T) {
	validator := NewQualityValidator()
	issues := []models.QualityIssue{{Message: "a"}, {Message: "b"}}

	messages := validator.ConvertIssuesToMessages(issues)
	if len(messages) != 2 || messages[0] != "a" || messages[1] != "b" {
		t.Errorf("Unexpected messages %v", messages)
	}
}
