package analyzer

import (
	"image"

	"go-face-inspector/pkg/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	minBrightness       = 40.0
	maxBrightness       = 220.0
	minLightingContrast = 40.0

	LightingGood = "Good"
	LightingPoor = "Poor"

	RecIncreaseLighting = "Increase lighting in the environment"
	RecReduceExposure   = "Reduce exposure or ambient lighting"
	RecImproveContrast  = "Improve lighting contrast"
	RecLightingOptimal  = "Lighting conditions are optimal"
)

type lightingAssessor struct {
	metrics MetricExtractor
}

// NewLightingAssessor creates a lighting assessor backed by the metric extractor histogram
func NewLightingAssessor(metrics MetricExtractor) LightingAssessor {
	return &lightingAssessor{metrics: metrics}
}

// AssessLighting grades brightness and contrast and reports histogram uniformity
func (la *lightingAssessor) AssessLighting(gray *image.Gray) models.LightingReport {
	hist := la.metrics.Histogram(gray)

	levels := make([]float64, 256)
	weights := make([]float64, 256)
	for i, count := range hist {
		levels[i] = float64(i)
		weights[i] = float64(count)
	}

	total := floats.Sum(weights)
	if total == 0 {
		return models.LightingReport{
			Quality:         LightingPoor,
			Recommendations: lightingRecommendations(0, 0),
		}
	}

	mean := stat.Mean(levels, weights)
	contrast := stat.PopStdDev(levels, weights)

	probs := make([]float64, 256)
	floats.ScaleTo(probs, 1/total, weights)
	uniformity := floats.Dot(probs, probs)

	quality := LightingPoor
	if mean > minBrightness && mean < maxBrightness && contrast > minLightingContrast {
		quality = LightingGood
	}

	return models.LightingReport{
		MeanBrightness:  mean,
		Contrast:        contrast,
		Uniformity:      uniformity,
		Quality:         quality,
		Recommendations: lightingRecommendations(mean, contrast),
	}
}

// lightingRecommendations uses strict comparisons, so brightness of exactly
// 40 or 220 yields no brightness advice while still grading Poor.
func lightingRecommendations(brightness, contrast float64) []string {
	var recs []string
	switch {
	case brightness < minBrightness:
		recs = append(recs, RecIncreaseLighting)
	case brightness > maxBrightness:
		recs = append(recs, RecReduceExposure)
	}
	if contrast < minLightingContrast {
		recs = append(recs, RecImproveContrast)
	}
	if len(recs) == 0 {
		return []string{RecLightingOptimal}
	}
	return recs
}
