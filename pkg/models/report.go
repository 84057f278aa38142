package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// MetricReport groups the initial analysis metrics into four clusters
type MetricReport struct {
	Blur       BlurMetrics       `json:"blur_metrics"`
	Quality    QualityMetrics    `json:"quality_metrics"`
	Resolution ResolutionMetrics `json:"resolution_metrics"`
	Noise      NoiseMetrics      `json:"noise_metrics"`
}

type BlurMetrics struct {
	LaplacianVar float64 `json:"laplacian_var"`
	IsBlurry     bool    `json:"is_blurry"`
	// Score is the 0-100 display rescaling of LaplacianVar
	Score float64 `json:"score"`
}

type QualityMetrics struct {
	OverallScore float64 `json:"overall_score"`
	Contrast     float64 `json:"contrast"`
	Brightness   float64 `json:"brightness"`
}

type ResolutionMetrics struct {
	Dimensions  string  `json:"dimensions"`
	Megapixels  float64 `json:"megapixels"`
	AspectRatio float64 `json:"aspect_ratio"`
}

type NoiseMetrics struct {
	NoiseLevel    float64  `json:"noise_level"`
	SignalToNoise Decibels `json:"signal_to_noise"`
}

// Flatten returns the report as a flat metric-name to value mapping
func (r MetricReport) Flatten() map[string]interface{} {
	return map[string]interface{}{
		"blur.laplacian_var":      r.Blur.LaplacianVar,
		"blur.is_blurry":          r.Blur.IsBlurry,
		"blur.score":              r.Blur.Score,
		"quality.overall_score":   r.Quality.OverallScore,
		"quality.contrast":        r.Quality.Contrast,
		"quality.brightness":      r.Quality.Brightness,
		"resolution.dimensions":   r.Resolution.Dimensions,
		"resolution.megapixels":   r.Resolution.Megapixels,
		"resolution.aspect_ratio": r.Resolution.AspectRatio,
		"noise.noise_level":       r.Noise.NoiseLevel,
		"noise.signal_to_noise":   r.Noise.SignalToNoise,
	}
}

// Decibels is a signal-to-noise value that may be +Inf for constant images.
// JSON has no infinity, so +Inf/-Inf encode as "inf"/"-inf" and NaN as null.
type Decibels float64

func (d Decibels) IsInf() bool {
	return math.IsInf(float64(d), 0)
}

func (d Decibels) String() string {
	f := float64(d)
	switch {
	case math.IsInf(f, 1):
		return "∞ dB"
	case math.IsInf(f, -1):
		return "-∞ dB"
	case math.IsNaN(f):
		return "n/a"
	}
	return fmt.Sprintf("%.1f dB", f)
}

func (d Decibels) MarshalJSON() ([]byte, error) {
	f := float64(d)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(f):
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (d *Decibels) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte(`"inf"`)):
		*d = Decibels(math.Inf(1))
		return nil
	case bytes.Equal(data, []byte(`"-inf"`)):
		*d = Decibels(math.Inf(-1))
		return nil
	case bytes.Equal(data, []byte("null")):
		*d = Decibels(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decibels: %w", err)
	}
	*d = Decibels(f)
	return nil
}
