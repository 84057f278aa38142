package report

import (
	"math"

	"go-face-inspector/pkg/models"
)

const (
	blurCeiling     = 500.0
	brightnessRange = 255.0
	contrastRange   = 127.0
)

// RadarCategories is the fixed axis order of the quality radar
var RadarCategories = []string{"Blur", "Quality", "Noise", "Brightness", "Contrast"}

// RadarValues rescales a report onto 0-100 axes in RadarCategories order.
// Blur is capped at 100; the other axes are plotted as computed.
func RadarValues(r models.MetricReport) []float64 {
	return []float64{
		math.Min(100, r.Blur.LaplacianVar/blurCeiling*100),
		r.Quality.OverallScore,
		r.Noise.NoiseLevel,
		r.Quality.Brightness / brightnessRange * 100,
		r.Quality.Contrast / contrastRange * 100,
	}
}
