package analyzer

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"go-face-inspector/pkg/models"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultBlurThreshold is the Laplacian variance below which an image is blurry
	DefaultBlurThreshold = 100.0
	// sharpnessCeiling maps Laplacian variance onto the 0-100 display scale
	sharpnessCeiling = 500.0
	// contrastCeiling is the practical maximum std-dev of 8-bit intensities
	contrastCeiling = 127.0
	maxIntensity    = 255.0

	contrastWeight   = 0.4
	brightnessWeight = 0.3
	sharpnessWeight  = 0.3
)

// metricsCalculator implements MetricExtractor with gonum statistics
type metricsCalculator struct {
	slicePool sync.Pool
}

// NewMetricsCalculator creates a new metrics calculator using Gonum
func NewMetricsCalculator() MetricExtractor {
	return &metricsCalculator{
		slicePool: sync.Pool{
			New: func() interface{} {
				s := make([]float64, 0, 1024)
				return &s
			},
		},
	}
}

// ToGray converts any image into an 8-bit grayscale copy with origin (0, 0).
// The source image is not modified.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// MeasureBlur returns the variance of the Laplacian response.
// Higher variance means a sharper image; a uniform image yields 0.
func (mc *metricsCalculator) MeasureBlur(gray *image.Gray) float64 {
	buf := mc.slicePool.Get().(*[]float64)
	defer mc.slicePool.Put(buf)

	data := laplacian(planeFromGray(gray), (*buf)[:0])
	*buf = data
	if len(data) == 0 {
		return 0
	}
	return stat.PopVariance(data, nil)
}

// IsBlurry reports whether the Laplacian variance is under threshold
func (mc *metricsCalculator) IsBlurry(gray *image.Gray, threshold float64) bool {
	return mc.MeasureBlur(gray) < threshold
}

// MeasureBrightness returns the mean gray intensity in [0, 255]
func (mc *metricsCalculator) MeasureBrightness(gray *image.Gray) float64 {
	mean, _ := mc.meanStdDev(gray)
	return mean
}

// MeasureContrast returns the population standard deviation of gray intensity
func (mc *metricsCalculator) MeasureContrast(gray *image.Gray) float64 {
	_, std := mc.meanStdDev(gray)
	return std
}

// MeasureNoise rescales the intensity standard deviation onto 0-100.
// This is the same statistic as MeasureContrast, not a dedicated noise
// estimator; the duplication is known and intentionally left as is.
func (mc *metricsCalculator) MeasureNoise(gray *image.Gray) float64 {
	_, std := mc.meanStdDev(gray)
	return round2(std / maxIntensity * 100)
}

// CalculateSNR returns 20*log10(mean/std) in decibels, or +Inf when the
// standard deviation is exactly zero.
func (mc *metricsCalculator) CalculateSNR(gray *image.Gray) float64 {
	mean, std := mc.meanStdDev(gray)
	if std == 0 {
		return math.Inf(1)
	}
	return round2(20 * math.Log10(mean/std))
}

// AssessOverallQuality combines contrast, brightness and sharpness into a
// 0-100 score with fixed weights.
func (mc *metricsCalculator) AssessOverallQuality(gray *image.Gray) float64 {
	mean, std := mc.meanStdDev(gray)
	sharpness := mc.MeasureBlur(gray)
	return OverallQuality(std, mean, sharpness)
}

// OverallQuality is the weighted quality formula, rounded and clamped to [0, 100]
func OverallQuality(contrast, brightness, sharpness float64) float64 {
	score := (contrast/contrastCeiling*contrastWeight +
		brightness/maxIntensity*brightnessWeight +
		math.Min(sharpness/sharpnessCeiling, 1.0)*sharpnessWeight) * 100
	return clamp(round2(score), 0, 100)
}

// BlurDisplayScore rescales Laplacian variance onto the 0-100 display range
func BlurDisplayScore(variance float64) float64 {
	return clamp(variance/sharpnessCeiling*100, 0, 100)
}

// DescribeResolution derives the resolution cluster from image dimensions
func (mc *metricsCalculator) DescribeResolution(width, height int) models.ResolutionMetrics {
	res := models.ResolutionMetrics{
		Dimensions: fmt.Sprintf("%dx%d", width, height),
		Megapixels: round2(float64(width*height) / 1e6),
	}
	if height > 0 {
		res.AspectRatio = round2(float64(width) / float64(height))
	}
	return res
}

// Histogram counts gray intensities into 256 bins
func (mc *metricsCalculator) Histogram(gray *image.Gray) [256]int {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, y):gray.PixOffset(b.Max.X, y)]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

func (mc *metricsCalculator) meanStdDev(gray *image.Gray) (mean, std float64) {
	buf := mc.slicePool.Get().(*[]float64)
	defer mc.slicePool.Put(buf)

	data := (*buf)[:0]
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, y):gray.PixOffset(b.Max.X, y)]
		for _, v := range row {
			data = append(data, float64(v))
		}
	}
	*buf = data
	if len(data) == 0 {
		return 0, 0
	}
	return stat.Mean(data, nil), stat.PopStdDev(data, nil)
}

// laplacian applies the 4-neighbour kernel [0 1 0; 1 -4 1; 0 1 0] to every
// pixel of p using reflect-101 borders, appending responses to dst.
func laplacian(p plane, dst []float64) []float64 {
	for y := 0; y < p.h; y++ {
		up := reflect101(y-1, p.h)
		down := reflect101(y+1, p.h)
		for x := 0; x < p.w; x++ {
			left := reflect101(x-1, p.w)
			right := reflect101(x+1, p.w)
			v := p.at(x, up) + p.at(x, down) + p.at(left, y) + p.at(right, y) - 4*p.at(x, y)
			dst = append(dst, v)
		}
	}
	return dst
}

func round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
