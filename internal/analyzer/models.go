package analyzer

import (
	"errors"
	"image"

	"go-face-inspector/pkg/models"
)

// ErrEmptyImage is returned for images with no pixels
var ErrEmptyImage = errors.New("image is empty")

// AnalysisOutput is what one pass of the pipeline produces
type AnalysisOutput struct {
	Report    models.MetricReport
	Extended  *models.ExtendedAnalysis
	Histogram [256]int
	// Enhanced is the CLAHE output when enhancement ran
	Enhanced image.Image
	// Warnings holds non-fatal stage failures such as detector errors
	Warnings []string
}

// plane is a float64 copy of a grayscale region with origin at (0, 0)
type plane struct {
	w, h int
	data []float64
}

func newPlane(w, h int) plane {
	return plane{w: w, h: h, data: make([]float64, w*h)}
}

// planeFromGray copies gray (respecting its bounds) into a plane
func planeFromGray(gray *image.Gray) plane {
	b := gray.Bounds()
	p := newPlane(b.Dx(), b.Dy())
	for y := 0; y < p.h; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < p.w; x++ {
			p.data[y*p.w+x] = float64(row[x])
		}
	}
	return p
}

func (p plane) at(x, y int) float64 {
	return p.data[y*p.w+x]
}

// reflect101 maps an out-of-range index back into [0, n) mirroring around
// the edge pixels without repeating them (OpenCV BORDER_REFLECT_101)
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
