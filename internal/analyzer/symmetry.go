package analyzer

import (
	"image"

	"go-face-inspector/pkg/models"
)

const (
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
	ssimRange  = 255.0

	SymmetryGood = "Good"
	SymmetryPoor = "Poor"
)

type symmetryAnalyzer struct {
	threshold float64
}

// NewSymmetryAnalyzer creates a symmetry analyzer; halves scoring above
// threshold are reported as symmetric.
func NewSymmetryAnalyzer(threshold float64) SymmetryAnalyzer {
	if threshold <= 0 {
		threshold = DefaultOptions().SymmetryThreshold
	}
	return &symmetryAnalyzer{threshold: threshold}
}

// AnalyzeSymmetry compares the left half of the face with the mirrored
// right half. A nil face, or one too small for a 7x7 window, scores zero.
func (sa *symmetryAnalyzer) AnalyzeSymmetry(gray *image.Gray, face *models.FaceRegion) models.SymmetryReport {
	if face == nil {
		return models.SymmetryReport{}
	}

	rect := face.Bounds.Intersect(gray.Bounds())
	if rect.Empty() {
		return models.SymmetryReport{}
	}
	box := models.BoxFromRect(rect)

	left, right := splitHalves(planeFromGray(gray.SubImage(rect).(*image.Gray)))
	score, ok := structuralSimilarity(left, right)
	if !ok {
		return models.SymmetryReport{Face: &box}
	}

	report := models.SymmetryReport{
		Score:               score,
		SymmetryPercent:     score * 100,
		IsSymmetric:         score > sa.threshold,
		LeftRightDifference: (1 - score) * 100,
		Quality:             SymmetryPoor,
		Face:                &box,
	}
	if report.IsSymmetric {
		report.Quality = SymmetryGood
	}
	return report
}

// splitHalves drops the last column of an odd-width face, then returns the
// left half and the horizontally mirrored right half.
func splitHalves(face plane) (left, mirrored plane) {
	w := face.w
	if w%2 != 0 {
		w--
	}
	half := w / 2
	left = newPlane(half, face.h)
	mirrored = newPlane(half, face.h)
	for y := 0; y < face.h; y++ {
		for x := 0; x < half; x++ {
			left.data[y*half+x] = face.at(x, y)
			mirrored.data[y*half+x] = face.at(w-1-x, y)
		}
	}
	return left, mirrored
}

// structuralSimilarity computes mean SSIM over every 7x7 window that fits
// inside both planes, using uniform weights and sample covariance. It
// returns false when the planes are smaller than one window.
func structuralSimilarity(a, b plane) (float64, bool) {
	if a.w != b.w || a.h != b.h || a.w < ssimWindow || a.h < ssimWindow {
		return 0, false
	}

	sa, sb := newIntegral(a, b, 1), newIntegral(a, b, 2)
	saa, sbb, sab := newIntegral(a, b, 3), newIntegral(a, b, 4), newIntegral(a, b, 5)

	const n = ssimWindow * ssimWindow
	covNorm := float64(n) / float64(n-1)
	c1 := (ssimK1 * ssimRange) * (ssimK1 * ssimRange)
	c2 := (ssimK2 * ssimRange) * (ssimK2 * ssimRange)

	var total float64
	var windows int
	for y := 0; y+ssimWindow <= a.h; y++ {
		for x := 0; x+ssimWindow <= a.w; x++ {
			ux := sa.sum(x, y, ssimWindow) / n
			uy := sb.sum(x, y, ssimWindow) / n
			uxx := saa.sum(x, y, ssimWindow) / n
			uyy := sbb.sum(x, y, ssimWindow) / n
			uxy := sab.sum(x, y, ssimWindow) / n

			vx := covNorm * (uxx - ux*ux)
			vy := covNorm * (uyy - uy*uy)
			vxy := covNorm * (uxy - ux*uy)

			num := (2*ux*uy + c1) * (2*vxy + c2)
			den := (ux*ux + uy*uy + c1) * (vx + vy + c2)
			total += num / den
			windows++
		}
	}
	return total / float64(windows), true
}

// integral is a summed-area table with one row and column of zero padding
type integral struct {
	w    int
	data []float64
}

// newIntegral builds the summed-area table of a, b, a², b² or a·b
// selected by term 1 through 5.
func newIntegral(a, b plane, term int) integral {
	w := a.w + 1
	it := integral{w: w, data: make([]float64, w*(a.h+1))}
	for y := 0; y < a.h; y++ {
		var rowSum float64
		for x := 0; x < a.w; x++ {
			va, vb := a.at(x, y), b.at(x, y)
			var v float64
			switch term {
			case 1:
				v = va
			case 2:
				v = vb
			case 3:
				v = va * va
			case 4:
				v = vb * vb
			default:
				v = va * vb
			}
			rowSum += v
			it.data[(y+1)*w+x+1] = it.data[y*w+x+1] + rowSum
		}
	}
	return it
}

// sum returns the total over the size x size window with top-left (x, y)
func (it integral) sum(x, y, size int) float64 {
	x2, y2 := x+size, y+size
	return it.data[y2*it.w+x2] - it.data[y*it.w+x2] - it.data[y2*it.w+x] + it.data[y*it.w+x]
}
