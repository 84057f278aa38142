package analyzer

import (
	"image"
	"image/color"
	"testing"
)

func TestEqualizeCLAHE_UniformStaysUniform(t *testing.T) {
	for _, size := range []image.Point{{64, 64}, {30, 20}, {3, 5}} {
		out := EqualizeCLAHE(uniformGray(size.X, size.Y, 100), 3.0, 8)

		if out.Bounds().Dx() != size.X || out.Bounds().Dy() != size.Y {
			t.Fatalf("Expected %v output, got %v", size, out.Bounds())
		}
		first := out.Pix[0]
		for i, v := range out.Pix {
			if v != first {
				t.Fatalf("size %v: pixel %d is %d, expected uniform %d", size, i, v, first)
			}
		}
	}
}

func TestEqualizeCLAHE_NonPositiveGridUsesDefault(t *testing.T) {
	for _, tiles := range []int{0, -3} {
		out := EqualizeCLAHE(uniformGray(16, 16, 100), 3.0, tiles)
		if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
			t.Fatalf("tiles %d: expected 16x16 output, got %v", tiles, out.Bounds())
		}
		for i, v := range out.Pix {
			if v != out.Pix[0] {
				t.Fatalf("tiles %d: pixel %d is %d, expected uniform %d", tiles, i, v, out.Pix[0])
			}
		}
	}
}

func TestEqualizeCLAHE_StretchesLowContrast(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(100 + (x+y)%10)})
		}
	}

	calc := NewMetricsCalculator()
	before := calc.MeasureContrast(gray)
	after := calc.MeasureContrast(EqualizeCLAHE(gray, 3.0, 8))
	if after <= before {
		t.Errorf("Expected contrast to increase, got %f -> %f", before, after)
	}
}

func TestClipHistogramConservesCount(t *testing.T) {
	var hist [histBins]int
	hist[10] = 500
	hist[200] = 300
	hist[201] = 7

	clipHistogram(&hist, 20)

	total := 0
	for _, v := range hist {
		total += v
	}
	if total != 807 {
		t.Errorf("Expected 807 samples after clipping, got %d", total)
	}
	if hist[10] > 20+807/histBins+1 {
		t.Errorf("Expected bin 10 to be clipped, got %d", hist[10])
	}
}

func TestEnhance_PreservesInputAndSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 33, 17))
	for y := 0; y < 17; y++ {
		for x := 0; x < 33; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 11), 90, 255})
		}
	}
	snapshot := append([]uint8(nil), img.Pix...)

	out := NewCLAHEEnhancer(3.0, 8).Enhance(img)

	if out.Bounds() != image.Rect(0, 0, 33, 17) {
		t.Errorf("Expected same dimensions, got %v", out.Bounds())
	}
	for i := range snapshot {
		if snapshot[i] != img.Pix[i] {
			t.Fatal("Enhance modified its input")
		}
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0xff {
			t.Fatal("Expected opaque output")
		}
	}
}

func TestEnhance_GrayImageStaysNeutral(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 120, 120, 120, 255
	}

	out := NewCLAHEEnhancer(3.0, 8).Enhance(img)
	r, g, b := out.Pix[0], out.Pix[1], out.Pix[2]
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != r || out.Pix[i+1] != g || out.Pix[i+2] != b {
			t.Fatal("Expected uniform output for uniform input")
		}
	}
	if absDiff(r, g) > 1 || absDiff(g, b) > 1 {
		t.Errorf("Expected neutral gray, got (%d, %d, %d)", r, g, b)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
