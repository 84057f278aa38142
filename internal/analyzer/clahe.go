package analyzer

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const histBins = 256

type claheEnhancer struct {
	clipLimit float64
	tiles     int
}

// NewCLAHEEnhancer creates an enhancer applying contrast limited adaptive
// histogram equalization to the lightness channel in CIE LAB space.
func NewCLAHEEnhancer(clipLimit float64, tiles int) Enhancer {
	opts := DefaultOptions().WithCLAHE(clipLimit, tiles).normalized()
	return &claheEnhancer{clipLimit: opts.ClipLimit, tiles: opts.TileGrid}
}

// Enhance returns an equalized copy of img. Chroma is preserved.
func (ce *claheEnhancer) Enhance(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	lightness := image.NewGray(image.Rect(0, 0, w, h))
	as := make([]float64, w*h)
	bs := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _ := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			l, a, b := c.Lab()
			as[y*w+x], bs[y*w+x] = a, b
			lightness.Pix[y*lightness.Stride+x] = uint8(clamp(math.Round(l*255), 0, 255))
		}
	}

	equalized := EqualizeCLAHE(lightness, ce.clipLimit, ce.tiles)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := float64(equalized.Pix[y*equalized.Stride+x]) / 255
			r, g, b := colorful.Lab(l, as[y*w+x], bs[y*w+x]).Clamped().RGB255()
			i := out.PixOffset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, 0xff
		}
	}
	return out
}

// EqualizeCLAHE applies CLAHE to an 8-bit plane split into tiles x tiles
// regions. Images not divisible by the grid are padded with reflect-101
// borders for histogram collection only. A non-positive grid falls back to
// the default.
func EqualizeCLAHE(gray *image.Gray, clipLimit float64, tiles int) *image.Gray {
	if tiles <= 0 {
		tiles = DefaultOptions().TileGrid
	}
	src := planeFromGray(gray)
	w, h := src.w, src.h
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	ext := src
	if w%tiles != 0 || h%tiles != 0 {
		ext = padReflect(src, w+tiles-w%tiles, h+tiles-h%tiles)
	}
	tileW, tileH := ext.w/tiles, ext.h/tiles
	tileArea := tileW * tileH

	limit := 0
	if clipLimit > 0 {
		limit = int(clipLimit * float64(tileArea) / histBins)
		if limit < 1 {
			limit = 1
		}
	}
	lutScale := float64(histBins-1) / float64(tileArea)

	luts := make([][histBins]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			var hist [histBins]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[int(ext.at(x, y))]++
				}
			}
			if limit > 0 {
				clipHistogram(&hist, limit)
			}
			lut := &luts[ty*tiles+tx]
			sum := 0
			for i := range hist {
				sum += hist[i]
				lut[i] = uint8(clamp(math.RoundToEven(float64(sum)*lutScale), 0, 255))
			}
		}
	}

	invTW, invTH := 1/float64(tileW), 1/float64(tileH)
	for y := 0; y < h; y++ {
		tyf := float64(y)*invTH - 0.5
		ty1 := int(math.Floor(tyf))
		ty2 := ty1 + 1
		ya := tyf - float64(ty1)
		ya1 := 1 - ya
		ty1 = max(ty1, 0)
		ty2 = min(ty2, tiles-1)

		for x := 0; x < w; x++ {
			txf := float64(x)*invTW - 0.5
			tx1 := int(math.Floor(txf))
			tx2 := tx1 + 1
			xa := txf - float64(tx1)
			xa1 := 1 - xa
			tx1 = max(tx1, 0)
			tx2 = min(tx2, tiles-1)

			v := int(src.at(x, y))
			top := float64(luts[ty1*tiles+tx1][v])*xa1 + float64(luts[ty1*tiles+tx2][v])*xa
			bottom := float64(luts[ty2*tiles+tx1][v])*xa1 + float64(luts[ty2*tiles+tx2][v])*xa
			res := top*ya1 + bottom*ya
			dst.Pix[y*dst.Stride+x] = uint8(clamp(math.RoundToEven(res), 0, 255))
		}
	}
	return dst
}

// clipHistogram caps every bin at limit and spreads the excess evenly,
// handing the remainder out at a regular stride from bin 0.
func clipHistogram(hist *[histBins]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histBins
	residual := clipped - batch*histBins
	for i := range hist {
		hist[i] += batch
	}
	if residual != 0 {
		step := max(histBins/residual, 1)
		for i := 0; i < histBins && residual > 0; i, residual = i+step, residual-1 {
			hist[i]++
		}
	}
}

// padReflect extends p to w x h by mirroring its right and bottom edges
func padReflect(p plane, w, h int) plane {
	out := newPlane(w, h)
	for y := 0; y < h; y++ {
		sy := reflect101(y, p.h)
		for x := 0; x < w; x++ {
			out.data[y*w+x] = p.at(reflect101(x, p.w), sy)
		}
	}
	return out
}
