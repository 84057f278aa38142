package detector

import (
	"context"
	"fmt"
	"image"
	"os"

	"go-face-inspector/pkg/models"

	pigo "github.com/esimov/pigo/core"
)

// PigoOptions tunes the cascade scan
type PigoOptions struct {
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64
	// MinQuality drops detections scoring at or below this value
	MinQuality float32
	// PupilPerturbs is the number of perturbations used per eye search
	PupilPerturbs int
}

// DefaultPigoOptions returns the scan settings used for portrait photos
func DefaultPigoOptions() PigoOptions {
	return PigoOptions{
		MinSize:       20,
		MaxSize:       1000,
		ShiftFactor:   0.1,
		ScaleFactor:   1.1,
		IoUThreshold:  0.2,
		MinQuality:    5.0,
		PupilPerturbs: 50,
	}
}

// PigoDetector finds faces with a pixel-intensity-comparison cascade and,
// when a pupil cascade is loaded, locates the eyes inside each face.
type PigoDetector struct {
	classifier *pigo.Pigo
	pupils     *pigo.PuplocCascade
	opts       PigoOptions
}

// NewPigoDetector unpacks the face cascade and the optional pupil cascade
func NewPigoDetector(faceCascade, pupilCascade []byte, opts PigoOptions) (*PigoDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(faceCascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking face cascade: %w", err)
	}

	d := &PigoDetector{classifier: classifier, opts: opts}
	if len(pupilCascade) > 0 {
		plc, err := pigo.NewPuplocCascade().UnpackCascade(pupilCascade)
		if err != nil {
			return nil, fmt.Errorf("error unpacking pupil cascade: %w", err)
		}
		d.pupils = plc
	}
	return d, nil
}

// NewPigoDetectorFromFiles reads cascades from disk. pupilPath may be empty.
func NewPigoDetectorFromFiles(facePath, pupilPath string, opts PigoOptions) (*PigoDetector, error) {
	faceCascade, err := os.ReadFile(facePath)
	if err != nil {
		return nil, fmt.Errorf("error reading face cascade %s: %w", facePath, err)
	}

	var pupilCascade []byte
	if pupilPath != "" {
		if pupilCascade, err = os.ReadFile(pupilPath); err != nil {
			return nil, fmt.Errorf("error reading pupil cascade %s: %w", pupilPath, err)
		}
	}
	return NewPigoDetector(faceCascade, pupilCascade, opts)
}

// DetectFaces returns clustered detections scoring above MinQuality in
// cascade order.
func (d *PigoDetector) DetectFaces(ctx context.Context, img image.Image) ([]models.FaceRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, offset := imageParams(img)
	dets := d.classifier.RunCascade(pigo.CascadeParams{
		MinSize:     d.opts.MinSize,
		MaxSize:     d.opts.MaxSize,
		ShiftFactor: d.opts.ShiftFactor,
		ScaleFactor: d.opts.ScaleFactor,
		ImageParams: params,
	}, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.opts.IoUThreshold)

	var regions []models.FaceRegion
	for _, det := range dets {
		if det.Q <= d.opts.MinQuality {
			continue
		}
		half := det.Scale / 2
		regions = append(regions, models.FaceRegion{
			Bounds:     image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half).Add(offset),
			Confidence: float64(det.Q),
		})
	}
	return regions, nil
}

// DetectLandmarks locates the pupils of a face. Only eye landmarks are
// available from this backend; without a pupil cascade none are returned.
func (d *PigoDetector) DetectLandmarks(ctx context.Context, img image.Image, region models.FaceRegion) (map[string][]image.Point, error) {
	landmarks := map[string][]image.Point{}
	if d.pupils == nil {
		return landmarks, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, offset := imageParams(img)
	bounds := region.Bounds.Sub(offset)
	scale := float32(bounds.Dx())
	center := image.Pt((bounds.Min.X+bounds.Max.X)/2, (bounds.Min.Y+bounds.Max.Y)/2)

	search := func(name string, colShift float32) {
		eye := d.pupils.RunDetector(pigo.Puploc{
			Row:      center.Y - int(0.075*scale),
			Col:      center.X + int(colShift*scale),
			Scale:    scale * 0.25,
			Perturbs: d.opts.PupilPerturbs,
		}, params, 0.0, false)
		if eye != nil && eye.Row > 0 && eye.Col > 0 {
			landmarks[name] = []image.Point{image.Pt(eye.Col, eye.Row).Add(offset)}
		}
	}
	search(models.LandmarkLeftEye, -0.175)
	search(models.LandmarkRightEye, 0.185)
	return landmarks, nil
}

// imageParams converts img to the grayscale layout pigo scans. The returned
// offset maps cascade coordinates back to img coordinates.
func imageParams(img image.Image) (pigo.ImageParams, image.Point) {
	src := pigo.ImgToNRGBA(img)
	b := src.Bounds()
	return pigo.ImageParams{
		Pixels: pigo.RgbToGrayscale(src),
		Rows:   b.Dy(),
		Cols:   b.Dx(),
		Dim:    b.Dx(),
	}, img.Bounds().Min
}
