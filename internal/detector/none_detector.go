package detector

import (
	"context"
	"image"

	"go-face-inspector/pkg/models"
)

// NoneDetector never finds a face. Detailed analysis still runs with it;
// face-dependent sections report their "no face" results.
type NoneDetector struct{}

func (NoneDetector) DetectFaces(ctx context.Context, img image.Image) ([]models.FaceRegion, error) {
	return nil, ctx.Err()
}

func (NoneDetector) DetectLandmarks(ctx context.Context, img image.Image, region models.FaceRegion) (map[string][]image.Point, error) {
	return map[string][]image.Point{}, ctx.Err()
}
