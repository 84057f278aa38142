package models

import "image"

// Landmark group names produced by face detectors
const (
	LandmarkLeftEye    = "left_eye"
	LandmarkRightEye   = "right_eye"
	LandmarkNoseBridge = "nose_bridge"
	LandmarkTopLip     = "top_lip"
	LandmarkBottomLip  = "bottom_lip"
)

// FaceRegion is a located face handed to the analyzer by a detector.
// The analyzer never constructs these itself.
type FaceRegion struct {
	Bounds     image.Rectangle
	Landmarks  map[string][]image.Point
	Confidence float64
}

// HasLandmark reports whether a non-empty landmark group is present
func (f FaceRegion) HasLandmark(name string) bool {
	return len(f.Landmarks[name]) > 0
}
