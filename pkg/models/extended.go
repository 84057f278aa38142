package models

import "image"

// ExtendedAnalysis carries the detailed-mode results
type ExtendedAnalysis struct {
	BlurAssessment BlurAssessment     `json:"blur_score"`
	FaceDetails    FaceDetails        `json:"face_details"`
	Lighting       LightingReport     `json:"lighting_quality"`
	Symmetry       SymmetryReport     `json:"face_symmetry"`
	Enhancement    *EnhancementReport `json:"image_enhancement,omitempty"`
}

// BlurAssessment is the normalized blur verdict shown to the user
type BlurAssessment struct {
	Score          float64 `json:"score"`
	IsBlurry       bool    `json:"is_blurry"`
	Recommendation string  `json:"recommendation"`
}

type FaceDetails struct {
	FacesFound int            `json:"faces_found"`
	Details    []FaceFeatures `json:"details"`
}

// FaceFeatures summarises which landmark groups were located for one face
type FaceFeatures struct {
	Box           Box  `json:"box"`
	EyesDetected  bool `json:"eyes_detected"`
	NoseDetected  bool `json:"nose_detected"`
	MouthDetected bool `json:"mouth_detected"`
	FeatureCount  int  `json:"feature_count"`
}

type LightingReport struct {
	MeanBrightness  float64  `json:"mean_brightness"`
	Contrast        float64  `json:"contrast"`
	Uniformity      float64  `json:"uniformity"`
	Quality         string   `json:"lighting_quality"`
	Recommendations []string `json:"recommendations"`
}

type SymmetryReport struct {
	// Score is the raw structural similarity between the face halves
	Score               float64 `json:"score"`
	SymmetryPercent     float64 `json:"symmetry_score"`
	IsSymmetric         bool    `json:"is_symmetric"`
	LeftRightDifference float64 `json:"left_right_difference"`
	Quality             string  `json:"symmetry_quality,omitempty"`
	Face                *Box    `json:"face,omitempty"`
}

type EnhancementReport struct {
	OriginalQuality       float64 `json:"original_quality"`
	EnhancedQuality       float64 `json:"enhanced_quality"`
	ImprovementPercentage float64 `json:"improvement_percentage"`
	// ImprovementDefined is false when the original sharpness was zero
	ImprovementDefined bool   `json:"improvement_defined"`
	EnhancedImagePNG   string `json:"enhanced_image_png,omitempty"`
}

// Box is a face bounding rectangle in image coordinates
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxFromRect converts an image rectangle into a Box
func BoxFromRect(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the Box as an image rectangle
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}
