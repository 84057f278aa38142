package analyzer

import (
	"go-face-inspector/pkg/models"
)

// DescribeFeatures summarises the landmark groups located for each face
func DescribeFeatures(regions []models.FaceRegion) models.FaceDetails {
	details := models.FaceDetails{FacesFound: len(regions)}
	if len(regions) == 0 {
		return details
	}

	details.Details = make([]models.FaceFeatures, 0, len(regions))
	for _, region := range regions {
		details.Details = append(details.Details, models.FaceFeatures{
			Box:           models.BoxFromRect(region.Bounds),
			EyesDetected:  region.HasLandmark(models.LandmarkLeftEye) && region.HasLandmark(models.LandmarkRightEye),
			NoseDetected:  region.HasLandmark(models.LandmarkNoseBridge),
			MouthDetected: region.HasLandmark(models.LandmarkTopLip) && region.HasLandmark(models.LandmarkBottomLip),
			FeatureCount:  len(region.Landmarks),
		})
	}
	return details
}

// AssessBlur turns a Laplacian variance into the user-facing blur verdict
func AssessBlur(variance, scoreThreshold float64) models.BlurAssessment {
	score := BlurDisplayScore(variance)
	assessment := models.BlurAssessment{
		Score:          score,
		IsBlurry:       score < scoreThreshold,
		Recommendation: "Image clarity is acceptable",
	}
	if assessment.IsBlurry {
		assessment.Recommendation = "Image is too blurry, consider retaking"
	}
	return assessment
}
