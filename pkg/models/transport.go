package models

// BlobAnalysisRequest asks for analysis of an image stored in Azure blob storage
type BlobAnalysisRequest struct {
	URL  string `json:"url" binding:"required,url"`
	Mode string `json:"mode,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AnalysisResponse is returned by the analyze endpoints
type AnalysisResponse struct {
	*AnalysisResult
	Links ReportLinks `json:"links"`
}

// ReportLinks points at the renderings of a stored analysis
type ReportLinks struct {
	Self      string `json:"self"`
	Dashboard string `json:"dashboard"`
	PDF       string `json:"pdf"`
}
