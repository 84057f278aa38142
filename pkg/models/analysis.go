package models

import "time"

// AnalysisMode selects which pipeline runs for an uploaded image
type AnalysisMode string

const (
	// ModeInitial runs the blur/quality/resolution/noise extraction only
	ModeInitial AnalysisMode = "initial"
	// ModeDetailed adds lighting, symmetry, facial features and enhancement
	ModeDetailed AnalysisMode = "detailed"
)

// ParseAnalysisMode maps a request value onto a mode; empty means initial
func ParseAnalysisMode(s string) (AnalysisMode, bool) {
	switch AnalysisMode(s) {
	case "", ModeInitial:
		return ModeInitial, true
	case ModeDetailed:
		return ModeDetailed, true
	default:
		return "", false
	}
}

// AnalysisResult is the complete record of one analysis request.
// It is held in the in-memory report store for the dashboard and PDF export.
type AnalysisResult struct {
	ID                string        `json:"id"`
	Source            string        `json:"source"`
	Mode              AnalysisMode  `json:"mode"`
	Timestamp         time.Time     `json:"timestamp"`
	ProcessingTimeSec float64       `json:"processing_time_sec"`
	Image             ImageMetadata `json:"image"`

	Report   MetricReport      `json:"report"`
	Extended *ExtendedAnalysis `json:"extended,omitempty"`

	// IntensityHistogram holds 256 grayscale bin counts of the analyzed image
	IntensityHistogram []int `json:"intensity_histogram,omitempty"`

	Issues []QualityIssue `json:"issues,omitempty"`
	Errors []string       `json:"errors,omitempty"`
}

// ImageMetadata describes the decoded upload
type ImageMetadata struct {
	ContentType    string `json:"content_type"`
	ContentLength  int64  `json:"content_length"`
	Format         string `json:"format"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	AnalyzedWidth  int    `json:"analyzed_width"`
	AnalyzedHeight int    `json:"analyzed_height"`
}

// QualityIssue represents a quality validation finding
type QualityIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning", "info"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}
