package repository

import "errors"

var (
	// ErrBlobSourceDisabled indicates no blob storage backend is configured
	ErrBlobSourceDisabled = errors.New("blob storage is not configured")

	// ErrAnalysisNotFound indicates the analysis result was not found or expired
	ErrAnalysisNotFound = errors.New("analysis result not found")

	// ErrInvalidAnalysis indicates a result without an ID
	ErrInvalidAnalysis = errors.New("analysis result has no id")
)
