package strategy

import (
	"context"
	"image"

	"go-face-inspector/internal/analyzer"
	"go-face-inspector/pkg/models"
)

// AnalysisStrategy defines the interface for different analysis strategies
type AnalysisStrategy interface {
	Analyze(ctx context.Context, img image.Image) (analyzer.AnalysisOutput, error)
	GetStrategyName() string
	Mode() models.AnalysisMode
}

// InitialAnalysisStrategy computes the four metric clusters only
type InitialAnalysisStrategy struct {
	analyzer analyzer.ImageAnalyzer
}

// NewInitialAnalysisStrategy creates a new initial analysis strategy
func NewInitialAnalysisStrategy(analyzer analyzer.ImageAnalyzer) AnalysisStrategy {
	return &InitialAnalysisStrategy{
		analyzer: analyzer,
	}
}

// Analyze performs the initial analysis
func (s *InitialAnalysisStrategy) Analyze(ctx context.Context, img image.Image) (analyzer.AnalysisOutput, error) {
	return s.analyzer.AnalyzeWithOptions(ctx, img, analyzer.DefaultOptions())
}

// GetStrategyName returns the strategy name
func (s *InitialAnalysisStrategy) GetStrategyName() string {
	return "initial_analysis"
}

func (s *InitialAnalysisStrategy) Mode() models.AnalysisMode {
	return models.ModeInitial
}

// DetailedAnalysisStrategy runs the full face pipeline
type DetailedAnalysisStrategy struct {
	analyzer analyzer.ImageAnalyzer
	options  analyzer.AnalysisOptions
}

// NewDetailedAnalysisStrategy creates a detailed strategy. The enhanced image
// is kept on the output only when includeEnhanced is set.
func NewDetailedAnalysisStrategy(a analyzer.ImageAnalyzer, includeEnhanced bool) AnalysisStrategy {
	opts := analyzer.DetailedOptions()
	opts.IncludeEnhancedImage = includeEnhanced
	return &DetailedAnalysisStrategy{
		analyzer: a,
		options:  opts,
	}
}

// Analyze performs the detailed analysis
func (s *DetailedAnalysisStrategy) Analyze(ctx context.Context, img image.Image) (analyzer.AnalysisOutput, error) {
	return s.analyzer.AnalyzeWithOptions(ctx, img, s.options)
}

// GetStrategyName returns the strategy name
func (s *DetailedAnalysisStrategy) GetStrategyName() string {
	return "detailed_analysis"
}

func (s *DetailedAnalysisStrategy) Mode() models.AnalysisMode {
	return models.ModeDetailed
}

// FastAnalysisStrategy is the detailed pipeline without CLAHE enhancement
type FastAnalysisStrategy struct {
	analyzer analyzer.ImageAnalyzer
}

// NewFastAnalysisStrategy creates a new fast analysis strategy
func NewFastAnalysisStrategy(analyzer analyzer.ImageAnalyzer) AnalysisStrategy {
	return &FastAnalysisStrategy{
		analyzer: analyzer,
	}
}

// Analyze performs fast analysis
func (s *FastAnalysisStrategy) Analyze(ctx context.Context, img image.Image) (analyzer.AnalysisOutput, error) {
	return s.analyzer.AnalyzeWithOptions(ctx, img, analyzer.FastOptions())
}

// GetStrategyName returns the strategy name
func (s *FastAnalysisStrategy) GetStrategyName() string {
	return "fast_analysis"
}

func (s *FastAnalysisStrategy) Mode() models.AnalysisMode {
	return models.ModeDetailed
}
