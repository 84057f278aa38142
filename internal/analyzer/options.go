package analyzer

// AnalysisOptions provides flexible configuration for image analysis
type AnalysisOptions struct {
	// Detailed enables the extended pipeline (faces, lighting, symmetry, enhancement)
	Detailed bool

	// Quality thresholds
	BlurThreshold      float64
	BlurScoreThreshold float64
	SymmetryThreshold  float64

	// Enhancement parameters
	ClipLimit float64
	TileGrid  int

	// Feature toggles
	SkipFaces       bool
	SkipLighting    bool
	SkipSymmetry    bool
	SkipEnhancement bool

	// IncludeEnhancedImage keeps the CLAHE output on the result
	IncludeEnhancedImage bool
}

// DefaultOptions returns options for the initial analysis
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Detailed:           false,
		BlurThreshold:      DefaultBlurThreshold,
		BlurScoreThreshold: 50.0,
		SymmetryThreshold:  0.75,
		ClipLimit:          3.0,
		TileGrid:           8,
	}
}

// DetailedOptions returns options for the full detailed analysis
func DetailedOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.Detailed = true
	opts.IncludeEnhancedImage = true
	return opts
}

// FastOptions returns detailed options without the enhancement pass
func FastOptions() AnalysisOptions {
	opts := DetailedOptions()
	opts.SkipEnhancement = true
	opts.IncludeEnhancedImage = false
	return opts
}

// WithCustomThresholds allows setting custom quality thresholds
func (opts AnalysisOptions) WithCustomThresholds(blur, blurScore, symmetry float64) AnalysisOptions {
	opts.BlurThreshold = blur
	opts.BlurScoreThreshold = blurScore
	opts.SymmetryThreshold = symmetry
	return opts
}

// WithCLAHE overrides the enhancement parameters
func (opts AnalysisOptions) WithCLAHE(clipLimit float64, tileGrid int) AnalysisOptions {
	opts.ClipLimit = clipLimit
	opts.TileGrid = tileGrid
	return opts
}

// WithoutEnhancement disables the CLAHE pass
func (opts AnalysisOptions) WithoutEnhancement() AnalysisOptions {
	opts.SkipEnhancement = true
	opts.IncludeEnhancedImage = false
	return opts
}

// normalized fills unset numeric options with defaults
func (opts AnalysisOptions) normalized() AnalysisOptions {
	def := DefaultOptions()
	if opts.BlurThreshold <= 0 {
		opts.BlurThreshold = def.BlurThreshold
	}
	if opts.BlurScoreThreshold <= 0 {
		opts.BlurScoreThreshold = def.BlurScoreThreshold
	}
	if opts.SymmetryThreshold <= 0 {
		opts.SymmetryThreshold = def.SymmetryThreshold
	}
	if opts.ClipLimit <= 0 {
		opts.ClipLimit = def.ClipLimit
	}
	if opts.TileGrid <= 0 {
		opts.TileGrid = def.TileGrid
	}
	return opts
}
