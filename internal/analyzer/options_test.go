package analyzer

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Detailed {
		t.Error("Expected Detailed to be false by default")
	}
	if opts.BlurThreshold != 100.0 {
		t.Errorf("Expected BlurThreshold to be 100.0, got %f", opts.BlurThreshold)
	}
	if opts.BlurScoreThreshold != 50.0 {
		t.Errorf("Expected BlurScoreThreshold to be 50.0, got %f", opts.BlurScoreThreshold)
	}
	if opts.SymmetryThreshold != 0.75 {
		t.Errorf("Expected SymmetryThreshold to be 0.75, got %f", opts.SymmetryThreshold)
	}
	if opts.ClipLimit != 3.0 || opts.TileGrid != 8 {
		t.Errorf("Expected CLAHE 3.0/8, got %f/%d", opts.ClipLimit, opts.TileGrid)
	}
}

func TestDetailedOptions(t *testing.T) {
	opts := DetailedOptions()

	if !opts.Detailed {
		t.Error("Expected Detailed to be true for detailed options")
	}
	if opts.SkipEnhancement {
		t.Error("Expected enhancement to run in detailed mode")
	}
	if !opts.IncludeEnhancedImage {
		t.Error("Expected enhanced image to be kept in detailed mode")
	}
}

func TestFastOptions(t *testing.T) {
	opts := FastOptions()

	if !opts.Detailed {
		t.Error("Expected Detailed to be true for fast options")
	}
	if !opts.SkipEnhancement {
		t.Error("Expected SkipEnhancement to be true for fast options")
	}
	if opts.IncludeEnhancedImage {
		t.Error("Expected IncludeEnhancedImage to be false for fast options")
	}
}

func TestChainedOptions(t *testing.T) {
	opts := DetailedOptions().
		WithCustomThresholds(200.0, 40.0, 0.8).
		WithCLAHE(2.0, 4).
		WithoutEnhancement()

	if opts.BlurThreshold != 200.0 {
		t.Errorf("Expected BlurThreshold to be 200.0, got %f", opts.BlurThreshold)
	}
	if opts.BlurScoreThreshold != 40.0 {
		t.Errorf("Expected BlurScoreThreshold to be 40.0, got %f", opts.BlurScoreThreshold)
	}
	if opts.SymmetryThreshold != 0.8 {
		t.Errorf("Expected SymmetryThreshold to be 0.8, got %f", opts.SymmetryThreshold)
	}
	if opts.ClipLimit != 2.0 || opts.TileGrid != 4 {
		t.Errorf("Expected CLAHE 2.0/4, got %f/%d", opts.ClipLimit, opts.TileGrid)
	}
	if !opts.SkipEnhancement {
		t.Error("Expected SkipEnhancement to be true")
	}
}

func TestNormalizedFillsZeroValues(t *testing.T) {
	opts := AnalysisOptions{Detailed: true}.normalized()

	if opts.BlurThreshold != DefaultBlurThreshold {
		t.Errorf("Expected default blur threshold, got %f", opts.BlurThreshold)
	}
	if opts.TileGrid != 8 {
		t.Errorf("Expected default tile grid, got %d", opts.TileGrid)
	}
	if !opts.Detailed {
		t.Error("normalized must not reset flags")
	}
}
