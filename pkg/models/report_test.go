package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecibels_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		in   Decibels
		want string
	}{
		{"finite", Decibels(12.5), "12.5"},
		{"positive infinity", Decibels(math.Inf(1)), `"inf"`},
		{"negative infinity", Decibels(math.Inf(-1)), `"-inf"`},
		{"nan", Decibels(math.NaN()), "null"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestDecibels_UnmarshalInfinity(t *testing.T) {
	var d Decibels
	require.NoError(t, json.Unmarshal([]byte(`"inf"`), &d))
	assert.True(t, math.IsInf(float64(d), 1))

	require.NoError(t, json.Unmarshal([]byte("3.25"), &d))
	assert.Equal(t, Decibels(3.25), d)

	assert.Error(t, json.Unmarshal([]byte(`"loud"`), &d))
}

func TestMetricReport_MarshalsConstantImageReport(t *testing.T) {
	report := MetricReport{
		Resolution: ResolutionMetrics{Dimensions: "10x10", Megapixels: 0, AspectRatio: 1},
		Noise:      NoiseMetrics{SignalToNoise: Decibels(math.Inf(1))},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"signal_to_noise":"inf"`)
}

func TestMetricReport_Flatten(t *testing.T) {
	report := MetricReport{
		Blur:       BlurMetrics{LaplacianVar: 250, Score: 50},
		Quality:    QualityMetrics{OverallScore: 61.2, Contrast: 40, Brightness: 120},
		Resolution: ResolutionMetrics{Dimensions: "1000x500", Megapixels: 0.5, AspectRatio: 2},
	}

	flat := report.Flatten()
	assert.Len(t, flat, 11)
	assert.Equal(t, "1000x500", flat["resolution.dimensions"])
	assert.Equal(t, 250.0, flat["blur.laplacian_var"])
	assert.Equal(t, false, flat["blur.is_blurry"])
}

func TestParseAnalysisMode(t *testing.T) {
	mode, ok := ParseAnalysisMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeInitial, mode)

	mode, ok = ParseAnalysisMode("detailed")
	assert.True(t, ok)
	assert.Equal(t, ModeDetailed, mode)

	_, ok = ParseAnalysisMode("eigenface")
	assert.False(t, ok)
}

func TestBoxRoundTrip(t *testing.T) {
	box := Box{X: 3, Y: 4, Width: 10, Height: 20}
	assert.Equal(t, box, BoxFromRect(box.Rect()))
}
