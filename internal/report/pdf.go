package report

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"go-face-inspector/pkg/models"

	"codeberg.org/go-pdf/fpdf"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	histogramImage = "histogram"
	pageWidth      = 190.0
	rowHeight      = 7.0
)

var histogramFill = color.RGBA{R: 70, G: 110, B: 180, A: 255}

// HistogramPNG plots a grayscale intensity histogram as a PNG image
func HistogramPNG(hist []int) ([]byte, error) {
	if len(hist) == 0 {
		return nil, fmt.Errorf("empty histogram")
	}

	values := make(plotter.Values, len(hist))
	for i, n := range hist {
		values[i] = float64(n)
	}

	p := plot.New()
	p.Title.Text = "Intensity Histogram"
	p.X.Label.Text = "Intensity"
	p.Y.Label.Text = "Pixels"

	bars, err := plotter.NewBarChart(values, vg.Points(1))
	if err != nil {
		return nil, fmt.Errorf("error building histogram bars: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = histogramFill
	p.Add(bars)

	wt, err := p.WriterTo(6*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("error creating histogram writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error encoding histogram: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF writes a one-page A4 report of an analysis
func RenderPDF(w io.Writer, result *models.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("no analysis to render")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Face Image Quality Report", false)
	pdf.SetCreator("go-face-inspector", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(pageWidth, 10, "Face Image Quality Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(pageWidth, 5, fmt.Sprintf("%s | %s | %s | %.2fs",
		result.ID, result.Mode, result.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"), result.ProcessingTimeSec),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)

	r := result.Report
	section(pdf, "Metrics")
	rows := [][2]string{
		{"Quality Score", fmt.Sprintf("%.1f%%", r.Quality.OverallScore)},
		{"Laplacian Variance", fmt.Sprintf("%.2f", r.Blur.LaplacianVar)},
		{"Blur Level", fmt.Sprintf("%.1f%% (blurry: %t)", r.Blur.Score, r.Blur.IsBlurry)},
		{"Brightness", fmt.Sprintf("%.2f", r.Quality.Brightness)},
		{"Contrast", fmt.Sprintf("%.2f", r.Quality.Contrast)},
		{"Noise Level", fmt.Sprintf("%.2f", r.Noise.NoiseLevel)},
		{"Signal-to-Noise Ratio", decibelsText(r.Noise.SignalToNoise)},
		{"Dimensions", r.Resolution.Dimensions},
		{"Megapixels", fmt.Sprintf("%.2f MP", r.Resolution.Megapixels)},
		{"Aspect Ratio", fmt.Sprintf("%.2f", r.Resolution.AspectRatio)},
	}
	table(pdf, rows)

	if ext := result.Extended; ext != nil {
		section(pdf, "Detailed Analysis")
		detail := [][2]string{
			{"Faces Found", fmt.Sprintf("%d", ext.FaceDetails.FacesFound)},
			{"Blur Assessment", ext.BlurAssessment.Recommendation},
			{"Lighting", fmt.Sprintf("%s (uniformity %.4f)", ext.Lighting.Quality, ext.Lighting.Uniformity)},
		}
		if ext.Symmetry.Face != nil {
			detail = append(detail, [2]string{"Symmetry", fmt.Sprintf("%.1f%% (%s)", ext.Symmetry.SymmetryPercent, ext.Symmetry.Quality)})
		}
		if e := ext.Enhancement; e != nil {
			gain := "undefined"
			if e.ImprovementDefined {
				gain = fmt.Sprintf("%+.1f%%", e.ImprovementPercentage)
			}
			detail = append(detail, [2]string{"Enhancement Gain", gain})
		}
		table(pdf, detail)
		bullets(pdf, ext.Lighting.Recommendations)
	}

	if len(result.Issues) > 0 {
		section(pdf, "Issues")
		messages := make([]string, len(result.Issues))
		for i, issue := range result.Issues {
			messages[i] = fmt.Sprintf("[%s] %s", issue.Severity, issue.Message)
		}
		bullets(pdf, messages)
	}

	if len(result.IntensityHistogram) > 0 {
		png, err := HistogramPNG(result.IntensityHistogram)
		if err != nil {
			return err
		}
		opt := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(histogramImage, opt, bytes.NewReader(png))
		pdf.Ln(4)
		pdf.ImageOptions(histogramImage, 10, pdf.GetY(), pageWidth*0.8, 0, true, opt, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("error building pdf: %w", err)
	}
	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(pageWidth, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func table(pdf *fpdf.Fpdf, rows [][2]string) {
	pdf.SetFillColor(235, 240, 248)
	for i, row := range rows {
		fill := i%2 == 0
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, rowHeight, row[0], "", 0, "L", fill, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(pageWidth-60, rowHeight, row[1], "", 1, "L", fill, 0, "")
	}
	pdf.Ln(3)
}

func bullets(pdf *fpdf.Fpdf, lines []string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		pdf.MultiCell(pageWidth, 5, "- "+line, "", "L", false)
	}
	pdf.Ln(3)
}

// decibelsText avoids the infinity sign, which the core PDF fonts lack
func decibelsText(d models.Decibels) string {
	switch f := float64(d); {
	case math.IsInf(f, 1):
		return "inf dB"
	case math.IsInf(f, -1):
		return "-inf dB"
	}
	return d.String()
}
