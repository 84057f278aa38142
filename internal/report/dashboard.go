package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"go-face-inspector/pkg/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// DefaultAssetsHost serves the echarts javascript bundle
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// DashboardOptions controls page assets
type DashboardOptions struct {
	AssetsHost    string
	StylesheetURL string
}

var summaryTemplate = template.Must(template.New("summary").Parse(`
<div class="summary">
  <h1>Face Image Quality</h1>
  <p class="meta">{{.Source}} &middot; {{.Mode}} &middot; {{.Timestamp}}</p>
  <div class="cards">
    {{range .Cards}}<div class="card{{if .Alert}} alert{{end}}"><span class="label">{{.Label}}</span><span class="value">{{.Value}}</span></div>
    {{end}}
  </div>
  <div class="resolution">
    <h2>Resolution</h2>
    <ul>
      <li>Dimensions: {{.Resolution.Dimensions}}</li>
      <li>Megapixels: {{printf "%.2f" .Resolution.Megapixels}} MP</li>
      <li>Aspect Ratio: {{printf "%.2f" .Resolution.AspectRatio}}</li>
    </ul>
  </div>
  {{if .Issues}}<div class="issues"><h2>Issues</h2><ul>
    {{range .Issues}}<li class="{{.Severity}}">{{.Message}}</li>
    {{end}}</ul></div>{{end}}
  {{if .Recommendations}}<div class="recommendations"><h2>Recommendations</h2><ul>
    {{range .Recommendations}}<li>{{.}}</li>
    {{end}}</ul></div>{{end}}
</div>
`))

type card struct {
	Label string
	Value string
	Alert bool
}

type summaryView struct {
	Source          string
	Mode            models.AnalysisMode
	Timestamp       string
	Cards           []card
	Resolution      models.ResolutionMetrics
	Issues          []models.QualityIssue
	Recommendations []string
}

// RenderDashboard writes a self-contained HTML page for one analysis: the
// quality radar, the intensity histogram and a summary of metric cards.
func RenderDashboard(w io.Writer, result *models.AnalysisResult, o DashboardOptions) error {
	if result == nil {
		return fmt.Errorf("no analysis to render")
	}
	if o.AssetsHost == "" {
		o.AssetsHost = DefaultAssetsHost
	}

	page := components.NewPage().
		SetPageTitle("Face Quality " + result.ID).
		SetAssetsHost(o.AssetsHost).
		SetLayout(components.PageFlexLayout)
	page.AddCharts(radarChart(result, o.AssetsHost))
	if len(result.IntensityHistogram) > 0 {
		page.AddCharts(histogramChart(result.IntensityHistogram, o.AssetsHost))
	}

	var rendered bytes.Buffer
	if err := page.Render(&rendered); err != nil {
		return fmt.Errorf("error rendering charts: %w", err)
	}

	var summary bytes.Buffer
	if err := summaryTemplate.Execute(&summary, buildSummary(result)); err != nil {
		return fmt.Errorf("error rendering summary: %w", err)
	}

	html := rendered.Bytes()
	if o.StylesheetURL != "" {
		link := fmt.Sprintf(`<link rel="stylesheet" href="%s">`, template.HTMLEscapeString(o.StylesheetURL))
		html = insertBefore(html, "</head>", []byte(link))
	}
	html = insertAfter(html, "<body>", summary.Bytes())

	_, err := w.Write(html)
	return err
}

func radarChart(result *models.AnalysisResult, assetsHost string) *charts.Radar {
	indicators := make([]*opts.Indicator, len(RadarCategories))
	for i, name := range RadarCategories {
		indicators[i] = &opts.Indicator{Name: name, Max: 100}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{AssetsHost: assetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Image Quality Analysis"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	radar.AddSeries("metrics", []opts.RadarData{{Name: "Image Metrics", Value: RadarValues(result.Report)}})
	return radar
}

func histogramChart(hist []int, assetsHost string) *charts.Bar {
	labels := make([]string, len(hist))
	data := make([]opts.BarData, len(hist))
	for i, n := range hist {
		labels[i] = strconv.Itoa(i)
		data[i] = opts.BarData{Value: n}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{AssetsHost: assetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Intensity Histogram"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("pixels", data)
	return bar
}

func buildSummary(result *models.AnalysisResult) summaryView {
	r := result.Report
	view := summaryView{
		Source:     result.Source,
		Mode:       result.Mode,
		Timestamp:  result.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"),
		Resolution: r.Resolution,
		Issues:     result.Issues,
		Cards: []card{
			{Label: "Quality Score", Value: fmt.Sprintf("%.1f%%", r.Quality.OverallScore)},
			{Label: "Blur Level", Value: fmt.Sprintf("%.1f%%", r.Blur.Score), Alert: r.Blur.IsBlurry},
			{Label: "Signal-to-Noise Ratio", Value: r.Noise.SignalToNoise.String()},
			{Label: "Brightness", Value: fmt.Sprintf("%.1f", r.Quality.Brightness)},
		},
	}

	if ext := result.Extended; ext != nil {
		view.Cards = append(view.Cards,
			card{Label: "Faces Found", Value: strconv.Itoa(ext.FaceDetails.FacesFound), Alert: ext.FaceDetails.FacesFound == 0},
			card{Label: "Lighting", Value: ext.Lighting.Quality},
		)
		if ext.Symmetry.Face != nil {
			view.Cards = append(view.Cards, card{
				Label: "Symmetry",
				Value: fmt.Sprintf("%.1f%%", ext.Symmetry.SymmetryPercent),
				Alert: !ext.Symmetry.IsSymmetric,
			})
		}
		if ext.Enhancement != nil && ext.Enhancement.ImprovementDefined {
			view.Cards = append(view.Cards, card{
				Label: "Enhancement Gain",
				Value: fmt.Sprintf("%+.1f%%", ext.Enhancement.ImprovementPercentage),
			})
		}
		view.Recommendations = append(view.Recommendations, ext.BlurAssessment.Recommendation)
		view.Recommendations = append(view.Recommendations, ext.Lighting.Recommendations...)
	}
	return view
}

// insertBefore splices content in front of the first marker, or prepends it
func insertBefore(doc []byte, marker string, content []byte) []byte {
	i := bytes.Index(doc, []byte(marker))
	if i < 0 {
		i = 0
	}
	return insertAt(doc, i, content)
}

// insertAfter splices content behind the first marker, or appends it
func insertAfter(doc []byte, marker string, content []byte) []byte {
	i := bytes.Index(doc, []byte(marker))
	if i < 0 {
		return insertAt(doc, len(doc), content)
	}
	return insertAt(doc, i+len(marker), content)
}

func insertAt(doc []byte, at int, content []byte) []byte {
	out := make([]byte, 0, len(doc)+len(content))
	out = append(out, doc[:at]...)
	out = append(out, content...)
	return append(out, doc[at:]...)
}
