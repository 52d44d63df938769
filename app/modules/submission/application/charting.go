package submissionservice

import (
	"bytes"

	"github.com/cuwais/cuwais-portal/app/chartutil"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GenerateSummaryChart renders a PNG bar chart of a submission's match
// outcomes, all matches next to healthy-only matches.
func GenerateSummaryChart(summary portalapi.SubmissionSummary, palette themedomain.Palette) ([]byte, error) {
	if summary.Wins+summary.Losses+summary.Draws == 0 {
		return chartutil.NoDataPlaceholder(palette, "No matches played yet")
	}

	bar := func(label string, v int, c drawing.Color) chart.Value {
		return chart.Value{
			Label: label,
			Value: float64(v),
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}

	graph := chart.BarChart{
		Title:      "Match outcomes",
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      640,
		Height:     400,
		BarWidth:   60,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
		},
		Bars: []chart.Value{
			bar("Wins", summary.Wins, palette.You),
			bar("Losses", summary.Losses, palette.Other),
			bar("Draws", summary.Draws, palette.Accent),
			bar("Wins (ok)", summary.WinsHealthy, palette.You.WithAlpha(160)),
			bar("Losses (ok)", summary.LossesHealthy, palette.Other.WithAlpha(160)),
			bar("Draws (ok)", summary.DrawsHealthy, palette.Accent.WithAlpha(160)),
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
