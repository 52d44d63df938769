package historyservice

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/cuwais/cuwais-portal/app/chartutil"
	historydomain "github.com/cuwais/cuwais-portal/app/modules/history/domain"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	noHistoryMessage      = "No score history yet"
	tooManySamplesMessage = "Score history is too fine-grained to plot"
)

// GenerateHistoryChart draws one line per user. Leading unknown samples are
// left out of each line; users with no samples are not drawn.
func GenerateHistoryChart(ts historydomain.TimeSeries, palette themedomain.Palette, format Format, width, height int) ([]byte, error) {
	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range ts.Series {
		first := firstKnown(s.Values)
		if first < 0 {
			continue
		}
		xs := make([]time.Time, 0, len(s.Values)-first)
		ys := make([]float64, 0, len(s.Values)-first)
		for i := first; i < len(s.Values); i++ {
			xs = append(xs, time.Unix(int64(ts.Timestamps[i]), 0).UTC())
			ys = append(ys, s.Values[i])
			lo, hi = math.Min(lo, s.Values[i]), math.Max(hi, s.Values[i])
		}
		stroke := 1.5
		if s.Role == historydomain.RoleYou {
			stroke = 3
		}
		series = append(series, chart.TimeSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: s.Color,
				StrokeWidth: stroke,
			},
		})
	}

	if len(series) == 0 || len(ts.Timestamps) < 2 {
		return chartutil.NoDataPlaceholder(palette, noHistoryMessage)
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04"),
			Style: chart.Style{
				FontColor:   palette.Text,
				StrokeColor: palette.Grid,
			},
		},
		YAxis: chart.YAxis{
			Name: "Score",
			Style: chart.Style{
				FontColor:   palette.Text,
				StrokeColor: palette.Grid,
			},
		},
		Series: series,
	}
	if lo == hi {
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.Text,
	})}

	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(provider, buffer); err != nil {
		return nil, fmt.Errorf("failed to render history chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func firstKnown(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
