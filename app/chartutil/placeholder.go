// Package chartutil holds go-chart helpers shared by the chart renderers.
package chartutil

import (
	"bytes"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/wcharczuk/go-chart/v2"
)

// NoDataPlaceholder renders a small PNG carrying msg centred on the theme
// background.
func NoDataPlaceholder(palette themedomain.Palette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
