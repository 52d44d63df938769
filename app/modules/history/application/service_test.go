package historyservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	historydomain "github.com/cuwais/cuwais-portal/app/modules/history/domain"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func hourly() portalapi.LeaderboardGraph {
	return portalapi.LeaderboardGraph{
		Users: map[portalapi.ID]portalapi.UserMeta{
			"1": {DisplayName: "ada", IsYou: true},
			"2": {DisplayName: "housebot", IsBot: true},
		},
		Deltas: []portalapi.ScoreDelta{
			{UserID: "1", Time: 1_700_000_000 - 1_700_000_000%3600, Delta: 12},
			{UserID: "2", Time: 1_700_000_000 - 1_700_000_000%3600 + 3600, Delta: -8},
			{UserID: "1", Time: 1_700_000_000 - 1_700_000_000%3600 + 7200, Delta: 5},
		},
		InitialScore: 1000,
	}
}

func newTestService(api API, logs io.Writer) Service {
	return NewService(api, config.HistoryConfig{MinStep: time.Hour, Width: 640, Height: 320, MaxSamples: 20000}, observability.Telemetry{
		Service: "history",
		Logger:  slog.New(slog.NewTextHandler(logs, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: observability.NoopMetrics{},
	})
}

func TestSeries(t *testing.T) {
	svc := newTestService(graphOf(hourly()), io.Discard)

	ts, err := svc.Series(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 3600.0, ts.Step)
	assert.Len(t, ts.Timestamps, 4)
	require.Len(t, ts.Series, 2)
	assert.Equal(t, "ada", ts.Series[0].Label)
	assert.Equal(t, 1017.0, ts.Series[0].Values[3])
	assert.Equal(t, 992.0, ts.Series[1].Values[3])
}

func TestSeries_Since(t *testing.T) {
	graph := hourly()
	svc := newTestService(graphOf(graph), io.Discard)
	cut := time.Unix(int64(graph.Deltas[1].Time), 0)

	ts, err := svc.Series(context.Background(), cut)
	require.NoError(t, err)

	assert.Equal(t, []float64{graph.Deltas[1].Time, graph.Deltas[2].Time}, ts.Timestamps)
}

func TestSeries_WarnsOnFineStep(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(graphOf(portalapi.LeaderboardGraph{
		Users:  map[portalapi.ID]portalapi.UserMeta{"1": {DisplayName: "ada"}},
		Deltas: []portalapi.ScoreDelta{{UserID: "1", Time: 3600}, {UserID: "1", Time: 3601}},
	}), &logs)

	ts, err := svc.Series(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, ts.Step, "tolerant: the fine step is still used")
	assert.Contains(t, logs.String(), "Score history step is finer than expected")
}

func TestSeries_NoWarningOnHourlyBuckets(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(graphOf(hourly()), &logs)

	_, err := svc.Series(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.NotContains(t, logs.String(), "finer than expected")
}

func offGrid() portalapi.LeaderboardGraph {
	graph := portalapi.LeaderboardGraph{Users: map[portalapi.ID]portalapi.UserMeta{"1": {DisplayName: "ada"}}}
	for h := 1; h <= 30*24; h++ {
		graph.Deltas = append(graph.Deltas, portalapi.ScoreDelta{UserID: "1", Time: float64(h * 3600), Delta: 1})
	}
	graph.Deltas = append(graph.Deltas, portalapi.ScoreDelta{UserID: "1", Time: 3601, Delta: 1})
	return graph
}

func TestSeries_RefusesOversizedAxis(t *testing.T) {
	svc := newTestService(graphOf(offGrid()), io.Discard)

	_, err := svc.Series(context.Background(), time.Time{})

	assert.ErrorIs(t, err, historydomain.ErrTooManySamples)
}

func TestSeries_APIError(t *testing.T) {
	apiErr := &portalapi.APIError{Endpoint: portalapi.EndpointLeaderboardOverTime, StatusCode: 500, Message: "boom"}
	svc := newTestService(&FakeAPI{GetLeaderboardOverTimeFunc: func(context.Context) (portalapi.LeaderboardGraph, error) {
		return portalapi.LeaderboardGraph{}, apiErr
	}}, io.Discard)

	_, err := svc.Series(context.Background(), time.Time{})

	var target *portalapi.APIError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "boom", target.Message)
}

func TestChart(t *testing.T) {
	palette := themedomain.PaletteFor(themedomain.Light)

	tests := []struct {
		name    string
		graph   portalapi.LeaderboardGraph
		opts    ChartOptions
		wantErr error
		verify  func(t *testing.T, out []byte)
	}{
		{
			name:  "png line chart",
			graph: hourly(),
			opts:  ChartOptions{Palette: palette, Format: FormatPNG},
			verify: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, pngMagic))
			},
		},
		{
			name:  "svg line chart",
			graph: hourly(),
			opts:  ChartOptions{Palette: palette, Format: FormatSVG},
			verify: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "<svg")
			},
		},
		{
			name:  "flat series still renders",
			graph: portalapi.LeaderboardGraph{
				Users:  map[portalapi.ID]portalapi.UserMeta{"1": {DisplayName: "ada"}},
				Deltas: []portalapi.ScoreDelta{{UserID: "1", Time: 3600, Delta: 0}},
			},
			opts: ChartOptions{Palette: palette},
			verify: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, pngMagic))
			},
		},
		{
			name:  "no deltas renders the placeholder",
			graph: portalapi.LeaderboardGraph{Users: map[portalapi.ID]portalapi.UserMeta{"1": {}}},
			opts:  ChartOptions{Palette: palette, Format: FormatSVG},
			verify: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, pngMagic), "the placeholder is always a PNG")
			},
		},
		{
			name:  "oversized axis renders the placeholder",
			graph: offGrid(),
			opts:  ChartOptions{Palette: palette, Format: FormatSVG},
			verify: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, pngMagic), "the placeholder is always a PNG")
			},
		},
		{
			name:    "unknown format",
			graph:   hourly(),
			opts:    ChartOptions{Palette: palette, Format: "gif"},
			wantErr: ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := graphOf(tt.graph)
			svc := newTestService(api, io.Discard)

			out, err := svc.Chart(context.Background(), tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, api.Trace(), "nothing is fetched for a bad format")
				return
			}
			require.NoError(t, err)
			tt.verify(t, out)
		})
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		expr    string
		want    time.Time
		wantErr bool
	}{
		{expr: "", want: time.Time{}},
		{expr: "72h", want: now.Add(-72 * time.Hour)},
		{expr: "2026-01-31", want: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{expr: "2026-02-01T08:00:00Z", want: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{expr: "3 days ago", want: now.Add(-72 * time.Hour)},
		{expr: "whenever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseSince(tt.expr, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadSince)
				return
			}
			require.NoError(t, err)
			assert.WithinDuration(t, tt.want, got, time.Minute)
		})
	}
}
