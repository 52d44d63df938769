package historyservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cuwais/cuwais-portal/app/chartutil"
	historydomain "github.com/cuwais/cuwais-portal/app/modules/history/domain"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/config"
)

type service struct {
	api       API
	cfg       config.HistoryConfig
	telemetry observability.Telemetry
	logger    *slog.Logger
}

// NewService creates a new history service.
func NewService(api API, cfg config.HistoryConfig, telemetry observability.Telemetry) Service {
	logger := telemetry.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service{api: api, cfg: cfg, telemetry: telemetry, logger: logger}
}

func (s *service) Series(ctx context.Context, since time.Time) (historydomain.TimeSeries, error) {
	return observability.WithTelemetry(ctx, s.telemetry, "Series", "history", func(ctx context.Context) (historydomain.TimeSeries, error) {
		graph, err := s.api.GetLeaderboardOverTime(ctx)
		if err != nil {
			return historydomain.TimeSeries{}, err
		}

		ts, err := historydomain.BuildSeries(graph.Users, graph.Deltas, graph.InitialScore, s.cfg.MaxSamples)
		if err != nil {
			return historydomain.TimeSeries{}, err
		}
		step := time.Duration(ts.Step * float64(time.Second))
		if !ts.Empty() && s.cfg.MinStep > 0 && step < s.cfg.MinStep {
			s.logger.WarnContext(ctx, "Score history step is finer than expected; delta times may not share a common bucket",
				slog.Duration("step", step),
				slog.Duration("min_step", s.cfg.MinStep),
				slog.Int("samples", len(ts.Timestamps)),
			)
		}

		if !since.IsZero() {
			ts = ts.Since(float64(since.Unix()))
		}
		return ts, nil
	})
}

func (s *service) Chart(ctx context.Context, opts ChartOptions) ([]byte, error) {
	switch opts.Format {
	case "", FormatPNG, FormatSVG:
	default:
		return nil, ErrUnknownFormat
	}

	ts, err := s.Series(ctx, opts.Since)
	if errors.Is(err, historydomain.ErrTooManySamples) {
		s.logger.WarnContext(ctx, "Score history too large to plot", slog.Any("error", err))
		return chartutil.NoDataPlaceholder(opts.Palette, tooManySamplesMessage)
	}
	if err != nil {
		return nil, err
	}
	return GenerateHistoryChart(ts.Paint(opts.Palette), opts.Palette, opts.Format, s.cfg.Width, s.cfg.Height)
}
