package historyservice

import (
	"context"
	"time"

	historydomain "github.com/cuwais/cuwais-portal/app/modules/history/domain"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// Service builds and renders the score history.
type Service interface {
	// Series fetches the history once and reconstructs it. A zero since
	// keeps the whole axis.
	Series(ctx context.Context, since time.Time) (historydomain.TimeSeries, error)
	Chart(ctx context.Context, opts ChartOptions) ([]byte, error)
}

// API is the part of the portal client the service needs.
type API interface {
	GetLeaderboardOverTime(ctx context.Context) (portalapi.LeaderboardGraph, error)
}

// Format is a chart output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

type ChartOptions struct {
	Since   time.Time
	Palette themedomain.Palette
	Format  Format
}
