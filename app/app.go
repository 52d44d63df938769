package app

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cuwais/cuwais-portal/app/clock"
	authservice "github.com/cuwais/cuwais-portal/app/modules/auth/application"
	authjwt "github.com/cuwais/cuwais-portal/app/modules/auth/infrastructure/jwt"
	historyservice "github.com/cuwais/cuwais-portal/app/modules/history/application"
	leaderboardservice "github.com/cuwais/cuwais-portal/app/modules/leaderboard/application"
	submissionservice "github.com/cuwais/cuwais-portal/app/modules/submission/application"
	themeservice "github.com/cuwais/cuwais-portal/app/modules/theme/application"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/app/state"
	"github.com/cuwais/cuwais-portal/config"
)

// tokenLeeway absorbs clock skew between this machine and the identity provider.
const tokenLeeway = time.Minute

// App holds the state and clients shared by the CLI and the dashboard.
type App struct {
	Config    *config.Config
	Obs       observability.Observability
	Clock     clock.Clock
	State     *state.Store
	Jar       *state.Jar
	API       *portalapi.Client
	Inspector authjwt.Inspector
	History   historyservice.Service
}

// NewApp opens the local state file and builds the portal client around it.
func NewApp(cfg *config.Config, obs observability.Observability, clk clock.Clock) (*App, error) {
	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state: %w", err)
	}

	base, err := url.Parse(cfg.Portal.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal base URL: %w", err)
	}
	jar, err := state.NewJar(store, base)
	if err != nil {
		return nil, err
	}
	client, err := portalapi.NewClient(cfg.Portal, jar, obs)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal client: %w", err)
	}

	obs.Logger.Debug("Application initialized",
		slog.String("portal", cfg.Portal.BaseURL),
		slog.String("state", cfg.StatePath),
	)

	return &App{
		Config:    cfg,
		Obs:       obs,
		Clock:     clk,
		State:     store,
		Jar:       jar,
		API:       client,
		Inspector: authjwt.NewInspector(clk.Now, tokenLeeway),
		History:   historyservice.NewService(client, cfg.History, observability.NewTelemetry(obs, "history")),
	}, nil
}

// AuthService builds the sign-in bridge reporting to banner and navigator.
func (a *App) AuthService(banner authservice.Banner, navigator authservice.Navigator) authservice.Service {
	return authservice.NewService(
		a.API,
		a.Inspector,
		a.Jar,
		banner,
		navigator,
		authservice.Config{LandingPath: a.Config.Portal.LandingPath},
		observability.NewTelemetry(a.Obs, "auth"),
	)
}

// SubmissionService builds a submission manager reporting to view.
func (a *App) SubmissionService(view submissionservice.View) submissionservice.Service {
	return submissionservice.NewService(a.API, view, observability.NewTelemetry(a.Obs, "submission"))
}

// Updater builds a leaderboard updater drawing to display. The intro flag
// lives in the state file.
func (a *App) Updater(display leaderboardservice.Display) *leaderboardservice.Updater {
	return leaderboardservice.NewUpdater(
		a.API,
		display,
		a.State,
		a.Clock,
		a.Config.Leaderboard,
		observability.NewTelemetry(a.Obs, "leaderboard"),
	)
}

// Stylesheets returns the two configured stylesheet references.
func (a *App) Stylesheets() themedomain.Stylesheets {
	t := a.Config.Theme
	return themedomain.Stylesheets{
		Light: themedomain.Stylesheet{Href: t.LightHref, Integrity: t.LightIntegrity},
		Dark:  themedomain.Stylesheet{Href: t.DarkHref, Integrity: t.DarkIntegrity},
	}
}

// Switcher returns a theme switcher backed by the state file, with the
// stored theme applied.
func (a *App) Switcher() (*themeservice.Switcher, error) {
	s := themeservice.NewSwitcher(a.State, a.Stylesheets(), a.Obs.Logger)
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}
