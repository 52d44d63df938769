package app

import (
	"net/http"

	authservice "github.com/cuwais/cuwais-portal/app/modules/auth/application"
	authhandlers "github.com/cuwais/cuwais-portal/app/modules/auth/infrastructure/handlers"
	historyhandlers "github.com/cuwais/cuwais-portal/app/modules/history/infrastructure/handlers"
	"github.com/cuwais/cuwais-portal/app/modules/leaderboard"
	leaderboardevents "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/events"
	leaderboardhandlers "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/handlers"
	submissionservice "github.com/cuwais/cuwais-portal/app/modules/submission/application"
	submissionhandlers "github.com/cuwais/cuwais-portal/app/modules/submission/infrastructure/handlers"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	themehandlers "github.com/cuwais/cuwais-portal/app/modules/theme/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Dashboard is the local web front end: it keeps a board in step with the
// portal and serves it alongside the portal actions.
type Dashboard struct {
	app         *App
	leaderboard *leaderboard.Module
	limiter     *ClientRateLimiter
}

// NewDashboard wires the dashboard's leaderboard module and rate limiter.
func (a *App) NewDashboard() *Dashboard {
	return &Dashboard{
		app:         a,
		leaderboard: leaderboard.NewLeaderboardModule(a.Obs, a.Updater),
		limiter:     NewClientRateLimiter(rate.Limit(a.Config.Portal.RateLimit), a.Config.Portal.RateBurst, a.Clock.Now),
	}
}

// Router mounts every dashboard route.
func (d *Dashboard) Router() http.Handler {
	a := d.app
	cfg := a.Config
	logger := a.Obs.Logger

	theme := themehandlers.NewThemeHandlers(a.Stylesheets(), cfg.Dashboard.SecureCookies, logger)
	palette := func(w http.ResponseWriter, r *http.Request) themedomain.Palette {
		return theme.Switcher(w, r).Palette()
	}

	board := leaderboardhandlers.NewLeaderboardHandlers(
		d.leaderboard.Board,
		d.leaderboard.Updater,
		func(w http.ResponseWriter, r *http.Request) (themedomain.Theme, themedomain.Stylesheet) {
			return theme.Switcher(w, r).Active()
		},
		cfg.Google.ClientID,
		a.Clock.Now,
		logger,
	)
	auth := authhandlers.NewAuthHandlers(func(b authservice.Banner, n authservice.Navigator) authservice.Service {
		return a.AuthService(b, n)
	}, logger)
	submissions := submissionhandlers.NewSubmissionHandlers(func(v submissionservice.View) submissionservice.Service {
		return a.SubmissionService(v)
	}, palette, logger)
	history := historyhandlers.NewHistoryHandlers(a.History, palette, a.Clock.Now, logger)

	var gatherer prometheus.Gatherer = prometheus.NewRegistry()
	if a.Obs.Registry != nil {
		gatherer = a.Obs.Registry
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(cfg.Dashboard.AllowedOrigins))
	r.Use(CrossOriginMiddleware(cfg.Dashboard.AllowedOrigins, logger))

	r.Get("/", board.HandleIndex)
	r.Get("/leaderboard.json", board.HandleSnapshot)
	r.Get("/leaderboard.xlsx", board.HandleExport)
	r.Get(leaderboardevents.StreamPath, d.leaderboard.Stream.ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/theme", theme.HandleGet)
	r.Post("/theme/{name}", theme.HandleSet)

	// Everything below reaches the portal.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(d.limiter))

		r.Post("/auth/google", auth.HandleSignIn)
		r.Post("/auth/logout", auth.HandleLogout)
		r.Get("/auth/account", auth.HandleAccount)

		r.Get("/history.png", history.HandleChart)

		r.Get("/submissions", submissions.HandleList)
		r.Post("/submissions", submissions.HandleAdd)
		r.Post("/submissions/{id}/enabled", submissions.HandleSetEnabled)
		r.Get("/submissions/{id}/summary.png", submissions.HandleSummaryChart)
		r.Post("/bots/{id}/delete", submissions.HandleDeleteBot)
	})

	return r
}
