package themehandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	themeservice "github.com/cuwais/cuwais-portal/app/modules/theme/application"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	themecookies "github.com/cuwais/cuwais-portal/app/modules/theme/infrastructure/cookies"
	"github.com/go-chi/chi/v5"
)

// ThemeHandlers serves the theme endpoints of the dashboard.
type ThemeHandlers struct {
	sheets        themedomain.Stylesheets
	secureCookies bool
	logger        *slog.Logger
}

func NewThemeHandlers(sheets themedomain.Stylesheets, secureCookies bool, logger *slog.Logger) *ThemeHandlers {
	return &ThemeHandlers{sheets: sheets, secureCookies: secureCookies, logger: logger}
}

// Switcher returns a request-scoped switcher with the stored theme applied.
func (h *ThemeHandlers) Switcher(w http.ResponseWriter, r *http.Request) *themeservice.Switcher {
	s := themeservice.NewSwitcher(themecookies.NewHTTPStore(w, r, h.secureCookies), h.sheets, h.logger)
	if _, err := s.Load(); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to load theme", slog.Any("error", err))
	}
	return s
}

type themeResponse struct {
	Theme     string `json:"theme"`
	Href      string `json:"href"`
	Integrity string `json:"integrity"`
}

// HandleGet reports the active stylesheet.
func (h *ThemeHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	s := h.Switcher(w, r)
	h.writeActive(w, s)
}

// HandleSet switches to the theme named in the URL. Form posts from the
// dashboard page are redirected back to the referring page.
func (h *ThemeHandlers) HandleSet(w http.ResponseWriter, r *http.Request) {
	s := themeservice.NewSwitcher(themecookies.NewHTTPStore(w, r, h.secureCookies), h.sheets, h.logger)
	if err := s.Set(chi.URLParam(r, "name")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.Header.Get("Accept") != "application/json" {
		http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
		return
	}
	h.writeActive(w, s)
}

func (h *ThemeHandlers) writeActive(w http.ResponseWriter, s *themeservice.Switcher) {
	theme, sheet := s.Active()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(themeResponse{
		Theme:     string(theme),
		Href:      sheet.Href,
		Integrity: sheet.Integrity,
	})
}

// backTarget returns the referer path when it is same-origin, else "/".
func backTarget(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.Path
}
