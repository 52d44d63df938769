package themeservice

import (
	"fmt"
	"log/slog"
	"sync"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
)

// Switcher selects the active stylesheet from the theme cookie. It performs
// no network I/O.
type Switcher struct {
	store  CookieStore
	sheets themedomain.Stylesheets
	logger *slog.Logger

	mu     sync.RWMutex
	theme  themedomain.Theme
	active themedomain.Stylesheet
}

// NewSwitcher creates a Switcher. Until Load or a setter runs, the light
// reference is active.
func NewSwitcher(store CookieStore, sheets themedomain.Stylesheets, logger *slog.Logger) *Switcher {
	return &Switcher{
		store:  store,
		sheets: sheets,
		logger: logger,
		theme:  themedomain.Light,
		active: sheets.Light,
	}
}

// Load applies the stored theme. A missing or unrecognised value selects
// light and rewrites the cookie.
func (s *Switcher) Load() (themedomain.Theme, error) {
	value, ok := s.store.Cookie(themedomain.CookieName)
	theme, known := themedomain.Parse(value)
	if !ok || !known {
		if ok {
			s.logger.Debug("Ignoring unrecognised theme cookie", slog.String("value", value))
		}
		theme = themedomain.Light
	}
	return theme, s.apply(theme)
}

func (s *Switcher) SetLight() error { return s.apply(themedomain.Light) }

func (s *Switcher) SetDark() error { return s.apply(themedomain.Dark) }

// Set applies a theme by name.
func (s *Switcher) Set(name string) error {
	theme, ok := themedomain.Parse(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return s.apply(theme)
}

// Active returns the applied theme and its stylesheet reference.
func (s *Switcher) Active() (themedomain.Theme, themedomain.Stylesheet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme, s.active
}

// Palette returns the colours for the applied theme.
func (s *Switcher) Palette() themedomain.Palette {
	theme, _ := s.Active()
	return themedomain.PaletteFor(theme)
}

func (s *Switcher) apply(theme themedomain.Theme) error {
	s.mu.Lock()
	s.theme = theme
	s.active = s.sheets.For(theme)
	s.mu.Unlock()

	if err := s.store.SetCookie(themedomain.CookieName, string(theme)); err != nil {
		return fmt.Errorf("failed to store theme cookie: %w", err)
	}
	return nil
}
