package themedomain

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// CookieName is the preference cookie holding the selected theme.
const CookieName = "CUWAIS_THEME"

// Theme is one of the two supported colour schemes.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse recognises a stored cookie value.
func Parse(value string) (Theme, bool) {
	switch Theme(value) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Stylesheet is a stylesheet reference with its subresource integrity hash.
type Stylesheet struct {
	Href      string
	Integrity string
}

// Stylesheets are the two declared references the active link is copied from.
type Stylesheets struct {
	Light Stylesheet
	Dark  Stylesheet
}

// For returns the reference declared for t.
func (s Stylesheets) For(t Theme) Stylesheet {
	if t == Dark {
		return s.Dark
	}
	return s.Light
}

// Palette holds the chart and terminal colours for a theme.
type Palette struct {
	Background drawing.Color
	Text       drawing.Color
	Grid       drawing.Color
	You        drawing.Color
	Bot        drawing.Color
	Other      drawing.Color
	Accent     drawing.Color
}

var (
	lightPalette = Palette{
		Background: drawing.ColorFromHex("ffffff"),
		Text:       drawing.ColorFromHex("2c3e50"),
		Grid:       drawing.ColorFromHex("ecf0f1"),
		You:        drawing.ColorFromHex("18bc9c"),
		Bot:        drawing.ColorFromHex("95a5a6"),
		Other:      drawing.ColorFromHex("3498db"),
		Accent:     drawing.ColorFromHex("f39c12"),
	}
	darkPalette = Palette{
		Background: drawing.ColorFromHex("222222"),
		Text:       drawing.ColorFromHex("ffffff"),
		Grid:       drawing.ColorFromHex("444444"),
		You:        drawing.ColorFromHex("00bc8c"),
		Bot:        drawing.ColorFromHex("adb5bd"),
		Other:      drawing.ColorFromHex("3498db"),
		Accent:     drawing.ColorFromHex("f39c12"),
	}
)

// PaletteFor returns the palette matching t.
func PaletteFor(t Theme) Palette {
	if t == Dark {
		return darkPalette
	}
	return lightPalette
}

// Hex formats c as #rrggbb for terminal and CSS use.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
