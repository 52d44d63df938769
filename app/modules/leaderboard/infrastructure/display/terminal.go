package leaderboarddisplay

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	leaderboardservice "github.com/cuwais/cuwais-portal/app/modules/leaderboard/application"
	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
)

const clearScreen = "\x1b[H\x1b[2J"

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	blank  lipgloss.Style
	roles  map[leaderboarddomain.Role]lipgloss.Style
}

func newStyles(p themedomain.Palette) styles {
	role := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(themedomain.Hex(p.Accent))).MarginBottom(1),
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(themedomain.Hex(p.Grid))),
		blank:  lipgloss.NewStyle().Faint(true),
		roles: map[leaderboarddomain.Role]lipgloss.Style{
			leaderboarddomain.RoleYou:   role(lipgloss.Color(themedomain.Hex(p.You))).Bold(true),
			leaderboarddomain.RoleBot:   role(lipgloss.Color(themedomain.Hex(p.Bot))),
			leaderboarddomain.RoleOther: role(lipgloss.Color(themedomain.Hex(p.Other))),
		},
	}
}

// Terminal draws the board to a writer. In live mode the whole table is
// redrawn after every slot change.
type Terminal struct {
	board  *Board
	styles styles

	mu   sync.Mutex
	out  io.Writer
	live bool
}

// NewTerminal creates a terminal display coloured with palette.
func NewTerminal(out io.Writer, palette themedomain.Palette, live bool) *Terminal {
	return &Terminal{
		board:  NewBoard(),
		styles: newStyles(palette),
		out:    out,
		live:   live,
	}
}

func (t *Terminal) RemoveSlot(index int) {
	t.board.RemoveSlot(index)
	t.redraw()
}

func (t *Terminal) CreateSlot(index int) {
	t.board.CreateSlot(index)
	t.redraw()
}

func (t *Terminal) PopulateSlot(slot leaderboarddomain.Slot) {
	t.board.PopulateSlot(slot)
	t.redraw()
}

// Flush writes the current table once.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.out, t.Render())
	return err
}

func (t *Terminal) redraw() {
	if !t.live {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, clearScreen+t.Render())
}

// Render formats the board as a table.
func (t *Terminal) Render() string {
	rows := t.board.Rows()

	var b strings.Builder
	b.WriteString(t.styles.title.Render("Leaderboard") + "\n")
	b.WriteString(t.styles.header.Render(fmt.Sprintf("%-5s %-28s %10s %12s", "Pos", "Name", "Score", "W/L/D")) + "\n")

	if len(rows) == 0 {
		b.WriteString(t.styles.blank.Render("No entries yet.") + "\n")
		return b.String()
	}
	for _, r := range rows {
		if r.Blank {
			b.WriteString(t.styles.blank.Render(fmt.Sprintf("%-5s %-28s", "…", "")) + "\n")
			continue
		}
		line := fmt.Sprintf("%-5s %-28s %10s %12s", r.Position, truncate(r.Name, 28), r.Score, r.Record())
		b.WriteString(t.styles.roles[r.Role].Render(line) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

var _ leaderboardservice.Display = (*Terminal)(nil)
