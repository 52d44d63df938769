package leaderboardhandlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	leaderboarddisplay "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/display"
	leaderboardevents "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/events"
	leaderboardexport "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/export"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Rows is the rendered board the page and snapshot are drawn from.
type Rows interface {
	Rows() []leaderboarddisplay.Row
}

// Ranking exposes the ranking most recently applied by the updater.
type Ranking interface {
	Current() []leaderboarddomain.Entry
}

// ThemeFunc resolves the active theme for a request.
type ThemeFunc func(w http.ResponseWriter, r *http.Request) (themedomain.Theme, themedomain.Stylesheet)

// LeaderboardHandlers serves the dashboard page and leaderboard downloads.
type LeaderboardHandlers struct {
	board          Rows
	ranking        Ranking
	theme          ThemeFunc
	googleClientID string
	now            func() time.Time
	logger         *slog.Logger
}

func NewLeaderboardHandlers(
	board Rows,
	ranking Ranking,
	theme ThemeFunc,
	googleClientID string,
	now func() time.Time,
	logger *slog.Logger,
) *LeaderboardHandlers {
	return &LeaderboardHandlers{
		board:          board,
		ranking:        ranking,
		theme:          theme,
		googleClientID: googleClientID,
		now:            now,
		logger:         logger,
	}
}

// HandleIndex renders the dashboard with the board as it stands. Later slot
// operations arrive over the event stream.
func (h *LeaderboardHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	theme, sheet := h.theme(w, r)
	data := indexData{
		Theme:          string(theme),
		Stylesheet:     sheet,
		Rows:           h.board.Rows(),
		GoogleClientID: h.googleClientID,
		StreamPath:     leaderboardevents.StreamPath,
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render dashboard", slog.Any("error", err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type snapshotRow struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	Score    string `json:"score"`
	Role     string `json:"role"`
	Record   string `json:"record"`
	Blank    bool   `json:"blank,omitempty"`
}

// HandleSnapshot returns the board rows as JSON.
func (h *LeaderboardHandlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	rows := h.board.Rows()
	out := make([]snapshotRow, 0, len(rows))
	for _, row := range rows {
		if row.Blank {
			out = append(out, snapshotRow{Blank: true})
			continue
		}
		out = append(out, snapshotRow{
			Position: row.Position,
			Name:     row.Name,
			Score:    row.Score,
			Role:     string(row.Role),
			Record:   row.Record(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// HandleExport downloads the current ranking as a spreadsheet.
func (h *LeaderboardHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	var buf bytes.Buffer
	if err := leaderboardexport.WriteXLSX(&buf, h.ranking.Current(), now); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to export leaderboard", slog.Any("error", err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard-`+now.Format("20060102")+`.xlsx"`)
	_, _ = buf.WriteTo(w)
}
