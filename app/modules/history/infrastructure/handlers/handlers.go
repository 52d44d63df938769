package historyhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	historyservice "github.com/cuwais/cuwais-portal/app/modules/history/application"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// PaletteFunc resolves the chart palette for a request.
type PaletteFunc func(w http.ResponseWriter, r *http.Request) themedomain.Palette

// HistoryHandlers serves the score history chart.
type HistoryHandlers struct {
	service historyservice.Service
	palette PaletteFunc
	now     func() time.Time
	logger  *slog.Logger
}

func NewHistoryHandlers(service historyservice.Service, palette PaletteFunc, now func() time.Time, logger *slog.Logger) *HistoryHandlers {
	return &HistoryHandlers{service: service, palette: palette, now: now, logger: logger}
}

// HandleChart renders the chart. Query parameters: since (any window
// ParseSince accepts) and format (png or svg).
func (h *HistoryHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	since, err := historyservice.ParseSince(q.Get("since"), h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format := historyservice.Format(q.Get("format"))

	out, err := h.service.Chart(ctx, historyservice.ChartOptions{
		Since:   since,
		Palette: h.palette(w, r),
		Format:  format,
	})
	switch {
	case errors.Is(err, historyservice.ErrUnknownFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "Failed to render history chart", slog.Any("error", err))
		http.Error(w, portalapi.Message(err), http.StatusBadGateway)
		return
	}

	contentType := "image/png"
	if format == historyservice.FormatSVG && !isPNG(out) {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

// isPNG spots the no-data placeholder, which is always a PNG.
func isPNG(b []byte) bool {
	return len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n"
}
