package submissionhandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	submissionservice "github.com/cuwais/cuwais-portal/app/modules/submission/application"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/app/ui"
	"github.com/go-chi/chi/v5"
)

// ServiceFactory builds a submission service reporting to view.
type ServiceFactory func(view submissionservice.View) submissionservice.Service

// PaletteFunc resolves the chart palette for a request.
type PaletteFunc func(w http.ResponseWriter, r *http.Request) themedomain.Palette

// SubmissionHandlers serves the submission forms and charts of the dashboard.
type SubmissionHandlers struct {
	newService ServiceFactory
	palette    PaletteFunc
	logger     *slog.Logger
}

func NewSubmissionHandlers(newService ServiceFactory, palette PaletteFunc, logger *slog.Logger) *SubmissionHandlers {
	return &SubmissionHandlers{newService: newService, palette: palette, logger: logger}
}

type actionResponse struct {
	ui.State
	Enabled *bool `json:"enabled,omitempty"`
}

// HandleAdd submits a repository URL, or a bot when a name is posted too.
func (h *SubmissionHandlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	page := ui.NewPage(nil, nil)
	svc := h.newService(page)

	var err error
	if name := r.PostForm.Get("name"); name != "" {
		err = svc.SubmitBot(r.Context(), r.PostForm.Get("url"), name)
	} else {
		err = svc.Submit(r.Context(), r.PostForm.Get("url"))
	}
	h.respond(w, r, err, actionResponse{State: page.State()})
}

// HandleSetEnabled toggles a submission. The form carries the desired
// state and, optionally, the checkbox state before the click.
func (h *SubmissionHandlers) HandleSetEnabled(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	enabled, err := strconv.ParseBool(r.PostForm.Get("enabled"))
	if err != nil {
		http.Error(w, "enabled must be true or false", http.StatusBadRequest)
		return
	}
	// Without the pre-click state, assume the click flipped the box.
	current := !enabled
	if v := r.PostForm.Get("current"); v != "" {
		if current, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "current must be true or false", http.StatusBadRequest)
			return
		}
	}

	page := ui.NewPage(nil, nil)
	box := ui.NewCheckbox(current)
	err = h.newService(page).SetEnabled(r.Context(), portalapi.ID(chi.URLParam(r, "id")), enabled, box)

	checked := box.Checked()
	h.respond(w, r, err, actionResponse{State: page.State(), Enabled: &checked})
}

// HandleDeleteBot removes a house bot.
func (h *SubmissionHandlers) HandleDeleteBot(w http.ResponseWriter, r *http.Request) {
	page := ui.NewPage(nil, nil)
	err := h.newService(page).DeleteBot(r.Context(), portalapi.ID(chi.URLParam(r, "id")))
	h.respond(w, r, err, actionResponse{State: page.State()})
}

// HandleList returns the signed-in user's submissions.
func (h *SubmissionHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newService(ui.NewPage(nil, nil)).ListSubmissions(r.Context())
	if err != nil {
		http.Error(w, portalapi.Message(err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleSummaryChart renders a submission's outcome bar chart.
func (h *SubmissionHandlers) HandleSummaryChart(w http.ResponseWriter, r *http.Request) {
	palette := h.palette(w, r)
	png, err := h.newService(ui.NewPage(nil, nil)).SummaryChart(r.Context(), portalapi.ID(chi.URLParam(r, "id")), palette)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render summary chart", slog.Any("error", err))
		http.Error(w, portalapi.Message(err), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// respond reports a rejected action as 422 with the banner text; anything
// the view already handled is a 200.
func (h *SubmissionHandlers) respond(w http.ResponseWriter, r *http.Request, err error, resp actionResponse) {
	if err != nil {
		h.logger.WarnContext(r.Context(), "Submission action failed", slog.Any("error", err))
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
