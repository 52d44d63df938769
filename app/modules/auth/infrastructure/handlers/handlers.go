package authhandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	authservice "github.com/cuwais/cuwais-portal/app/modules/auth/application"
	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/app/ui"
)

// ServiceFactory builds an auth service reporting to a request-scoped page.
type ServiceFactory func(banner authservice.Banner, navigator authservice.Navigator) authservice.Service

// AuthHandlers serves the sign-in callback and logout for the dashboard.
type AuthHandlers struct {
	newService ServiceFactory
	logger     *slog.Logger
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(newService ServiceFactory, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{newService: newService, logger: logger}
}

// tokenFields are the form fields an identity widget may post the token in.
var tokenFields = []string{"credential", "id_token", "idtoken"}

// HandleSignIn is the identity provider's sign-in callback.
func (h *AuthHandlers) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	var token string
	for _, f := range tokenFields {
		if token = r.PostForm.Get(f); token != "" {
			break
		}
	}

	page := ui.NewPage(nil, nil)
	if err := h.newService(page, page).OnSignIn(ctx, authdomain.RawIDToken(token)); err != nil {
		h.logger.WarnContext(ctx, "Sign-in rejected", slog.Any("error", err))
		writeState(w, http.StatusUnauthorized, page.State())
		return
	}
	http.Redirect(w, r, page.State().Redirect, http.StatusSeeOther)
}

// HandleLogout forgets the portal session.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := ui.NewPage(nil, nil)
	if err := h.newService(page, page).Logout(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, page.State().Redirect, http.StatusSeeOther)
}

type accountResponse struct {
	SignedIn  bool           `json:"signed_in"`
	User      map[string]any `json:"user,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// HandleAccount reports who the dashboard's portal session belongs to.
func (h *AuthHandlers) HandleAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := ui.NewPage(nil, nil)
	account, err := h.newService(page, page).Account(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch account", slog.Any("error", err))
		http.Error(w, portalapi.Message(err), http.StatusBadGateway)
		return
	}

	resp := accountResponse{SignedIn: account.SignedIn(), User: account.User}
	if exp := account.ExpiresAt(); !exp.IsZero() {
		resp.ExpiresAt = &exp
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeState(w http.ResponseWriter, status int, state ui.State) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(state)
}
