package authhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/app/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandlers_HandleSignIn(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name      string
		form      url.Values
		setup     func(*FakeService)
		wantTrace []string
		verify    func(t *testing.T, rr *httptest.ResponseRecorder)
	}{
		{
			name:      "credential field from the identity widget",
			form:      url.Values{"credential": {"tok-1"}},
			wantTrace: []string{"OnSignIn:tok-1"},
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusSeeOther, rr.Code)
				assert.Equal(t, "/", rr.Header().Get("Location"))
			},
		},
		{
			name:      "id_token field",
			form:      url.Values{"id_token": {"tok-2"}},
			wantTrace: []string{"OnSignIn:tok-2"},
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusSeeOther, rr.Code)
			},
		},
		{
			name: "rejection shows the banner message",
			form: url.Values{"credential": {"tok-3"}},
			setup: func(s *FakeService) {
				s.OnSignInFunc = func(_ context.Context, s *FakeService, _ string) error {
					s.banner.ShowLoginError("Not a Cambridge account")
					return errors.New("rejected")
				}
			},
			wantTrace: []string{"OnSignIn:tok-3"},
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rr.Code)
				var state ui.State
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
				assert.Equal(t, "Not a Cambridge account", state.Error)
			},
		},
		{
			name:      "missing token still reaches the service",
			form:      url.Values{},
			wantTrace: []string{"OnSignIn:"},
			setup: func(s *FakeService) {
				s.OnSignInFunc = func(_ context.Context, s *FakeService, _ string) error {
					s.banner.ShowLoginError("No identity token")
					return errors.New("missing")
				}
			},
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := NewAuthHandlers(svc.factory(), logger)

			req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()

			h.HandleSignIn(rr, req)

			assert.Equal(t, tt.wantTrace, svc.Trace())
			tt.verify(t, rr)
		})
	}
}

func TestAuthHandlers_HandleLogout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("redirects to the root", func(t *testing.T) {
		svc := &FakeService{}
		rr := httptest.NewRecorder()

		NewAuthHandlers(svc.factory(), logger).HandleLogout(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})

	t.Run("session store failure", func(t *testing.T) {
		svc := &FakeService{LogoutFunc: func(context.Context, *FakeService) error { return errors.New("disk full") }}
		rr := httptest.NewRecorder()

		NewAuthHandlers(svc.factory(), logger).HandleLogout(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestAuthHandlers_HandleAccount(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		account func(context.Context) (portalapi.Account, error)
		verify  func(t *testing.T, rr *httptest.ResponseRecorder)
	}{
		{
			name: "signed in",
			account: func(context.Context) (portalapi.Account, error) {
				return portalapi.Account{User: map[string]any{"nickname": "Swift Otter"}, Expiry: 1773835200}, nil
			},
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rr.Code)
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, true, body["signed_in"])
				assert.Equal(t, "Swift Otter", body["user"].(map[string]any)["nickname"])
				assert.Contains(t, body, "expires_at")
			},
		},
		{
			name: "signed out",
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rr.Code)
				assert.JSONEq(t, `{"signed_in": false}`, rr.Body.String())
			},
		},
		{
			name: "portal unreachable",
			account: func(context.Context) (portalapi.Account, error) {
				return portalapi.Account{}, &portalapi.TransportError{Endpoint: portalapi.EndpointGetUser, Err: errors.New("connection refused")}
			},
			verify: func(t *testing.T, rr *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadGateway, rr.Code)
				assert.Contains(t, rr.Body.String(), "Could not reach the portal")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{AccountFunc: tt.account}
			rr := httptest.NewRecorder()

			NewAuthHandlers(svc.factory(), logger).HandleAccount(rr, httptest.NewRequest(http.MethodGet, "/auth/account", nil))

			assert.Equal(t, []string{"Account"}, svc.Trace())
			tt.verify(t, rr)
		})
	}
}
