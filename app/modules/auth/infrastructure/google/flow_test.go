package authgoogle

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cuwais/cuwais-portal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenAssertion_IDToken(t *testing.T) {
	assert.Equal(t, "", TokenAssertion{}.IDToken())

	tok := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{"id_token": "header.payload.sig"})
	assert.Equal(t, "header.payload.sig", TokenAssertion{Token: tok}.IDToken())
}

func TestNewFlow_RequiresClientID(t *testing.T) {
	_, err := NewFlow(config.GoogleConfig{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, ErrMissingClientID)
}

func TestFlow_Assert(t *testing.T) {
	var gotForm url.Values
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"the-id-token"}`)
	}))
	defer tokenSrv.Close()

	var authURL *url.URL
	open := func(raw string) error {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		authURL = u
		q := u.Query()
		callback := q.Get("redirect_uri") + "?state=" + url.QueryEscape(q.Get("state")) + "&code=auth-code"
		go func() {
			resp, err := http.Get(callback)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}

	flow, err := NewFlow(config.GoogleConfig{
		ClientID:     "client",
		HostedDomain: "warwick.ac.uk",
		CallbackAddr: "127.0.0.1:0",
	}, open, slog.New(slog.NewTextHandler(io.Discard, nil)), WithEndpoint(oauth2.Endpoint{
		AuthURL:   tokenSrv.URL + "/auth",
		TokenURL:  tokenSrv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assertion, err := flow.Assert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "the-id-token", assertion.IDToken())

	require.NotNil(t, authURL)
	assert.Equal(t, "S256", authURL.Query().Get("code_challenge_method"))
	assert.Equal(t, "warwick.ac.uk", authURL.Query().Get("hd"))
	assert.Equal(t, "auth-code", gotForm.Get("code"))
	assert.NotEmpty(t, gotForm.Get("code_verifier"))
}

func TestCallbackRouter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantErr  error
		wantAuth string
	}{
		{name: "valid", query: "state=s&code=c", wantCode: http.StatusOK, wantAuth: "c"},
		{name: "denied", query: "state=s&error=access_denied", wantCode: http.StatusBadRequest, wantErr: ErrConsentDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			rr := httptest.NewRecorder()
			callbackRouter("s", results).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, callbackPath+"?"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			res := <-results
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
				return
			}
			assert.NoError(t, res.err)
			assert.Equal(t, tt.wantAuth, res.code)
		})
	}
}

func TestCallbackRouter_StrayRequestKeepsWaiting(t *testing.T) {
	results := make(chan callbackResult, 1)
	h := callbackRouter("s", results)

	for _, query := range []string{"state=x&code=forged", "code=c", "state=x&error=access_denied"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, callbackPath+"?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, query)
	}
	select {
	case res := <-results:
		t.Fatalf("stray callback was delivered: %+v", res)
	default:
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, callbackPath+"?state=s&code=real", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	res := <-results
	assert.NoError(t, res.err)
	assert.Equal(t, "real", res.code)
}
