// Package authgoogle obtains a Google identity token for the CLI with a
// loopback OAuth2 authorisation-code flow protected by PKCE.
package authgoogle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	"github.com/cuwais/cuwais-portal/config"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const callbackPath = "/callback"

var (
	ErrMissingClientID = errors.New("google client id is not configured")
	ErrConsentDenied   = errors.New("sign-in was cancelled")
)

// TokenAssertion adapts an OAuth2 token response to an Assertion.
type TokenAssertion struct {
	Token *oauth2.Token
}

// IDToken returns the id_token member of the token response.
func (a TokenAssertion) IDToken() string {
	if a.Token == nil {
		return ""
	}
	s, _ := a.Token.Extra("id_token").(string)
	return s
}

// Opener shows the authorisation URL to the user, usually by launching a
// browser.
type Opener func(authURL string) error

// Flow runs the loopback sign-in.
type Flow struct {
	clientID     string
	clientSecret string
	hostedDomain string
	addr         string
	endpoint     oauth2.Endpoint
	open         Opener
	logger       *slog.Logger
}

// Option customises a Flow.
type Option func(*Flow)

// WithEndpoint replaces the Google endpoint.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(f *Flow) { f.endpoint = e }
}

// NewFlow creates a Flow from the Google client settings.
func NewFlow(cfg config.GoogleConfig, open Opener, logger *slog.Logger, opts ...Option) (*Flow, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	f := &Flow{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		hostedDomain: cfg.HostedDomain,
		addr:         cfg.CallbackAddr,
		endpoint:     google.Endpoint,
		open:         open,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

type callbackResult struct {
	code string
	err  error
}

// Assert runs the flow until the user completes sign-in or ctx ends.
func (f *Flow) Assert(ctx context.Context) (authdomain.Assertion, error) {
	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for oauth callback: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		Endpoint:     f.endpoint,
		Scopes:       []string{"openid", "email", "profile"},
		RedirectURL:  "http://" + ln.Addr().String() + callbackPath,
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authOpts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier)}
	if f.hostedDomain != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("hd", f.hostedDomain))
	}
	authURL := oauthCfg.AuthCodeURL(state, authOpts...)

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackRouter(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("OAuth callback server stopped", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	f.logger.InfoContext(ctx, "Open this URL to sign in", slog.String("url", authURL))
	if f.open != nil {
		if err := f.open(authURL); err != nil {
			f.logger.WarnContext(ctx, "Could not open browser", slog.Any("error", err))
		}
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := oauthCfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorisation code: %w", err)
	}
	return TokenAssertion{Token: token}, nil
}

func callbackRouter(state string, results chan<- callbackResult) http.Handler {
	deliver := func(res callbackResult) {
		select {
		case results <- res:
		default:
		}
	}

	r := chi.NewRouter()
	r.Get(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// A request without our state is not the redirect we wait for.
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}
		if e := q.Get("error"); e != "" {
			http.Error(w, "sign-in failed: "+e, http.StatusBadRequest)
			deliver(callbackResult{err: fmt.Errorf("%w: %s", ErrConsentDenied, e)})
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			deliver(callbackResult{err: errors.New("callback carried no authorisation code")})
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Signed in. You can close this window and return to the terminal.\n"))
		deliver(callbackResult{code: code})
	})
	return r
}
