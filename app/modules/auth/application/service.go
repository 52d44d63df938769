package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	authjwt "github.com/cuwais/cuwais-portal/app/modules/auth/infrastructure/jwt"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// Config holds the configuration for the auth service.
type Config struct {
	LandingPath string
}

type service struct {
	api       LoginAPI
	inspector authjwt.Inspector
	sessions  SessionStore
	banner    Banner
	navigator Navigator
	config    Config
	telemetry observability.Telemetry
	logger    *slog.Logger
}

// NewService creates a new auth service.
func NewService(
	api LoginAPI,
	inspector authjwt.Inspector,
	sessions SessionStore,
	banner Banner,
	navigator Navigator,
	config Config,
	telemetry observability.Telemetry,
) Service {
	if config.LandingPath == "" {
		config.LandingPath = "/"
	}
	logger := telemetry.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		api:       api,
		inspector: inspector,
		sessions:  sessions,
		banner:    banner,
		navigator: navigator,
		config:    config,
		telemetry: telemetry,
		logger:    logger,
	}
}

func (s *service) OnSignIn(ctx context.Context, assertion authdomain.Assertion) error {
	_, err := observability.WithTelemetry(ctx, s.telemetry, "OnSignIn", "google", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.signIn(ctx, assertion)
	})
	return err
}

func (s *service) signIn(ctx context.Context, assertion authdomain.Assertion) error {
	token := ""
	if assertion != nil {
		token = assertion.IDToken()
	}
	if token == "" {
		s.banner.ShowLoginError(msgMissingToken)
		return ErrMissingIDToken
	}

	// Opaque tokens cannot be inspected; only a decodable, expired token is
	// rejected locally.
	identity, err := s.inspector.Inspect(token)
	switch {
	case errors.Is(err, authjwt.ErrExpiredToken):
		s.banner.ShowLoginError(msgExpiredToken)
		return ErrExpiredIDToken
	case err == nil:
		s.logger.DebugContext(ctx, "Identity token decoded",
			slog.String("subject", identity.Subject),
			slog.Time("expires_at", identity.ExpiresAt),
		)
	}

	res, err := s.api.LoginGoogle(ctx, token)
	if err == nil {
		err = res.Err()
	}
	if err != nil {
		s.banner.ShowLoginError(portalapi.Message(err))
		return fmt.Errorf("portal login failed: %w", err)
	}

	s.navigator.Redirect(s.config.LandingPath)
	return nil
}

func (s *service) Logout(ctx context.Context) error {
	_, err := observability.WithTelemetry(ctx, s.telemetry, "Logout", "session", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.forget()
	})
	return err
}

func (s *service) forget() error {
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.navigator.Redirect("/")
	return nil
}

func (s *service) Account(ctx context.Context) (portalapi.Account, error) {
	return observability.WithTelemetry(ctx, s.telemetry, "Account", "session", s.api.GetUser)
}

func (s *service) DeleteAccount(ctx context.Context) error {
	_, err := observability.WithTelemetry(ctx, s.telemetry, "DeleteAccount", "session", func(ctx context.Context) (struct{}, error) {
		res, err := s.api.RemoveUser(ctx)
		if err == nil {
			err = res.Err()
		}
		if err != nil {
			s.banner.ShowLoginError(portalapi.Message(err))
			return struct{}{}, fmt.Errorf("portal refused to remove account: %w", err)
		}
		s.logger.InfoContext(ctx, "Portal account removed")
		return struct{}{}, s.forget()
	})
	return err
}
