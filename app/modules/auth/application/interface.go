package authservice

import (
	"context"

	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// Service bridges an identity provider's sign-in callback to the portal
// session.
type Service interface {
	// OnSignIn forwards the assertion's identity token to the portal and
	// navigates to the landing page, or reveals the login error banner.
	OnSignIn(ctx context.Context, assertion authdomain.Assertion) error

	// Logout forgets the portal session and navigates to the root page.
	Logout(ctx context.Context) error

	// Account reports who the current session belongs to.
	Account(ctx context.Context) (portalapi.Account, error)

	// DeleteAccount removes the signed-in user from the portal, then forgets
	// the session like Logout. A rejection is shown on the banner.
	DeleteAccount(ctx context.Context) error
}

// LoginAPI is the part of the portal client the bridge needs.
type LoginAPI interface {
	LoginGoogle(ctx context.Context, idToken string) (portalapi.Result, error)
	GetUser(ctx context.Context) (portalapi.Account, error)
	RemoveUser(ctx context.Context) (portalapi.Result, error)
}

// Banner is the persistent login error banner.
type Banner interface {
	ShowLoginError(message string)
}

// Navigator replaces the current page.
type Navigator interface {
	Redirect(path string)
}

// SessionStore holds the portal session cookies.
type SessionStore interface {
	Clear() error
}
