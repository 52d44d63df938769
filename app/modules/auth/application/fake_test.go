package authservice

import (
	"context"

	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	authjwt "github.com/cuwais/cuwais-portal/app/modules/auth/infrastructure/jwt"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// ------------------------
// Fake Login API
// ------------------------

type FakeLoginAPI struct {
	trace  []string
	tokens []string

	LoginGoogleFunc func(ctx context.Context, idToken string) (portalapi.Result, error)
	GetUserFunc     func(ctx context.Context) (portalapi.Account, error)
	RemoveUserFunc  func(ctx context.Context) (portalapi.Result, error)
}

func (f *FakeLoginAPI) Trace() []string { return f.trace }

func (f *FakeLoginAPI) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeLoginAPI) LoginGoogle(ctx context.Context, idToken string) (portalapi.Result, error) {
	f.record("LoginGoogle")
	f.tokens = append(f.tokens, idToken)
	if f.LoginGoogleFunc != nil {
		return f.LoginGoogleFunc(ctx, idToken)
	}
	return portalapi.Result{Status: portalapi.StatusSuccess}, nil
}

func (f *FakeLoginAPI) GetUser(ctx context.Context) (portalapi.Account, error) {
	f.record("GetUser")
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx)
	}
	return portalapi.Account{Expiry: -1}, nil
}

func (f *FakeLoginAPI) RemoveUser(ctx context.Context) (portalapi.Result, error) {
	f.record("RemoveUser")
	if f.RemoveUserFunc != nil {
		return f.RemoveUserFunc(ctx)
	}
	return portalapi.Result{Status: portalapi.StatusSuccess}, nil
}

// ------------------------
// Fake Inspector
// ------------------------

type FakeInspector struct {
	InspectFunc func(tokenString string) (*authdomain.Identity, error)
}

func (f *FakeInspector) Inspect(tokenString string) (*authdomain.Identity, error) {
	if f.InspectFunc != nil {
		return f.InspectFunc(tokenString)
	}
	return nil, authjwt.ErrInvalidToken
}

// ------------------------
// Fake page (banner + navigator + sessions)
// ------------------------

type FakePage struct {
	trace     []string
	ClearFunc func() error
}

func (f *FakePage) Trace() []string { return f.trace }

func (f *FakePage) record(step string) { f.trace = append(f.trace, step) }

func (f *FakePage) ShowLoginError(message string) { f.record("ShowLoginError:" + message) }

func (f *FakePage) Redirect(path string) { f.record("Redirect:" + path) }

func (f *FakePage) Clear() error {
	f.record("Clear")
	if f.ClearFunc != nil {
		return f.ClearFunc()
	}
	return nil
}

var (
	_ LoginAPI          = (*FakeLoginAPI)(nil)
	_ authjwt.Inspector = (*FakeInspector)(nil)
	_ Banner            = (*FakePage)(nil)
	_ Navigator         = (*FakePage)(nil)
	_ SessionStore      = (*FakePage)(nil)
)
