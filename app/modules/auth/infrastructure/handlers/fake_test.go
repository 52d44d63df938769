package authhandlers

import (
	"context"

	authservice "github.com/cuwais/cuwais-portal/app/modules/auth/application"
	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// FakeService is wired to the request's page through the factory.
type FakeService struct {
	trace     []string
	banner    authservice.Banner
	navigator authservice.Navigator

	OnSignInFunc func(ctx context.Context, s *FakeService, token string) error
	LogoutFunc   func(ctx context.Context, s *FakeService) error
	AccountFunc  func(ctx context.Context) (portalapi.Account, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) OnSignIn(ctx context.Context, assertion authdomain.Assertion) error {
	f.trace = append(f.trace, "OnSignIn:"+assertion.IDToken())
	if f.OnSignInFunc != nil {
		return f.OnSignInFunc(ctx, f, assertion.IDToken())
	}
	f.navigator.Redirect("/")
	return nil
}

func (f *FakeService) Logout(ctx context.Context) error {
	f.trace = append(f.trace, "Logout")
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx, f)
	}
	f.navigator.Redirect("/")
	return nil
}

func (f *FakeService) Account(ctx context.Context) (portalapi.Account, error) {
	f.trace = append(f.trace, "Account")
	if f.AccountFunc != nil {
		return f.AccountFunc(ctx)
	}
	return portalapi.Account{Expiry: -1}, nil
}

func (f *FakeService) DeleteAccount(ctx context.Context) error {
	f.trace = append(f.trace, "DeleteAccount")
	f.navigator.Redirect("/")
	return nil
}

func (f *FakeService) factory() ServiceFactory {
	return func(banner authservice.Banner, navigator authservice.Navigator) authservice.Service {
		f.banner, f.navigator = banner, navigator
		return f
	}
}

var _ authservice.Service = (*FakeService)(nil)
