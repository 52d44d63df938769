package authjwt

import (
	"fmt"
	"time"

	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	"github.com/golang-jwt/jwt/v5"
)

// googleClaims is the subset of a Google ID token the client looks at.
type googleClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	HostedDomain string `json:"hd,omitempty"`
}

type inspector struct {
	now    func() time.Time
	leeway time.Duration
}

// NewInspector creates an Inspector. now defaults to time.Now.
func NewInspector(now func() time.Time, leeway time.Duration) Inspector {
	if now == nil {
		now = time.Now
	}
	return &inspector{now: now, leeway: leeway}
}

// Inspect decodes tokenString. It returns ErrInvalidToken for anything that
// is not a JWT and ErrExpiredToken when exp is in the past.
func (i *inspector) Inspect(tokenString string) (*authdomain.Identity, error) {
	claims := &googleClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	identity := &authdomain.Identity{
		Subject:      claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		HostedDomain: claims.HostedDomain,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	if identity.IsExpired(i.now().Add(-i.leeway)) {
		return identity, ErrExpiredToken
	}
	return identity, nil
}
