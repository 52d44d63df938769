package authdomain

import "time"

// Assertion is what an identity provider hands back after sign-in. Only the
// opaque identity token is ever forwarded to the portal.
type Assertion interface {
	IDToken() string
}

// RawIDToken is an Assertion wrapping a token obtained out of band.
type RawIDToken string

func (t RawIDToken) IDToken() string { return string(t) }

// Identity is the locally decoded, unverified content of an identity token.
type Identity struct {
	Subject      string
	Email        string
	Name         string
	HostedDomain string
	ExpiresAt    time.Time
}

// IsExpired reports whether the token had expired at now.
func (i *Identity) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
