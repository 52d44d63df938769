package state

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Jar is an http.CookieJar that writes cookies set by the portal backend
// through to a Store, so a login survives between CLI invocations.
type Jar struct {
	inner *cookiejar.Jar
	store *Store
	base  *url.URL
	now   func() time.Time
}

// NewJar creates a Jar scoped to base and seeds it from store.
func NewJar(store *Store, base *url.URL) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	j := &Jar{inner: inner, store: store, base: base, now: time.Now}
	inner.SetCookies(base, store.SessionCookies(j.now()))
	return j, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
	if u.Host != j.base.Host {
		return
	}
	// Persistence is best effort; the in-memory jar already holds the cookies.
	_ = j.store.MergeSessionCookies(cookies)
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Clear drops every session cookie from memory and disk.
func (j *Jar) Clear() error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to reset cookie jar: %w", err)
	}
	j.inner = inner
	return j.store.ClearSession()
}
