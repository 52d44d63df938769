// Package themecookies adapts HTTP request/response cookies to the theme
// cookie store.
package themecookies

import (
	"net/http"
	"time"
)

const maxAge = 365 * 24 * time.Hour

// HTTPStore reads cookies from a request and writes them to the response.
// Writes are visible to later reads on the same store.
type HTTPStore struct {
	r       *http.Request
	w       http.ResponseWriter
	secure  bool
	written map[string]string
}

func NewHTTPStore(w http.ResponseWriter, r *http.Request, secure bool) *HTTPStore {
	return &HTTPStore{r: r, w: w, secure: secure, written: map[string]string{}}
}

func (s *HTTPStore) Cookie(name string) (string, bool) {
	if v, ok := s.written[name]; ok {
		return v, true
	}
	c, err := s.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *HTTPStore) SetCookie(name, value string) error {
	s.written[name] = value
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(maxAge),
	})
	return nil
}
