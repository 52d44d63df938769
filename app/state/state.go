// Package state persists the little client-side state the portal keeps
// between runs: preference cookies, backend session cookies and the
// leaderboard "intro seen" flag.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type document struct {
	Cookies   map[string]string `yaml:"cookies,omitempty"`
	Session   []sessionCookie   `yaml:"session,omitempty"`
	IntroSeen bool              `yaml:"intro_seen"`
}

type sessionCookie struct {
	Name    string    `yaml:"name"`
	Value   string    `yaml:"value"`
	Path    string    `yaml:"path,omitempty"`
	Expires time.Time `yaml:"expires,omitempty"`
}

// Store is a YAML file holding client state. Every mutation is written
// through to disk.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Open loads the state file at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, doc: document{Cookies: map[string]string{}}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file %s: %w", path, err)
	}
	if s.doc.Cookies == nil {
		s.doc.Cookies = map[string]string{}
	}
	return s, nil
}

// Cookie returns a stored preference cookie.
func (s *Store) Cookie(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Cookies[name]
	return v, ok
}

// SetCookie stores a preference cookie.
func (s *Store) SetCookie(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Cookies[name] = value
	return s.saveLocked()
}

// IntroSeen reports whether the leaderboard intro animation has played.
func (s *Store) IntroSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.IntroSeen
}

// MarkIntroSeen records that the intro animation has played.
func (s *Store) MarkIntroSeen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.IntroSeen {
		return nil
	}
	s.doc.IntroSeen = true
	return s.saveLocked()
}

// ResetIntro clears the intro flag so the next render animates again.
func (s *Store) ResetIntro() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.IntroSeen = false
	return s.saveLocked()
}

// SessionCookies returns the unexpired backend session cookies.
func (s *Store) SessionCookies(now time.Time) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*http.Cookie, 0, len(s.doc.Session))
	for _, c := range s.doc.Session {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	return out
}

// MergeSessionCookies upserts cookies by name. A cookie with MaxAge < 0 or an
// empty value deletes the stored entry.
func (s *Store) MergeSessionCookies(cookies []*http.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cookies {
		idx := -1
		for i, existing := range s.doc.Session {
			if existing.Name == c.Name {
				idx = i
				break
			}
		}
		if c.MaxAge < 0 || c.Value == "" {
			if idx >= 0 {
				s.doc.Session = append(s.doc.Session[:idx], s.doc.Session[idx+1:]...)
			}
			continue
		}
		entry := sessionCookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires}
		if idx >= 0 {
			s.doc.Session[idx] = entry
		} else {
			s.doc.Session = append(s.doc.Session, entry)
		}
	}
	return s.saveLocked()
}

// ClearSession forgets every backend session cookie.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Session = nil
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
