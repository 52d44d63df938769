package themeservice

// CookieStore reads and writes preference cookies.
type CookieStore interface {
	Cookie(name string) (string, bool)
	SetCookie(name, value string) error
}
