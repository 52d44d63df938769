package authservice

import "errors"

var (
	// ErrMissingIDToken is returned when the assertion carries no identity token.
	ErrMissingIDToken = errors.New("identity provider returned no id token")

	// ErrExpiredIDToken is returned when the identity token expired before it
	// could be sent.
	ErrExpiredIDToken = errors.New("identity token has expired")
)

// Banner text for failures that are not portal API errors.
const (
	msgMissingToken = "Sign-in did not return an identity token. Please try again."
	msgExpiredToken = "Your sign-in expired before it could be completed. Please try again."
)
