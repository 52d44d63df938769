package authjwt

import "errors"

var (
	// ErrInvalidToken is returned when the token is not a decodable JWT.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the token's exp claim has passed.
	ErrExpiredToken = errors.New("token has expired")
)
