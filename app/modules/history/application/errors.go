package historyservice

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown chart format")
	ErrBadSince      = errors.New("unrecognised time window")
)
