package submissionservice

import "errors"

var (
	ErrEmptyURL    = errors.New("repository URL is empty")
	ErrEmptyName   = errors.New("bot name is empty")
	ErrRenderChart = errors.New("failed to render summary chart")
)
