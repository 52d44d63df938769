package submissionservice

import (
	"context"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// Service manages the signed-in user's submissions and, for admins, bots.
type Service interface {
	Submit(ctx context.Context, repoURL string) error
	SubmitBot(ctx context.Context, repoURL, name string) error
	// SetEnabled flips toggle optimistically and restores it if the portal
	// rejects the change.
	SetEnabled(ctx context.Context, id portalapi.ID, enabled bool, toggle Toggle) error
	DeleteBot(ctx context.Context, id portalapi.ID) error
	SetNameVisible(ctx context.Context, visible bool) error
	DeleteSubmission(ctx context.Context, id portalapi.ID) error

	ListSubmissions(ctx context.Context) ([]portalapi.Submission, error)
	ListBots(ctx context.Context) ([]portalapi.Bot, error)
	IsTesting(ctx context.Context, id portalapi.ID) (bool, error)
	Summary(ctx context.Context, id portalapi.ID) (portalapi.SubmissionSummary, error)
	SummaryChart(ctx context.Context, id portalapi.ID, palette themedomain.Palette) ([]byte, error)
}

// API is the part of the portal client the service needs.
type API interface {
	AddSubmission(ctx context.Context, repoURL string) (portalapi.Result, error)
	AddBot(ctx context.Context, repoURL, name string) (portalapi.Result, error)
	SetSubmissionActive(ctx context.Context, id portalapi.ID, enabled bool) (portalapi.Result, error)
	RemoveBot(ctx context.Context, id portalapi.ID) (portalapi.Result, error)
	SetNameVisible(ctx context.Context, visible bool) (portalapi.Result, error)
	DeleteSubmission(ctx context.Context, id portalapi.ID) (portalapi.Result, error)
	GetSubmissions(ctx context.Context) ([]portalapi.Submission, error)
	GetBots(ctx context.Context) ([]portalapi.Bot, error)
	IsSubmissionTesting(ctx context.Context, id portalapi.ID) (bool, error)
	GetSubmissionSummary(ctx context.Context, id portalapi.ID) (portalapi.SubmissionSummary, error)
}

// View is the form surface an action reports back to.
type View interface {
	ClearInput()
	HideError()
	ShowError(message string)
	MarkInvalid()
	// Reload re-reads authoritative state after a confirmed change.
	Reload()
}

// Toggle is a two-state control such as an "enabled" checkbox.
type Toggle interface {
	Checked() bool
	SetChecked(checked bool)
}
