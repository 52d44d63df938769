package submissionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

type service struct {
	api       API
	view      View
	telemetry observability.Telemetry
	logger    *slog.Logger
}

// NewService creates a new submission service reporting to view.
func NewService(api API, view View, telemetry observability.Telemetry) Service {
	logger := telemetry.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service{api: api, view: view, telemetry: telemetry, logger: logger}
}

func (s *service) Submit(ctx context.Context, repoURL string) error {
	repoURL = strings.TrimSpace(repoURL)
	return s.act(ctx, "Submit", repoURL, nil, func(ctx context.Context) (portalapi.Result, error) {
		if repoURL == "" {
			return portalapi.Result{}, ErrEmptyURL
		}
		return s.api.AddSubmission(ctx, repoURL)
	})
}

func (s *service) SubmitBot(ctx context.Context, repoURL, name string) error {
	repoURL, name = strings.TrimSpace(repoURL), strings.TrimSpace(name)
	return s.act(ctx, "SubmitBot", name, nil, func(ctx context.Context) (portalapi.Result, error) {
		switch {
		case repoURL == "":
			return portalapi.Result{}, ErrEmptyURL
		case name == "":
			return portalapi.Result{}, ErrEmptyName
		}
		return s.api.AddBot(ctx, repoURL, name)
	})
}

func (s *service) SetEnabled(ctx context.Context, id portalapi.ID, enabled bool, toggle Toggle) error {
	prev := toggle.Checked()
	toggle.SetChecked(enabled)
	restore := func() { toggle.SetChecked(prev) }

	return s.act(ctx, "SetEnabled", string(id), restore, func(ctx context.Context) (portalapi.Result, error) {
		return s.api.SetSubmissionActive(ctx, id, enabled)
	})
}

func (s *service) DeleteBot(ctx context.Context, id portalapi.ID) error {
	return s.act(ctx, "DeleteBot", string(id), nil, func(ctx context.Context) (portalapi.Result, error) {
		return s.api.RemoveBot(ctx, id)
	})
}

func (s *service) SetNameVisible(ctx context.Context, visible bool) error {
	return s.act(ctx, "SetNameVisible", fmt.Sprint(visible), nil, func(ctx context.Context) (portalapi.Result, error) {
		return s.api.SetNameVisible(ctx, visible)
	})
}

func (s *service) DeleteSubmission(ctx context.Context, id portalapi.ID) error {
	return s.act(ctx, "DeleteSubmission", string(id), nil, func(ctx context.Context) (portalapi.Result, error) {
		return s.api.DeleteSubmission(ctx, id)
	})
}

// act runs one mutating request and applies its outcome to the view.
// restore, when set, undoes any optimistic change on failure.
func (s *service) act(
	ctx context.Context,
	operation, identifier string,
	restore func(),
	call func(ctx context.Context) (portalapi.Result, error),
) error {
	_, err := observability.WithTelemetry(ctx, s.telemetry, operation, identifier, func(ctx context.Context) (struct{}, error) {
		res, err := call(ctx)
		if err != nil {
			s.fail(portalapi.Message(err), restore)
			return struct{}{}, err
		}

		switch res.Status {
		case portalapi.StatusSuccess:
			s.view.ClearInput()
			s.view.HideError()
			s.view.Reload()
			return struct{}{}, nil
		case portalapi.StatusResent:
			s.logger.InfoContext(ctx, "Ignoring resent response",
				slog.String("operation", operation),
				slog.String("identifier", identifier),
			)
			return struct{}{}, nil
		case portalapi.StatusFail:
			err := res.Err()
			s.fail(portalapi.Message(err), restore)
			return struct{}{}, err
		default:
			err := fmt.Errorf("%w: %v", portalapi.ErrUnknownStatus, res.Status)
			s.fail(err.Error(), restore)
			return struct{}{}, err
		}
	})
	return err
}

func (s *service) fail(message string, restore func()) {
	s.view.ShowError(message)
	s.view.MarkInvalid()
	if restore != nil {
		restore()
	}
}

func (s *service) ListSubmissions(ctx context.Context) ([]portalapi.Submission, error) {
	return observability.WithTelemetry(ctx, s.telemetry, "ListSubmissions", "", s.api.GetSubmissions)
}

func (s *service) ListBots(ctx context.Context) ([]portalapi.Bot, error) {
	return observability.WithTelemetry(ctx, s.telemetry, "ListBots", "", s.api.GetBots)
}

func (s *service) IsTesting(ctx context.Context, id portalapi.ID) (bool, error) {
	return observability.WithTelemetry(ctx, s.telemetry, "IsTesting", string(id), func(ctx context.Context) (bool, error) {
		return s.api.IsSubmissionTesting(ctx, id)
	})
}

func (s *service) Summary(ctx context.Context, id portalapi.ID) (portalapi.SubmissionSummary, error) {
	return observability.WithTelemetry(ctx, s.telemetry, "Summary", string(id), func(ctx context.Context) (portalapi.SubmissionSummary, error) {
		return s.api.GetSubmissionSummary(ctx, id)
	})
}

func (s *service) SummaryChart(ctx context.Context, id portalapi.ID, palette themedomain.Palette) ([]byte, error) {
	summary, err := s.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := GenerateSummaryChart(summary, palette)
	if err != nil {
		return nil, errors.Join(ErrRenderChart, err)
	}
	return png, nil
}
