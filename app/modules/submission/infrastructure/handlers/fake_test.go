package submissionhandlers

import (
	"context"

	submissionservice "github.com/cuwais/cuwais-portal/app/modules/submission/application"
	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// FakeService drives the request's view the way the real service would.
type FakeService struct {
	trace []string
	view  submissionservice.View

	SubmitFunc          func(ctx context.Context, v submissionservice.View, repoURL string) error
	SetEnabledFunc      func(ctx context.Context, v submissionservice.View, id portalapi.ID, enabled bool, toggle submissionservice.Toggle) error
	ListSubmissionsFunc func(ctx context.Context) ([]portalapi.Submission, error)
	SummaryChartFunc    func(ctx context.Context, id portalapi.ID, palette themedomain.Palette) ([]byte, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) succeed() {
	f.view.ClearInput()
	f.view.HideError()
	f.view.Reload()
}

func (f *FakeService) Submit(ctx context.Context, repoURL string) error {
	f.record("Submit:" + repoURL)
	if f.SubmitFunc != nil {
		return f.SubmitFunc(ctx, f.view, repoURL)
	}
	f.succeed()
	return nil
}

func (f *FakeService) SubmitBot(ctx context.Context, repoURL, name string) error {
	f.record("SubmitBot:" + repoURL + ":" + name)
	f.succeed()
	return nil
}

func (f *FakeService) SetEnabled(ctx context.Context, id portalapi.ID, enabled bool, toggle submissionservice.Toggle) error {
	f.record("SetEnabled:" + string(id))
	if f.SetEnabledFunc != nil {
		return f.SetEnabledFunc(ctx, f.view, id, enabled, toggle)
	}
	toggle.SetChecked(enabled)
	f.succeed()
	return nil
}

func (f *FakeService) DeleteBot(ctx context.Context, id portalapi.ID) error {
	f.record("DeleteBot:" + string(id))
	f.succeed()
	return nil
}

func (f *FakeService) SetNameVisible(ctx context.Context, visible bool) error {
	f.record("SetNameVisible")
	return nil
}

func (f *FakeService) DeleteSubmission(ctx context.Context, id portalapi.ID) error {
	f.record("DeleteSubmission:" + string(id))
	return nil
}

func (f *FakeService) ListSubmissions(ctx context.Context) ([]portalapi.Submission, error) {
	f.record("ListSubmissions")
	if f.ListSubmissionsFunc != nil {
		return f.ListSubmissionsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) ListBots(ctx context.Context) ([]portalapi.Bot, error) {
	f.record("ListBots")
	return nil, nil
}

func (f *FakeService) IsTesting(ctx context.Context, id portalapi.ID) (bool, error) {
	f.record("IsTesting:" + string(id))
	return false, nil
}

func (f *FakeService) Summary(ctx context.Context, id portalapi.ID) (portalapi.SubmissionSummary, error) {
	f.record("Summary:" + string(id))
	return portalapi.SubmissionSummary{}, nil
}

func (f *FakeService) SummaryChart(ctx context.Context, id portalapi.ID, palette themedomain.Palette) ([]byte, error) {
	f.record("SummaryChart:" + string(id))
	if f.SummaryChartFunc != nil {
		return f.SummaryChartFunc(ctx, id, palette)
	}
	return []byte("png"), nil
}

func (f *FakeService) factory() ServiceFactory {
	return func(view submissionservice.View) submissionservice.Service {
		f.view = view
		return f
	}
}

var _ submissionservice.Service = (*FakeService)(nil)
