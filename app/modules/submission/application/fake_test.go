package submissionservice

import (
	"context"

	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

var successResult = portalapi.Result{Status: portalapi.StatusSuccess}

// ------------------------
// Fake API
// ------------------------

type FakeAPI struct {
	trace []string

	AddSubmissionFunc        func(ctx context.Context, repoURL string) (portalapi.Result, error)
	AddBotFunc               func(ctx context.Context, repoURL, name string) (portalapi.Result, error)
	SetSubmissionActiveFunc  func(ctx context.Context, id portalapi.ID, enabled bool) (portalapi.Result, error)
	RemoveBotFunc            func(ctx context.Context, id portalapi.ID) (portalapi.Result, error)
	SetNameVisibleFunc       func(ctx context.Context, visible bool) (portalapi.Result, error)
	DeleteSubmissionFunc     func(ctx context.Context, id portalapi.ID) (portalapi.Result, error)
	GetSubmissionsFunc       func(ctx context.Context) ([]portalapi.Submission, error)
	GetBotsFunc              func(ctx context.Context) ([]portalapi.Bot, error)
	IsSubmissionTestingFunc  func(ctx context.Context, id portalapi.ID) (bool, error)
	GetSubmissionSummaryFunc func(ctx context.Context, id portalapi.ID) (portalapi.SubmissionSummary, error)
}

func (f *FakeAPI) Trace() []string { return f.trace }

func (f *FakeAPI) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeAPI) AddSubmission(ctx context.Context, repoURL string) (portalapi.Result, error) {
	f.record("AddSubmission")
	if f.AddSubmissionFunc != nil {
		return f.AddSubmissionFunc(ctx, repoURL)
	}
	return successResult, nil
}

func (f *FakeAPI) AddBot(ctx context.Context, repoURL, name string) (portalapi.Result, error) {
	f.record("AddBot")
	if f.AddBotFunc != nil {
		return f.AddBotFunc(ctx, repoURL, name)
	}
	return successResult, nil
}

func (f *FakeAPI) SetSubmissionActive(ctx context.Context, id portalapi.ID, enabled bool) (portalapi.Result, error) {
	f.record("SetSubmissionActive")
	if f.SetSubmissionActiveFunc != nil {
		return f.SetSubmissionActiveFunc(ctx, id, enabled)
	}
	return successResult, nil
}

func (f *FakeAPI) RemoveBot(ctx context.Context, id portalapi.ID) (portalapi.Result, error) {
	f.record("RemoveBot")
	if f.RemoveBotFunc != nil {
		return f.RemoveBotFunc(ctx, id)
	}
	return successResult, nil
}

func (f *FakeAPI) SetNameVisible(ctx context.Context, visible bool) (portalapi.Result, error) {
	f.record("SetNameVisible")
	if f.SetNameVisibleFunc != nil {
		return f.SetNameVisibleFunc(ctx, visible)
	}
	return successResult, nil
}

func (f *FakeAPI) DeleteSubmission(ctx context.Context, id portalapi.ID) (portalapi.Result, error) {
	f.record("DeleteSubmission")
	if f.DeleteSubmissionFunc != nil {
		return f.DeleteSubmissionFunc(ctx, id)
	}
	return successResult, nil
}

func (f *FakeAPI) GetSubmissions(ctx context.Context) ([]portalapi.Submission, error) {
	f.record("GetSubmissions")
	if f.GetSubmissionsFunc != nil {
		return f.GetSubmissionsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeAPI) GetBots(ctx context.Context) ([]portalapi.Bot, error) {
	f.record("GetBots")
	if f.GetBotsFunc != nil {
		return f.GetBotsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeAPI) IsSubmissionTesting(ctx context.Context, id portalapi.ID) (bool, error) {
	f.record("IsSubmissionTesting")
	if f.IsSubmissionTestingFunc != nil {
		return f.IsSubmissionTestingFunc(ctx, id)
	}
	return false, nil
}

func (f *FakeAPI) GetSubmissionSummary(ctx context.Context, id portalapi.ID) (portalapi.SubmissionSummary, error) {
	f.record("GetSubmissionSummary")
	if f.GetSubmissionSummaryFunc != nil {
		return f.GetSubmissionSummaryFunc(ctx, id)
	}
	return portalapi.SubmissionSummary{}, nil
}

// ------------------------
// Fake View
// ------------------------

type FakeView struct {
	trace []string
}

func (f *FakeView) Trace() []string { return f.trace }

func (f *FakeView) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeView) ClearInput()              { f.record("ClearInput") }
func (f *FakeView) HideError()               { f.record("HideError") }
func (f *FakeView) ShowError(message string) { f.record("ShowError:" + message) }
func (f *FakeView) MarkInvalid()             { f.record("MarkInvalid") }
func (f *FakeView) Reload()                  { f.record("Reload") }

// ------------------------
// Fake Toggle
// ------------------------

type FakeToggle struct {
	checked bool
	history []bool
}

func (f *FakeToggle) Checked() bool { return f.checked }

func (f *FakeToggle) SetChecked(checked bool) {
	f.checked = checked
	f.history = append(f.history, checked)
}

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	observability.NoopMetrics
	trace []string
}

func (f *FakeMetrics) Trace() []string { return f.trace }

func (f *FakeMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	f.trace = append(f.trace, "success:"+service+"."+operation)
}

func (f *FakeMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	f.trace = append(f.trace, "failure:"+service+"."+operation)
}

var (
	_ API                   = (*FakeAPI)(nil)
	_ View                  = (*FakeView)(nil)
	_ Toggle                = (*FakeToggle)(nil)
	_ observability.Metrics = (*FakeMetrics)(nil)
)
