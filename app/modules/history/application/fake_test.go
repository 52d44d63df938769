package historyservice

import (
	"context"

	"github.com/cuwais/cuwais-portal/app/portalapi"
)

type FakeAPI struct {
	trace []string

	GetLeaderboardOverTimeFunc func(ctx context.Context) (portalapi.LeaderboardGraph, error)
}

func (f *FakeAPI) Trace() []string { return f.trace }

func (f *FakeAPI) GetLeaderboardOverTime(ctx context.Context) (portalapi.LeaderboardGraph, error) {
	f.trace = append(f.trace, "GetLeaderboardOverTime")
	if f.GetLeaderboardOverTimeFunc != nil {
		return f.GetLeaderboardOverTimeFunc(ctx)
	}
	return portalapi.LeaderboardGraph{}, nil
}

var _ API = (*FakeAPI)(nil)

func graphOf(graph portalapi.LeaderboardGraph) *FakeAPI {
	return &FakeAPI{GetLeaderboardOverTimeFunc: func(context.Context) (portalapi.LeaderboardGraph, error) {
		return graph, nil
	}}
}
