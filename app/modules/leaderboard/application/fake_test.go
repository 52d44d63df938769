package leaderboardservice

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
)

// ------------------------
// Fake Display
// ------------------------

type FakeDisplay struct {
	mu    sync.Mutex
	trace []string
	slots []string
}

func (f *FakeDisplay) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

// Slots returns the rendered text of each slot; blank slots are "".
func (f *FakeDisplay) Slots() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.slots...)
}

func (f *FakeDisplay) RemoveSlot(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, fmt.Sprintf("remove %d", index))
	f.slots = append(f.slots[:index], f.slots[index+1:]...)
}

func (f *FakeDisplay) CreateSlot(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, fmt.Sprintf("create %d", index))
	f.slots = append(f.slots, "")
}

func (f *FakeDisplay) PopulateSlot(slot leaderboarddomain.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text := slot.Position.String() + " " + slot.Entry.DisplayName
	f.trace = append(f.trace, fmt.Sprintf("populate %d", slot.Index))
	f.slots[slot.Index] = text
}

var _ Display = (*FakeDisplay)(nil)

// ------------------------
// Fake RankingSource
// ------------------------

type FakeSource struct {
	calls atomic.Int32

	GetLeaderboardFunc func(ctx context.Context) ([]portalapi.LeaderboardEntry, error)
}

func (f *FakeSource) Calls() int { return int(f.calls.Load()) }

func (f *FakeSource) GetLeaderboard(ctx context.Context) ([]portalapi.LeaderboardEntry, error) {
	f.calls.Add(1)
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx)
	}
	return nil, nil
}

var _ RankingSource = (*FakeSource)(nil)

// ------------------------
// Fake IntroFlag
// ------------------------

type FakeIntro struct {
	seen bool

	MarkIntroSeenFunc func() error
}

func (f *FakeIntro) IntroSeen() bool { return f.seen }

func (f *FakeIntro) MarkIntroSeen() error {
	if f.MarkIntroSeenFunc != nil {
		if err := f.MarkIntroSeenFunc(); err != nil {
			return err
		}
	}
	f.seen = true
	return nil
}

var _ IntroFlag = (*FakeIntro)(nil)

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	observability.NoopMetrics

	dropped atomic.Int32
	polls   sync.Map
}

func (f *FakeMetrics) RecordDroppedTick(context.Context) { f.dropped.Add(1) }

func (f *FakeMetrics) RecordPoll(_ context.Context, outcome string) {
	n, _ := f.polls.LoadOrStore(outcome, new(atomic.Int32))
	n.(*atomic.Int32).Add(1)
}

func (f *FakeMetrics) Dropped() int { return int(f.dropped.Load()) }

func (f *FakeMetrics) Polls(outcome string) int {
	n, ok := f.polls.Load(outcome)
	if !ok {
		return 0
	}
	return int(n.(*atomic.Int32).Load())
}
