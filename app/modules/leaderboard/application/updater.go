package leaderboardservice

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cuwais/cuwais-portal/app/clock"
	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/config"
)

// Updater keeps a Display in step with the portal's ranking.
type Updater struct {
	source    RankingSource
	display   Display
	intro     IntroFlag
	clock     clock.Clock
	cfg       config.LeaderboardConfig
	telemetry observability.Telemetry
	logger    *slog.Logger

	mu         sync.Mutex
	current    []leaderboarddomain.Entry
	generation uint64
	pending    []clock.Timer
	rendered   bool

	inFlight atomic.Bool
}

// NewUpdater creates an Updater. intro may be nil, in which case the first
// render is never animated.
func NewUpdater(
	source RankingSource,
	display Display,
	intro IntroFlag,
	clk clock.Clock,
	cfg config.LeaderboardConfig,
	telemetry observability.Telemetry,
) *Updater {
	logger := telemetry.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		source:    source,
		display:   display,
		intro:     intro,
		clock:     clk,
		cfg:       cfg,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Current returns a copy of the ranking most recently applied.
func (u *Updater) Current() []leaderboarddomain.Entry {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.current)
}

// Update reconciles the display against ranking. Slot removal and creation
// happen before Update returns; slot i is populated after i times the
// stagger. Populations still pending from an earlier Update are cancelled.
func (u *Updater) Update(ctx context.Context, ranking []leaderboarddomain.Entry) {
	u.mu.Lock()
	defer u.mu.Unlock()

	stagger := u.staggerLocked(ctx)
	u.cancelPendingLocked()
	gen := u.generation

	plan := leaderboarddomain.Reconcile(len(u.current), ranking)
	for _, i := range plan.Remove {
		u.display.RemoveSlot(i)
	}
	for _, i := range plan.Create {
		u.display.CreateSlot(i)
	}
	u.current = slices.Clone(ranking)

	for _, slot := range plan.Populate {
		delay := time.Duration(slot.Index) * stagger
		if delay <= 0 {
			u.display.PopulateSlot(slot)
			continue
		}
		u.pending = append(u.pending, u.clock.AfterFunc(delay, func() {
			u.populate(gen, slot)
		}))
	}

	u.logger.DebugContext(ctx, "Leaderboard reconciled",
		slog.Int("removed", len(plan.Remove)),
		slog.Int("created", len(plan.Create)),
		slog.Int("entries", len(ranking)),
		slog.Duration("stagger", stagger),
	)
}

// staggerLocked picks the delay between populations. The very first render
// uses the intro stagger until the intro has been seen once.
func (u *Updater) staggerLocked(ctx context.Context) time.Duration {
	if u.rendered {
		return u.cfg.Stagger
	}
	u.rendered = true
	if u.intro == nil || u.intro.IntroSeen() {
		return 0
	}
	if err := u.intro.MarkIntroSeen(); err != nil {
		u.logger.WarnContext(ctx, "Failed to persist intro flag", slog.Any("error", err))
	}
	return u.cfg.IntroStagger
}

func (u *Updater) populate(gen uint64, slot leaderboarddomain.Slot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if gen != u.generation {
		return
	}
	u.display.PopulateSlot(slot)
}

func (u *Updater) cancelPendingLocked() {
	u.generation++
	for _, t := range u.pending {
		t.Stop()
	}
	u.pending = nil
}

// Refresh fetches the ranking once and applies it. On failure the display
// is left as it was.
func (u *Updater) Refresh(ctx context.Context) error {
	_, err := observability.WithTelemetry(ctx, u.telemetry, "Refresh", "leaderboard", func(ctx context.Context) (struct{}, error) {
		entries, err := u.source.GetLeaderboard(ctx)
		if err != nil {
			u.recordPoll(ctx, "failure")
			u.logger.ErrorContext(ctx, "Failed to fetch leaderboard", slog.Any("error", err))
			return struct{}{}, err
		}
		if err := ctx.Err(); err != nil {
			return struct{}{}, err
		}
		u.Update(ctx, FromAPI(entries))
		u.recordPoll(ctx, "success")
		return struct{}{}, nil
	})
	return err
}

// Run refreshes immediately and then on every poll interval until ctx is
// cancelled. A tick that arrives while a refresh is still running is
// dropped.
func (u *Updater) Run(ctx context.Context) error {
	ticker := u.clock.NewTicker(u.cfg.PollInterval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		u.mu.Lock()
		u.cancelPendingLocked()
		u.mu.Unlock()
	}()

	u.logger.InfoContext(ctx, "Leaderboard poller started", slog.Duration("interval", u.cfg.PollInterval))
	u.launch(ctx, &wg)
	for {
		select {
		case <-ctx.Done():
			u.logger.InfoContext(ctx, "Leaderboard poller stopped")
			return nil
		case <-ticker.C():
			u.launch(ctx, &wg)
		}
	}
}

func (u *Updater) launch(ctx context.Context, wg *sync.WaitGroup) {
	if !u.inFlight.CompareAndSwap(false, true) {
		if u.telemetry.Metrics != nil {
			u.telemetry.Metrics.RecordDroppedTick(ctx)
		}
		u.logger.WarnContext(ctx, "Skipping leaderboard poll, previous refresh still running")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer u.inFlight.Store(false)
		_ = u.Refresh(ctx)
	}()
}

func (u *Updater) recordPoll(ctx context.Context, outcome string) {
	if u.telemetry.Metrics != nil {
		u.telemetry.Metrics.RecordPoll(ctx, outcome)
	}
}

// FromAPI converts portal rows to ranking entries, keeping their order.
func FromAPI(entries []portalapi.LeaderboardEntry) []leaderboarddomain.Entry {
	out := make([]leaderboarddomain.Entry, len(entries))
	for i, e := range entries {
		out[i] = leaderboarddomain.Entry{
			DisplayName: e.DisplayName,
			Score:       e.Score.Value,
			ScoreLabel:  e.Score.Text,
			IsYou:       e.IsYou,
			IsBot:       e.IsBot,
			Wins:        e.Wins,
			Losses:      e.Losses,
			Draws:       e.Draws,
		}
	}
	return out
}
