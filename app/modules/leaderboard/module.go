package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexandrevicenzi/go-sse"
	"github.com/cuwais/cuwais-portal/app/eventbus"
	leaderboardservice "github.com/cuwais/cuwais-portal/app/modules/leaderboard/application"
	leaderboarddisplay "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/display"
	leaderboardevents "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/events"
	"github.com/cuwais/cuwais-portal/app/observability"
)

// EventBufferSize is the per-subscriber buffer of the slot event bus.
const EventBufferSize = 64

// UpdaterFactory builds an updater drawing to display.
type UpdaterFactory func(display leaderboardservice.Display) *leaderboardservice.Updater

// Module represents the leaderboard module: a board kept in step with the
// portal and an event stream mirroring every slot operation.
type Module struct {
	Board   *leaderboarddisplay.Board
	Updater *leaderboardservice.Updater
	Stream  *sse.Server

	bus    eventbus.EventBus
	logger *slog.Logger

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewLeaderboardModule creates and initializes a new leaderboard module.
func NewLeaderboardModule(obs observability.Observability, newUpdater UpdaterFactory) *Module {
	logger := obs.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("leaderboard.NewLeaderboardModule initializing")

	bus := eventbus.NewEventBus(logger, EventBufferSize)
	board := leaderboarddisplay.NewBoard()

	return &Module{
		Board:   board,
		Updater: newUpdater(leaderboarddisplay.Multi{board, leaderboardevents.NewPublisher(bus, logger)}),
		Stream: sse.NewServer(&sse.Options{
			Logger: slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
		}),
		bus:    bus,
		logger: logger,
	}
}

// Run forwards slot events to the stream and polls the portal until ctx is
// cancelled or Close is called. wg, when non-nil, is released on return.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) error {
	if wg != nil {
		defer wg.Done()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Starting leaderboard module")

	if err := leaderboardevents.Forward(ctx, m.bus, m.Stream); err != nil {
		return err
	}
	if err := m.Updater.Run(ctx); err != nil {
		return fmt.Errorf("leaderboard updater stopped: %w", err)
	}

	m.logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
	return nil
}

// Close stops the poller and shuts the event stream. It is safe to call
// more than once.
func (m *Module) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.logger.Info("Stopping leaderboard module")

		m.mu.Lock()
		if m.cancelFunc != nil {
			m.cancelFunc()
		}
		m.mu.Unlock()

		if cerr := m.bus.Close(); cerr != nil {
			m.logger.Error("Error closing leaderboard event bus", slog.Any("error", cerr))
			err = fmt.Errorf("error closing leaderboard event bus: %w", cerr)
		}
		m.Stream.Shutdown()

		m.logger.Info("Leaderboard module stopped")
	})
	return err
}
