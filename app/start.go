package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the dashboard until ctx is cancelled or the listener fails.
func (d *Dashboard) Serve(ctx context.Context) error {
	logger := d.app.Obs.Logger
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              d.app.Config.Dashboard.Address,
		Handler:           d.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		if err := d.leaderboard.Run(ctx, &wg); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.InfoContext(ctx, "Dashboard listening", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("dashboard server failed: %w", err)
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down dashboard")
	case err = <-errCh:
		logger.Error("Dashboard stopped", slog.Any("error", err))
	}
	cancel()

	// Event streams never finish on their own, so close them before
	// waiting on the server.
	d.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = fmt.Errorf("failed to shut down dashboard: %w", serr)
	}

	wg.Wait()
	return err
}
