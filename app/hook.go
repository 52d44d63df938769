package app

import "log/slog"

// Close stops the leaderboard module and its event stream. It is safe to
// call more than once.
func (d *Dashboard) Close() {
	if err := d.leaderboard.Close(); err != nil {
		d.app.Obs.Logger.Warn("Failed to close leaderboard module", slog.Any("error", err))
	}
}
