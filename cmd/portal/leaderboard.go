package main

import (
	"bytes"
	"fmt"
	"os"

	leaderboardservice "github.com/cuwais/cuwais-portal/app/modules/leaderboard/application"
	leaderboarddisplay "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/display"
	leaderboardexport "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/export"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/urfave/cli/v2"
)

func (e *env) leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "show the current ranking",
		Subcommands: []*cli.Command{
			{
				Name:  "watch",
				Usage: "redraw the leaderboard every poll interval",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "interval", Usage: "override leaderboard.poll_interval"},
				},
				Action: func(c *cli.Context) error {
					if d := c.Duration("interval"); d > 0 {
						e.app.Config.Leaderboard.PollInterval = d
					}
					palette, err := e.palette()
					if err != nil {
						return err
					}
					term := leaderboarddisplay.NewTerminal(os.Stdout, palette, true)
					return e.app.Updater(term).Run(c.Context)
				},
			},
			{
				Name:  "show",
				Usage: "print the leaderboard once",
				Action: func(c *cli.Context) error {
					palette, err := e.palette()
					if err != nil {
						return err
					}
					term := leaderboarddisplay.NewTerminal(os.Stdout, palette, false)
					a := e.app
					updater := leaderboardservice.NewUpdater(a.API, term, nil, a.Clock, a.Config.Leaderboard,
						observability.NewTelemetry(a.Obs, "leaderboard"))
					if err := updater.Refresh(c.Context); err != nil {
						return err
					}
					return term.Flush()
				},
			},
			{
				Name:      "export",
				Usage:     "write the ranking to a spreadsheet",
				ArgsUsage: "[file.xlsx]",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						path = "leaderboard.xlsx"
					}
					entries, err := e.app.API.GetLeaderboard(c.Context)
					if err != nil {
						return err
					}
					var buf bytes.Buffer
					if err := leaderboardexport.WriteXLSX(&buf, leaderboardservice.FromAPI(entries), e.app.Clock.Now()); err != nil {
						return err
					}
					if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
						return fmt.Errorf("failed to write %s: %w", path, err)
					}
					fmt.Printf("Wrote %d entries to %s\n", len(entries), path)
					return nil
				},
			},
			{
				Name:  "reset-intro",
				Usage: "animate the next first render again",
				Action: func(c *cli.Context) error {
					return e.app.State.ResetIntro()
				},
			},
		},
	}
}
