package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuwais/cuwais-portal/app"
	"github.com/cuwais/cuwais-portal/app/clock"
	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/config"
	"github.com/urfave/cli/v2"
)

// env carries the application into command actions once Before has run.
type env struct {
	app *app.App
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	e := &env{}
	cliApp := &cli.App{
		Name:  "cuwais",
		Usage: "follow the CUWAIS leaderboard and manage your submissions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CUWAIS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override observability.log_level",
			},
		},
		Before: e.load,
		Commands: []*cli.Command{
			e.leaderboardCommand(),
			e.historyCommand(),
			e.submissionCommand(),
			e.botCommand(),
			e.loginCommand(),
			e.logoutCommand(),
			e.accountCommand(),
			e.statusCommand(),
			e.themeCommand(),
			e.serveCommand(),
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func (e *env) load(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Observability.LogLevel = lvl
	}

	obs := observability.New(cfg.Observability, os.Stderr)
	a, err := app.NewApp(cfg, obs, clock.Real{})
	if err != nil {
		return err
	}
	e.app = a
	return nil
}
