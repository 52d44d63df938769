package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	submissionservice "github.com/cuwais/cuwais-portal/app/modules/submission/application"
	"github.com/cuwais/cuwais-portal/app/portalapi"
	"github.com/cuwais/cuwais-portal/app/ui"
	"github.com/urfave/cli/v2"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// manager returns a submission service echoing its outcome to stdout.
func (e *env) manager() submissionservice.Service {
	return e.app.SubmissionService(ui.NewPage(os.Stdout, nil))
}

func idArg(c *cli.Context) (portalapi.ID, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("%s: missing submission id", c.Command.Name)
	}
	return portalapi.ID(id), nil
}

func (e *env) setEnabled(enabled bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := idArg(c)
		if err != nil {
			return err
		}
		return e.manager().SetEnabled(c.Context, id, enabled, ui.NewCheckbox(!enabled))
	}
}

func (e *env) submissionCommand() *cli.Command {
	return &cli.Command{
		Name:    "submission",
		Aliases: []string{"sub"},
		Usage:   "manage your submissions",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "submit a git repository",
				ArgsUsage: "<repo-url>",
				Action: func(c *cli.Context) error {
					return e.manager().Submit(c.Context, c.Args().First())
				},
			},
			{
				Name:  "list",
				Usage: "list your submissions",
				Action: func(c *cli.Context) error {
					subs, err := e.manager().ListSubmissions(c.Context)
					if err != nil {
						return err
					}
					fmt.Println(headerStyle.Render(fmt.Sprintf("%-6s %-20s %-7s %-7s %-7s %s", "ID", "Date", "Active", "Healthy", "Tested", "Crash")))
					for _, s := range subs {
						fmt.Printf("%-6s %-20s %-7t %-7t %-7t %s\n", s.ID, s.Date, s.Active, s.Healthy, s.Tested, s.CrashReason)
					}
					return nil
				},
			},
			{
				Name:      "enable",
				Usage:     "make a submission your active one",
				ArgsUsage: "<id>",
				Action:    e.setEnabled(true),
			},
			{
				Name:      "disable",
				Usage:     "deactivate a submission",
				ArgsUsage: "<id>",
				Action:    e.setEnabled(false),
			},
			{
				Name:      "delete",
				Usage:     "delete a submission",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					return e.manager().DeleteSubmission(c.Context, id)
				},
			},
			{
				Name:      "status",
				Usage:     "report whether a submission is still being tested",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					busy, err := e.manager().IsTesting(c.Context, id)
					if err != nil {
						return err
					}
					if busy {
						fmt.Println("Testing")
					} else {
						fmt.Println("Tested")
					}
					return nil
				},
			},
			{
				Name:      "summary",
				Usage:     "show a submission's match outcomes",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "also write the summary chart as PNG"},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					svc := e.manager()
					s, err := svc.Summary(c.Context, id)
					if err != nil {
						return err
					}
					fmt.Println(headerStyle.Render(fmt.Sprintf("%-10s %6s %6s %6s", "", "Wins", "Losses", "Draws")))
					fmt.Printf("%-10s %6d %6d %6d\n", "All", s.Wins, s.Losses, s.Draws)
					fmt.Printf("%-10s %6d %6d %6d\n", "Healthy", s.WinsHealthy, s.LossesHealthy, s.DrawsHealthy)

					path := c.String("out")
					if path == "" {
						return nil
					}
					palette, err := e.palette()
					if err != nil {
						return err
					}
					png, err := svc.SummaryChart(c.Context, id, palette)
					if err != nil {
						return err
					}
					return os.WriteFile(path, png, 0o644)
				},
			},
			{
				Name:      "name-visible",
				Usage:     "show or hide your name on the public leaderboard",
				ArgsUsage: "<true|false>",
				Action: func(c *cli.Context) error {
					visible, err := strconv.ParseBool(c.Args().First())
					if err != nil {
						return fmt.Errorf("name-visible: expected true or false: %w", err)
					}
					return e.manager().SetNameVisible(c.Context, visible)
				},
			},
		},
	}
}

func (e *env) botCommand() *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "manage house bots (admins only)",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a bot",
				ArgsUsage: "<repo-url> <name>",
				Action: func(c *cli.Context) error {
					return e.manager().SubmitBot(c.Context, c.Args().Get(0), c.Args().Get(1))
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a bot",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					return e.manager().DeleteBot(c.Context, id)
				},
			},
			{
				Name:  "list",
				Usage: "list bots",
				Action: func(c *cli.Context) error {
					bots, err := e.manager().ListBots(c.Context)
					if err != nil {
						return err
					}
					fmt.Println(headerStyle.Render(fmt.Sprintf("%-6s %-24s %s", "ID", "Name", "Date")))
					for _, b := range bots {
						fmt.Printf("%-6s %-24s %s\n", b.ID, b.Name, b.Date)
					}
					return nil
				},
			},
		},
	}
}
