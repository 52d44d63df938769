package main

import (
	"fmt"
	"math"
	"os"

	historyservice "github.com/cuwais/cuwais-portal/app/modules/history/application"
	"github.com/urfave/cli/v2"
)

func (e *env) historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "score history over time",
		Subcommands: []*cli.Command{
			{
				Name:  "chart",
				Usage: "render the score history chart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since", Usage: `window start, e.g. "72h", "2 weeks ago" or "2026-01-31"`},
					&cli.StringFlag{Name: "format", Value: string(historyservice.FormatPNG), Usage: "png or svg"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default history.<format>)"},
				},
				Action: func(c *cli.Context) error {
					a := e.app
					since, err := historyservice.ParseSince(c.String("since"), a.Clock.Now())
					if err != nil {
						return err
					}
					palette, err := e.palette()
					if err != nil {
						return err
					}
					format := historyservice.Format(c.String("format"))

					out, err := a.History.Chart(c.Context, historyservice.ChartOptions{
						Since:   since,
						Palette: palette,
						Format:  format,
					})
					if err != nil {
						return err
					}

					path := c.String("out")
					if path == "" {
						path = "history." + string(format)
					}
					if err := os.WriteFile(path, out, 0o644); err != nil {
						return fmt.Errorf("failed to write %s: %w", path, err)
					}
					fmt.Println("Wrote", path)
					return nil
				},
			},
			{
				Name:  "series",
				Usage: "print each user's latest score in the window",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since", Usage: "window start"},
				},
				Action: func(c *cli.Context) error {
					a := e.app
					since, err := historyservice.ParseSince(c.String("since"), a.Clock.Now())
					if err != nil {
						return err
					}
					ts, err := a.History.Series(c.Context, since)
					if err != nil {
						return err
					}
					if ts.Empty() {
						fmt.Println("No score history yet.")
						return nil
					}
					fmt.Printf("%d samples every %gs\n", len(ts.Timestamps), ts.Step)
					for _, s := range ts.Series {
						fmt.Printf("%-8s %-28s %10.1f\n", s.UserID, s.Label, last(s.Values))
					}
					return nil
				},
			},
		},
	}
}

// last returns the latest known value of a series.
func last(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i]
		}
	}
	return math.NaN()
}
