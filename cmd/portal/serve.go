package main

import "github.com/urfave/cli/v2"

func (e *env) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "override dashboard.address"},
		},
		Action: func(c *cli.Context) error {
			if addr := c.String("addr"); addr != "" {
				e.app.Config.Dashboard.Address = addr
			}
			return e.app.NewDashboard().Serve(c.Context)
		},
	}
}
