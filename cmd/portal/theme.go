package main

import (
	"fmt"

	themedomain "github.com/cuwais/cuwais-portal/app/modules/theme/domain"
	"github.com/urfave/cli/v2"
)

func (e *env) palette() (themedomain.Palette, error) {
	s, err := e.app.Switcher()
	if err != nil {
		return themedomain.Palette{}, err
	}
	return s.Palette(), nil
}

func (e *env) themeCommand() *cli.Command {
	set := func(name string) cli.ActionFunc {
		return func(c *cli.Context) error {
			s, err := e.app.Switcher()
			if err != nil {
				return err
			}
			if err := s.Set(name); err != nil {
				return err
			}
			theme, sheet := s.Active()
			fmt.Printf("%s (%s)\n", theme, sheet.Href)
			return nil
		}
	}

	return &cli.Command{
		Name:  "theme",
		Usage: "choose the colour scheme for charts, the terminal and the dashboard",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the active theme and stylesheet",
				Action: func(c *cli.Context) error {
					s, err := e.app.Switcher()
					if err != nil {
						return err
					}
					theme, sheet := s.Active()
					fmt.Printf("%s\n  href:      %s\n  integrity: %s\n", theme, sheet.Href, sheet.Integrity)
					return nil
				},
			},
			{Name: string(themedomain.Light), Usage: "switch to the light theme", Action: set(string(themedomain.Light))},
			{Name: string(themedomain.Dark), Usage: "switch to the dark theme", Action: set(string(themedomain.Dark))},
		},
	}
}
