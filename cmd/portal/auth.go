package main

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"time"

	authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"
	authgoogle "github.com/cuwais/cuwais-portal/app/modules/auth/infrastructure/google"
	"github.com/cuwais/cuwais-portal/app/ui"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func (e *env) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in to the portal with Google",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "id-token",
				Usage:   "use an identity token obtained elsewhere instead of the browser flow",
				EnvVars: []string{"CUWAIS_ID_TOKEN"},
			},
		},
		Action: func(c *cli.Context) error {
			var assertion authdomain.Assertion
			if tok := c.String("id-token"); tok != "" {
				assertion = authdomain.RawIDToken(tok)
			} else {
				flow, err := authgoogle.NewFlow(e.app.Config.Google, openBrowser, e.app.Obs.Logger)
				if err != nil {
					return err
				}
				assertion, err = flow.Assert(c.Context)
				if err != nil {
					return err
				}
			}

			page := ui.NewPage(os.Stdout, nil)
			return e.app.AuthService(page, page).OnSignIn(c.Context, assertion)
		},
	}
}

func (e *env) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the portal session",
		Action: func(c *cli.Context) error {
			page := ui.NewPage(os.Stdout, nil)
			return e.app.AuthService(page, page).Logout(c.Context)
		},
	}
}

func (e *env) accountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "inspect or remove your portal account",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "show who the saved session belongs to",
				Action: func(c *cli.Context) error {
					page := ui.NewPage(os.Stdout, nil)
					account, err := e.app.AuthService(page, page).Account(c.Context)
					if err != nil {
						return err
					}
					if !account.SignedIn() {
						fmt.Println("Not signed in.")
						return nil
					}
					out, err := yaml.Marshal(account.User)
					if err != nil {
						return fmt.Errorf("failed to format account: %w", err)
					}
					fmt.Println(headerStyle.Render("Account"))
					fmt.Print(string(out))
					if exp := account.ExpiresAt(); !exp.IsZero() {
						fmt.Printf("session expires %s\n", exp.Local().Format(time.RFC1123))
					}
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "permanently remove your account and its submissions",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "confirm the removal"},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("yes") {
						return fmt.Errorf("account delete is permanent; pass --yes to confirm")
					}
					page := ui.NewPage(os.Stdout, nil)
					return e.app.AuthService(page, page).DeleteAccount(c.Context)
				},
			},
		},
	}
}

func (e *env) statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show backend service health (admins only)",
		Action: func(c *cli.Context) error {
			services, err := e.app.API.ServiceStatus(c.Context)
			if err != nil {
				return err
			}
			names := slices.Sorted(maps.Keys(services))
			fmt.Println(headerStyle.Render("Service status"))
			for _, name := range names {
				state := "up"
				if !services[name] {
					state = "DOWN"
				}
				fmt.Printf("%-12s %s\n", name, state)
			}
			return nil
		},
	}
}

// openBrowser prints the URL and tries to launch the desktop browser on it.
func openBrowser(authURL string) error {
	fmt.Println("Open this URL to sign in:")
	fmt.Println(authURL)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", authURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", authURL)
	default:
		cmd = exec.Command("xdg-open", authURL)
	}
	// The printed URL is enough when no browser can be started.
	_ = cmd.Start()
	return nil
}
