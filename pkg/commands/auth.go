package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/commands/options"
	"tableflip.dev/boost/pkg/runner/auth"
)

func addLogin(topLevel *cobra.Command) {
	ao := &options.AuthOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your boost account.",
		Example: `
boost login
boost login --email you@example.com
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := auth.Login{
				Credentials: auth.Credentials{Email: ao.Email, Password: ao.Password},
				Controller:  e.ctl,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}
	options.AddLoginArgs(cmd, ao)

	topLevel.AddCommand(cmd)
}

func addRegister(topLevel *cobra.Command) {
	ao := &options.AuthOptions{}

	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"signup"},
		Short:   "Create a boost account and log in.",
		Example: `
boost register
boost register --username sam --email sam@example.com
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := auth.Register{
				Credentials: auth.Credentials{Username: ao.Username, Email: ao.Email, Password: ao.Password},
				Controller:  e.ctl,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}
	options.AddRegisterArgs(cmd, ao)

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session.",
		Example: `
boost logout
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := auth.Logout{Controller: e.ctl}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
