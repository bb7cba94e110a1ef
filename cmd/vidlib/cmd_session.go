package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/vidlib/internal/session"
)

func (c *cli) newSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <name>",
		Short: "Create a viewer account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.sessionStore().Signup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", user.Name)
			return nil
		},
	}
}

func (c *cli) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Sign in as an existing viewer",
		Long:  `Signed-in viewers see "` + session.LabelWatch + `" instead of "` + session.LabelBuy + `" on every video.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.sessionStore().Login(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Name)
			return nil
		},
	}
}

func (c *cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.sessionStore().Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
