package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fastygo/nexus/domain"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in as an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rt.app.Session.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no user registered with email %q", args[0])
			}
			return printUser(rt, cmd.OutOrStdout(), rt.app.Session.Current())
		},
	}
}

func newSignupCmd(rt *runtime) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "signup <name> <email>",
		Short: "Register a new user and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rt.app.Session.Signup(cmd.Context(), args[0], args[1], domain.Role(role))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("email %q is already registered", args[1])
			}
			return printUser(rt, cmd.OutOrStdout(), rt.app.Session.Current())
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role of the new user (admin or user)")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			return printUser(rt, cmd.OutOrStdout(), rt.app.Session.Current())
		},
	}
}

func printUser(rt *runtime, w io.Writer, user *domain.User) error {
	return rt.print(w, user, func(w io.Writer) {
		fmt.Fprintf(w, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	})
}
