package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/learningnavigator/navigator/internal/service/profile"
)

func newGuestCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Continue as a guest with the given role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appFrom(cmd).session.EnterGuestMode(role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Guest mode on as %s.\n", role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "learner", "instructor, staff or learner")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var idToken, accessToken string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store tokens issued by the identity provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appFrom(cmd).session.SetTokens(idToken, accessToken); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "ID token (JWT)")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "access token")
	_ = cmd.MarkFlagRequired("id-token")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget tokens, guest mode and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appFrom(cmd).session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := appFrom(cmd).session
			out := cmd.OutOrStdout()

			switch {
			case sess.IsGuest():
				fmt.Fprintln(out, "mode: guest")
			case sess.IsAuthenticated():
				fmt.Fprintln(out, "mode: signed in")
			default:
				fmt.Fprintln(out, "mode: signed out")
			}
			role := sess.Role()
			if role == "" {
				role = "(not set)"
			}
			fmt.Fprintf(out, "role: %s\n", role)
			fmt.Fprintf(out, "language: %s\n", sess.Language())
			return nil
		},
	}
}

func newLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [EN|ES]",
		Short: "Show or set the preferred language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := appFrom(cmd).session
			if len(args) == 1 {
				if err := sess.SetLanguage(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Language())
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the backend profile, or set its role with --role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if !a.session.IsAuthenticated() {
				return errors.New("sign in or enter guest mode first")
			}

			var p profile.Profile
			var err error
			if role != "" {
				p, err = a.api.UpdateRole(cmd.Context(), role)
			} else {
				p, err = a.api.Profile(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user: %s\n", p.UserID)
			if p.Email != "" {
				fmt.Fprintf(out, "email: %s\n", p.Email)
			}
			if p.Role == "" {
				fmt.Fprintln(out, "role: (not set)")
			} else {
				fmt.Fprintf(out, "role: %s\n", p.Role)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "set the role (instructor, staff or learner)")
	return cmd
}
