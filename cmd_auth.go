package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long:  `Log in with your email and password. The token is stored in the session file and used by every other command.`,
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			creds, err := credentialsFromFlags(cmd, false)
			if err != nil {
				return err
			}

			if err := a.sess.Login(cmd.Context(), a.client, creds); err != nil {
				return fmt.Errorf("login failed: %s", a.sess.LastError())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.Email)
			return nil
		}),
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (prompted when omitted)")
	return cmd
}

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			creds, err := credentialsFromFlags(cmd, true)
			if err != nil {
				return err
			}
			confirm, _ := cmd.Flags().GetString("confirm")

			if err := a.sess.Signup(cmd.Context(), a.client, creds, confirm); err != nil {
				return fmt.Errorf("signup failed: %s", a.sess.LastError())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", creds.Email)
			return nil
		}),
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (prompted when omitted)")
	cmd.Flags().String("confirm", "", "repeat the password (prompted when omitted)")
	return cmd
}

// credentialsFromFlags reads --email and --password, prompting for what is
// missing. With confirm set the prompt also asks for the password twice and
// stores the repeat in --confirm.
func credentialsFromFlags(cmd *cobra.Command, confirm bool) (api.Credentials, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	repeat := ""
	if confirm {
		repeat, _ = cmd.Flags().GetString("confirm")
	}

	var fields []huh.Field
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&email))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password))
	}
	if confirm && !cmd.Flags().Changed("confirm") {
		fields = append(fields, huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&repeat))
	}

	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return api.Credentials{}, errors.New("aborted")
			}
			return api.Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
		}
	}

	if confirm {
		_ = cmd.Flags().Set("confirm", repeat)
	}
	return api.Credentials{Email: email, Password: password}, nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.sess.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored session belongs to",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			if !a.sess.IsLoggedIn() {
				return fmt.Errorf("not logged in (run `%s login`)", appName)
			}

			id := a.sess.Identity()
			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, id)
			}

			expires := "-"
			if !id.ExpiresAt.IsZero() {
				expires = id.ExpiresAt.Local().Format(time.RFC1123)
				if id.Expired(time.Now()) {
					expires += " (expired)"
				}
			}

			t := createStyledTable("USER", "EMAIL", "EXPIRES", "API")
			t.Row(orDash(id.UserID), orDash(id.Email), expires, a.client.BaseURL())
			printTable(cmd, t)
			return nil
		}),
	}

	addOutputFlag(cmd)
	return cmd
}
