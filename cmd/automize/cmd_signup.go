package main

import (
	"fmt"
	"io"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

func newSignupCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSignup(cmd, stdout, stderr)
		},
	}
	cmd.Flags().String("username", "", "Account username")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	return cmd
}

func runSignup(cmd *cobra.Command, stdout, stderr io.Writer) error {
	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")

	password, err := passwordFlags(password, fromStdin, cmd.InOrStdin())
	if err != nil {
		return err
	}
	err = fillCredentials(
		credential{flag: "username", label: "Username", value: &username},
		credential{flag: "email", label: "Email", value: &email},
		credential{flag: "password", label: "Password", secret: true, value: &password},
	)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	if err := resetSession(cmd, a); err != nil {
		return err
	}
	ctx := cmd.Context()
	profile, err := style.WithSpinner(stderr, "Creating account...", func() (*authapi.Profile, error) {
		return a.session.SignUp(ctx, a.auth, username, email, password)
	})
	if err != nil {
		return authFailure("sign up", err)
	}
	fmt.Fprintf(stdout, "%s Account created. Logged in as %s\n", style.Success.Render(style.IconOK), describeProfile(profile))
	return nil
}
