package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/session"
	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

func newLoginCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Auth Service",
		Long: `Sign in with email and password and store the access token.

Missing values are prompted for on a terminal. Scripts can pipe the
password with --password-stdin, or pass an existing access token with
--token. Signing in replaces any session already stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, stdout, stderr)
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	cmd.Flags().String("token", "", "Log in with an existing access token")
	cmd.MarkFlagsMutuallyExclusive("token", "email")
	cmd.MarkFlagsMutuallyExclusive("token", "password", "password-stdin")
	return cmd
}

func runLogin(cmd *cobra.Command, stdout, stderr io.Writer) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	token, _ := cmd.Flags().GetString("token")

	if token == "" {
		var err error
		if password, err = passwordFlags(password, fromStdin, cmd.InOrStdin()); err != nil {
			return err
		}
		err = fillCredentials(
			credential{flag: "email", label: "Email", value: &email},
			credential{flag: "password", label: "Password", secret: true, value: &password},
		)
		if err != nil {
			return err
		}
	}

	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	if err := resetSession(cmd, a); err != nil {
		return err
	}
	ctx := cmd.Context()
	var profile *authapi.Profile
	if token != "" {
		profile, err = style.WithSpinner(stderr, "Checking token...", func() (*authapi.Profile, error) {
			return a.session.Login(ctx, token)
		})
	} else {
		profile, err = style.WithSpinner(stderr, "Signing in...", func() (*authapi.Profile, error) {
			return a.session.SignIn(ctx, a.auth, email, password)
		})
	}
	if err != nil {
		return authFailure("login", err)
	}
	fmt.Fprintf(stdout, "%s Logged in as %s\n", style.Success.Render(style.IconOK), describeProfile(profile))
	return nil
}

// resetSession restores the stored session and logs it out so a new
// sign-in starts from Anonymous.
func resetSession(cmd *cobra.Command, a *app) error {
	st, err := a.session.Initialize(cmd.Context())
	if err != nil {
		return err
	}
	if st.Status == session.Authenticated {
		a.log.Info().Str("user", st.User.Username).Msg("replacing stored session")
		a.session.Logout()
	}
	return nil
}

// authFailure shows the message the Auth Service sent in place of the raw
// response, keeping the cause in the chain.
func authFailure(op string, err error) error {
	var apiErr *authapi.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return &messageError{msg: op + " failed: " + apiErr.UserMessage(), err: err}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func describeProfile(p *authapi.Profile) string {
	if p.Email == "" {
		return style.Bold.Render(p.Username)
	}
	return fmt.Sprintf("%s (%s)", style.Bold.Render(p.Username), p.Email)
}
