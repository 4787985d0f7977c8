package main

import (
	"fmt"
	"io"

	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

func newLogoutCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogout(cmd, stdout, stderr)
		},
	}
}

func runLogout(cmd *cobra.Command, stdout, stderr io.Writer) error {
	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	token, err := a.store.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("reading stored token")
	}
	a.session.Logout()
	if token == "" {
		fmt.Fprintln(stdout, "Not logged in.")
		return nil
	}
	fmt.Fprintf(stdout, "%s Logged out\n", style.Success.Render(style.IconOK))
	return nil
}
