package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Long: `Show the account the stored token belongs to.

A token the Auth Service no longer accepts is discarded and the command
reports that you are not logged in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhoami(cmd, stdout, stderr)
		},
	}
	cmd.Flags().Bool("json", false, "Print the profile as JSON")
	return cmd
}

func runWhoami(cmd *cobra.Command, stdout, stderr io.Writer) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	user, err := a.currentUser(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(user)
	}
	fmt.Fprintf(stdout, "%s %s\n", style.Bold.Render("Username:"), user.Username)
	fmt.Fprintf(stdout, "%s %s\n", style.Bold.Render("Email:   "), user.Email)
	fmt.Fprintf(stdout, "%s %s\n", style.Bold.Render("ID:      "), user.ID)
	return nil
}
