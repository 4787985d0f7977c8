package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

// withLibrary runs fn with the signed-in user and an open library.
func withLibrary(cmd *cobra.Command, stderr io.Writer, fn func(ctx context.Context, user *authapi.Profile, lib *library.Store) error) error {
	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	lib, err := a.openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(ctx, user, lib)
}

func newIaCSaveCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a form to your library",
		Long: `Save the form described by --form, --select and --set to your library of
saved configurations. With --id the existing entry is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIaCSave(cmd, stdout, stderr)
		},
	}
	addFormFlags(cmd)
	cmd.Flags().String("name", "", "Configuration name")
	cmd.Flags().String("id", "", "Replace the saved configuration with this ID")
	_ = cmd.RegisterFlagCompletionFunc("id", completeConfigIDs)
	return cmd
}

func runIaCSave(cmd *cobra.Command, stdout, stderr io.Writer) error {
	name, _ := cmd.Flags().GetString("name")
	id, _ := cmd.Flags().GetString("id")

	form, err := formFromFlags(cmd)
	if err != nil {
		return err
	}
	return withLibrary(cmd, stderr, func(ctx context.Context, user *authapi.Profile, lib *library.Store) error {
		entry := &library.Config{ID: id, Owner: user.ID.String(), Name: name, Form: form}
		if err := lib.Save(ctx, entry); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s Saved %q (%s)\n", style.Success.Render(style.IconOK), entry.Name, entry.ID)
		return nil
	})
}

func newIaCListCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your saved configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd, stderr, func(ctx context.Context, user *authapi.Profile, lib *library.Store) error {
				configs, err := lib.List(ctx, user.ID.String())
				if err != nil {
					return err
				}
				if len(configs) == 0 {
					fmt.Fprintln(stdout, "No saved configurations.")
					return nil
				}
				tbl := style.NewTable(
					style.Column{Name: "ID", Width: 36},
					style.Column{Name: "NAME", Width: 28},
					style.Column{Name: "FIELDS", Width: 40},
					style.Column{Name: "UPDATED", Width: 16},
				)
				for _, c := range configs {
					tbl.AddRow(c.ID, c.Name, strings.Join(c.Form.Selected(), ","), c.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				fmt.Fprint(stdout, tbl.Render())
				return nil
			})
		},
	}
}

func newIaCShowCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Print a saved configuration's document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeConfigIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asForm, _ := cmd.Flags().GetBool("form")
			return withLibrary(cmd, stderr, func(ctx context.Context, user *authapi.Profile, lib *library.Store) error {
				c, err := lib.Get(ctx, user.ID.String(), args[0])
				if err != nil {
					return err
				}
				if asForm {
					data, err := iac.EncodeForm(c.Form)
					if err != nil {
						return err
					}
					_, err = stdout.Write(data)
					return err
				}
				fmt.Fprint(stdout, c.Document())
				return nil
			})
		},
	}
	cmd.Flags().Bool("form", false, "Print the YAML form instead of the document")
	return cmd
}

func newIaCDeleteCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <id>",
		Short:             "Delete a saved configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeConfigIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, stderr, func(ctx context.Context, user *authapi.Profile, lib *library.Store) error {
				if err := lib.Delete(ctx, user.ID.String(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "%s Deleted %s\n", style.Success.Render(style.IconOK), args[0])
				return nil
			})
		},
	}
}
