package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/style"
	"github.com/automize/automize/internal/tui"
	"github.com/spf13/cobra"
)

func newIaCEditCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a form interactively with a live preview",
		Long: `Open the terminal editor: toggle fields, edit their values and watch the
document re-render on every keystroke.

When signed in, 's' saves the form to your library (--config continues a
saved configuration). With --form the edited form is written back to the
file on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIaCEdit(cmd, stdout, stderr)
		},
	}
	addFormFlags(cmd)
	cmd.Flags().String("config", "", "Start from a saved configuration by ID")
	cmd.Flags().String("name", "", "Name used when saving to the library")
	cmd.Flags().String("out", ".", "Directory 'w' writes "+iac.ExportFileName+" into")
	cmd.MarkFlagsMutuallyExclusive("config", "form")
	_ = cmd.RegisterFlagCompletionFunc("config", completeConfigIDs)
	return cmd
}

func runIaCEdit(cmd *cobra.Command, stdout, stderr io.Writer) error {
	configID, _ := cmd.Flags().GetString("config")
	name, _ := cmd.Flags().GetString("name")
	outDir, _ := cmd.Flags().GetString("out")
	formPath, _ := cmd.Flags().GetString("form")

	form, err := formFromFlags(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	cfg := tui.Config{Form: form, Clipboard: newClipboard(), OutDir: outDir}
	user, err := a.currentUser(ctx)
	switch {
	case errors.Is(err, errNotLoggedIn):
		if configID != "" {
			return err
		}
	case err != nil:
		return err
	default:
		lib, err := a.openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		entry := &library.Config{Owner: user.ID.String(), Name: name}
		if configID != "" {
			saved, err := lib.Get(ctx, entry.Owner, configID)
			if err != nil {
				return err
			}
			if err := applyFormFlags(cmd, saved.Form); err != nil {
				return err
			}
			entry = saved
			cfg.Form = saved.Form
			if name != "" {
				entry.Name = name
			}
		}
		cfg.User = user.Username
		cfg.Save = librarySaver(ctx, lib, entry)
	}

	final, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	if formPath != "" {
		if err := iac.WriteFormFile(formPath, final); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s Form written to %s\n", style.Success.Render(style.IconOK), formPath)
	}
	return nil
}

// librarySaver returns the editor's save action. The first save creates the
// entry; later saves update it in place.
func librarySaver(ctx context.Context, lib *library.Store, entry *library.Config) func(*iac.Form) (string, error) {
	return func(form *iac.Form) (string, error) {
		entry.Form = form.Clone()
		if err := lib.Save(ctx, entry); err != nil {
			return "", err
		}
		return entry.Name, nil
	}
}
