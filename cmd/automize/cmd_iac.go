package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

func newIaCCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iac",
		Short: "Generate Terraform configuration documents",
		Long: `Build a Terraform document from a form of fields.

Each field contributes one fixed block when it is selected and has a value.
Forms can be given on the command line (--select, --set), read from a YAML
form file (--form), edited interactively (edit), or kept in the personal
library of saved configurations (save, list, show, delete).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		newIaCFieldsCmd(stdout),
		newIaCRenderCmd(stdout, stderr),
		newIaCEditCmd(stdout, stderr),
		newIaCSaveCmd(stdout, stderr),
		newIaCListCmd(stdout, stderr),
		newIaCShowCmd(stdout, stderr),
		newIaCDeleteCmd(stdout, stderr),
	)
	return cmd
}

func newIaCFieldsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the form fields",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tbl := style.NewTable(
				style.Column{Name: "KEY", Width: 14},
				style.Column{Name: "LABEL", Width: 14},
				style.Column{Name: "INPUT", Width: 10},
			)
			for _, k := range iac.Keys() {
				input := "line"
				if k.Multiline() {
					input = "multiline"
				}
				tbl.AddRow(k.String(), k.Label(), input)
			}
			fmt.Fprint(stdout, tbl.Render())
			return nil
		},
	}
}

// addFormFlags registers the flags that describe a form.
func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("form", "", "Read the form from a YAML form file")
	cmd.Flags().StringSlice("select", nil, "Select fields by key (repeatable, comma-separated)")
	cmd.Flags().StringArray("set", nil, "Set a field value as key=value and select it (repeatable)")
	registerFormCompletions(cmd)
}

// formFromFlags builds the form described by --form, --select and --set,
// applied in that order.
func formFromFlags(cmd *cobra.Command) (*iac.Form, error) {
	path, _ := cmd.Flags().GetString("form")
	form := iac.EmptyForm()
	if path != "" {
		loaded, err := iac.LoadFormFile(path)
		if err != nil {
			return nil, err
		}
		form = loaded
	}
	if err := applyFormFlags(cmd, form); err != nil {
		return nil, err
	}
	return form, nil
}

// applyFormFlags applies --select and --set to form.
func applyFormFlags(cmd *cobra.Command, form *iac.Form) error {
	selected, _ := cmd.Flags().GetStringSlice("select")
	sets, _ := cmd.Flags().GetStringArray("set")
	for _, name := range selected {
		k, err := iac.ParseFieldKey(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		form.Select(k, true)
	}
	for _, kv := range sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		k, err := iac.ParseFieldKey(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		form.Set(k, value)
		form.Select(k, true)
	}
	return nil
}

func newIaCRenderCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form to a Terraform document",
		Long: `Render the form to stdout, or export it.

--out writes terraform-config.tf into the given directory; --copy places
the document on the clipboard; --write-form saves the form itself.`,
		Example: `  automize iac render --set provider=us-east-1 --set tags='Project = "prod"'
  automize iac render --form site.yaml --out ./infra`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIaCRender(cmd, stdout, stderr)
		},
	}
	addFormFlags(cmd)
	cmd.Flags().String("out", "", "Write "+iac.ExportFileName+" into this directory")
	cmd.Flags().Bool("copy", false, "Copy the document to the clipboard")
	cmd.Flags().String("write-form", "", "Also write the form to this YAML file")
	return cmd
}

// newClipboard is swapped out by tests.
var newClipboard = iac.SystemClipboard

func runIaCRender(cmd *cobra.Command, stdout, stderr io.Writer) error {
	outDir, _ := cmd.Flags().GetString("out")
	copyDoc, _ := cmd.Flags().GetBool("copy")
	formPath, _ := cmd.Flags().GetString("write-form")

	form, err := formFromFlags(cmd)
	if err != nil {
		return err
	}
	doc := form.Render()

	if formPath != "" {
		if err := iac.WriteFormFile(formPath, form); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "%s Form written to %s\n", style.Success.Render(style.IconOK), formPath)
	}
	if copyDoc {
		if err := iac.Copy(newClipboard(), doc); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "%s Copied to clipboard\n", style.Success.Render(style.IconOK))
	}
	if outDir != "" {
		path, err := iac.WriteDocument(outDir, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s Wrote %s\n", style.Success.Render(style.IconOK), path)
		return nil
	}
	if !copyDoc {
		fmt.Fprint(stdout, doc)
	}
	return nil
}
