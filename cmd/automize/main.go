// automize is the command-line front-end for the configuration platform:
// account sessions, Terraform document generation and the web server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/automize/automize/internal/logging"
	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

// Version metadata injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit is a sentinel error returned by cobra RunE functions to signal
// non-zero exit. The command has already written its own error to stderr.
var errExit = errors.New("exit")

// run executes the automize CLI with the given args.
func run(args []string, stdout, stderr io.Writer) int {
	rep := startReporting()
	defer rep.flush()

	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "automize: %v\n", err)
			if hint := hintFor(err); hint != "" {
				fmt.Fprintf(stderr, "  %s\n", style.Dim.Render(hint))
			} else {
				rep.capture(err)
			}
		}
		return 1
	}
	return 0
}

// newRootCmd creates the root cobra command with all subcommands.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "automize",
		Short:         "Automize: accounts and Terraform configuration generation",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			fmt.Fprintf(stderr, "automize: unknown command %q\n", args[0]) //nolint:errcheck // best-effort stderr
			return errExit
		},
	}
	root.PersistentFlags().String("color", "auto", "Color output: always, auto, never")
	root.PersistentFlags().String("log-level", "", "Log level for diagnostics on stderr (default from config)")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		colorMode, _ := cmd.Flags().GetString("color")
		switch colorMode {
		case "always", "auto", "never":
			style.SetColorMode(colorMode)
		default:
			return fmt.Errorf("invalid --color value %q: must be always, auto, or never", colorMode)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			if logging.ParseLevel(lvl).String() != strings.ToLower(lvl) {
				return fmt.Errorf("invalid --log-level value %q", lvl)
			}
		}
		return nil
	}
	root.AddCommand(
		newSignupCmd(stdout, stderr),
		newLoginCmd(stdout, stderr),
		newLogoutCmd(stdout, stderr),
		newWhoamiCmd(stdout, stderr),
		newIaCCmd(stdout, stderr),
		newServeCmd(stdout, stderr),
		newConfigCmd(stdout, stderr),
		newVersionCmd(stdout),
	)
	return root
}
