package main

import (
	"fmt"
	"io"

	"github.com/automize/automize/internal/config"
	"github.com/automize/automize/internal/style"
	"github.com/spf13/cobra"
)

func newConfigCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set automize configuration",
		Long: `View or modify automize settings.

Use 'automize config get <key>' to read a setting.
Use 'automize config set <key> <value>' to change a setting.
Use 'automize config show' to print every setting.

Settings live in $XDG_CONFIG_HOME/automize/config.toml; AUTOMIZE_*
environment variables override the file.

Supported keys:
  api_url         Auth Service base URL
  port            Web server port
  cookie_secret   Secret signing the web session cookie
  cookie_secure   Mark the session cookie Secure (true or false)
  database_path   Saved-configuration library file
  sentry_dsn      Error reporting DSN
  log_level       Diagnostic log level`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newConfigGetCmd(stdout, stderr),
		newConfigSetCmd(stdout, stderr),
		newConfigShowCmd(stdout, stderr),
	)

	return cmd
}

func newConfigGetCmd(stdout, _ io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return configError(err)
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, v)
			return nil
		},
	}
}

func newConfigSetCmd(stdout, _ io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(stdout, args[0], args[1])
		},
	}
}

// runConfigSet edits the settings file only; environment overrides are
// not written back.
func runConfigSet(stdout io.Writer, key, value string) error {
	path := config.Path()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return configError(err)
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(stdout, "%s %s = %s\n", style.Success.Render(style.IconOK), key, display(key, value))
	return nil
}

func newConfigShowCmd(stdout, _ io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return configError(err)
			}
			for _, key := range config.Keys {
				v, _ := cfg.Get(key)
				fmt.Fprintf(stdout, "%-14s %s\n", key, display(key, v))
			}
			return nil
		},
	}
}

// display masks secrets.
func display(key, value string) string {
	if key == "cookie_secret" && value != "" {
		return "********"
	}
	return value
}
