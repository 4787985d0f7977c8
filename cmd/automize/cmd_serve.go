package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/automize/automize/internal/style"
	"github.com/automize/automize/internal/web"
	assets "github.com/automize/automize/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front-end",
		Long: `Serve the sign-in, sign-up, dashboard and create-IaC pages.

The browser session is an HMAC-signed cookie holding the access token.
Without a configured cookie_secret a random one is generated, so sessions
do not survive a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, stdout, stderr)
		},
	}
	cmd.Flags().Int("port", 0, "Port to listen on (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, stdout, stderr io.Writer) error {
	a, err := newApp(cmd, stderr)
	if err != nil {
		return err
	}
	port := a.cfg.Port
	if p, _ := cmd.Flags().GetInt("port"); p != 0 {
		port = p
	}

	secret := a.cfg.CookieSecret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
		a.log.Warn().Msg("no cookie_secret configured; generated one for this process")
	}

	lib, err := a.openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server, err := web.New(web.Options{
		Auth:         a.auth,
		Library:      lib,
		Assets:       assets.Assets,
		CookieSecret: secret,
		CookieSecure: a.cfg.CookieSecure,
		Logger:       a.log,
		Registry:     reg,
		Sentry:       a.cfg.SentryDSN != "",
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Fprintf(stdout, "%s automize listening on http://localhost%s (auth service %s)\n",
		style.Success.Render(style.IconOK), srv.Addr, a.auth.BaseURL())

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-cmd.Context().Done():
	}
	fmt.Fprintln(stderr, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating cookie secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
