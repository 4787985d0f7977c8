package main

import (
	"context"
	"io"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/config"
	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/logging"
	"github.com/automize/automize/internal/session"
	"github.com/automize/automize/internal/tokenstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles the collaborators a command needs: settings, logger, the
// Auth Service client and a Session Manager over the token file.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	auth    *authapi.Client
	store   *tokenstore.FileStore
	session *session.Manager
}

func newApp(cmd *cobra.Command, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, configError(err)
	}
	level := cfg.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level = flag
	}
	log := logging.New(stderr, level).With().Str("command", cmd.CommandPath()).Logger()
	auth := authapi.New(cfg.APIURL)
	store := tokenstore.DefaultFileStore()
	return &app{
		cfg:     cfg,
		log:     log,
		auth:    auth,
		store:   store,
		session: session.New(store, auth, session.WithLogger(log)),
	}, nil
}

// currentUser initialises the session and returns the signed-in profile.
func (a *app) currentUser(ctx context.Context) (*authapi.Profile, error) {
	st, err := a.session.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	if st.Status != session.Authenticated {
		return nil, errNotLoggedIn
	}
	return st.User, nil
}

// openLibrary opens the saved-configuration database.
func (a *app) openLibrary() (*library.Store, error) {
	return library.Open(a.cfg.DatabasePath, a.log)
}
