// Package web serves the automize browser front-end: the landing page,
// sign-in and sign-up, the dashboard of saved configurations and the
// create-IaC editor with live preview.
package web

import (
	"context"
	"errors"
	"io/fs"

	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/session"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// AuthService is the Auth Service as the pages use it.
type AuthService interface {
	session.Credentials
	session.ProfileFetcher
}

// Library stores saved configurations per owner.
type Library interface {
	Save(ctx context.Context, cfg *library.Config) error
	List(ctx context.Context, owner string) ([]*library.Config, error)
	Get(ctx context.Context, owner, id string) (*library.Config, error)
	Delete(ctx context.Context, owner, id string) error
}

// Options configures a Server.
type Options struct {
	Auth    AuthService
	Library Library
	Assets  fs.FS // templates/, static/ and content/

	CookieSecret string
	CookieSecure bool

	Logger   zerolog.Logger
	Registry *prometheus.Registry // nil creates a private registry
	Sentry   bool                 // report panics to the initialised Sentry hub
}

// Server is the web front-end.
type Server struct {
	auth     AuthService
	lib      Library
	assets   fs.FS
	secret   string
	secure   bool
	log      zerolog.Logger
	pages    *pages
	metrics  *metrics
	registry *prometheus.Registry
	sentry   bool
	policy   *bluemonday.Policy
}

// New creates a Server. Templates are parsed up front so a broken asset
// fails here rather than on first request.
func New(opts Options) (*Server, error) {
	if opts.Auth == nil || opts.Library == nil || opts.Assets == nil {
		return nil, errors.New("web: auth, library and assets are required")
	}
	if opts.CookieSecret == "" {
		return nil, errors.New("web: cookie secret is required")
	}
	p, err := loadPages(opts.Assets)
	if err != nil {
		return nil, err
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		auth:     opts.Auth,
		lib:      opts.Library,
		assets:   opts.Assets,
		secret:   opts.CookieSecret,
		secure:   opts.CookieSecure,
		log:      opts.Logger.With().Str("component", "web").Logger(),
		pages:    p,
		metrics:  newMetrics(reg),
		registry: reg,
		sentry:   opts.Sentry,
		policy:   bluemonday.StrictPolicy(),
	}, nil
}
