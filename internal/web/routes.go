package web

import (
	"io/fs"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the complete HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	static, err := fs.Sub(s.assets, "static")
	if err == nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	}

	page := func(h http.HandlerFunc) http.Handler { return s.withSession(h) }
	protected := func(h http.HandlerFunc) http.Handler { return s.withSession(s.requireAuth(h)) }

	mux.Handle("GET /{$}", page(s.handleHome))
	mux.Handle("GET /auth/sign-in", page(s.handleSignInPage))
	mux.Handle("POST /auth/sign-in", page(s.handleSignIn))
	mux.Handle("GET /auth/sign-up", page(s.handleSignUpPage))
	mux.Handle("POST /auth/sign-up", page(s.handleSignUp))
	mux.Handle("POST /auth/logout", page(s.handleLogout))

	mux.Handle("GET /dashboard", protected(s.handleDashboard))
	mux.Handle("GET /dashboard/create-iac", protected(s.handleCreateIaCPage))
	mux.Handle("POST /dashboard/create-iac", protected(s.handleCreateIaC))
	mux.Handle("GET /dashboard/configs/{id}", protected(s.handleConfig))
	mux.Handle("POST /dashboard/configs/{id}/delete", protected(s.handleDeleteConfig))

	mux.Handle("POST /api/iac/render", s.requireToken(http.HandlerFunc(s.handleRender)))

	var h http.Handler = mux
	h = s.observe(h)
	if s.sentry {
		h = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(h)
	}
	return s.recoverPanics(h)
}
