package web

import (
	"context"
	"net/http"
	"time"

	"github.com/automize/automize/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the request's session manager, injected by the
// session middleware.
func SessionFromContext(ctx context.Context) (*session.Manager, bool) {
	m, ok := ctx.Value(sessionContextKey).(*session.Manager)
	return m, ok
}

// withSession builds a session manager over the request's cookie, restores
// it and injects it into the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := &cookieStore{w: w, r: r, secret: s.secret, secure: s.secure}
		mgr := session.New(store, s.auth, session.WithLogger(*zerolog.Ctx(r.Context())))
		if _, err := mgr.Initialize(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("initializing session")
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, mgr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth sends anonymous visitors to the sign-in page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mgr, ok := SessionFromContext(r.Context())
		if ok && mgr.IsAuthenticated() {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/auth/sign-in", http.StatusSeeOther)
	})
}

// requireToken admits JSON requests carrying a validly signed token cookie
// without a round trip to the Auth Service. Only handlers that read no
// profile data may use it; a revoked token is caught on the next page load.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := &cookieStore{w: w, r: r, secret: s.secret, secure: s.secure}
		if token, _ := store.Load(); token == "" {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter records the response status.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// observe tags each request with an id, puts a request logger in the
// context, and records the access log line and metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		log := s.log.With().Str("request_id", id).Logger()
		r = r.WithContext(log.WithContext(r.Context()))

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.observe(route, sw.status, elapsed)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", elapsed).
			Msg("request")
	})
}

// recoverPanics turns a handler panic into a 500.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
