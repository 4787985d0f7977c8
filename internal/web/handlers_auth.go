package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/session"
	"github.com/flosch/pongo2/v6"
	"github.com/rs/zerolog"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home.html", pongo2.Context{"landing": s.pages.landing})
}

func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	if mgr, _ := SessionFromContext(r.Context()); mgr != nil && mgr.IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "sign_in.html", nil)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	mgr, _ := SessionFromContext(r.Context())
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		s.render(w, r, http.StatusBadRequest, "sign_in.html", pongo2.Context{
			"email": email,
			"error": "Email and password are required.",
		})
		return
	}

	// A signed-in visitor posting the form switches accounts.
	if mgr.IsAuthenticated() {
		mgr.Logout()
	}
	if _, err := mgr.SignIn(r.Context(), s.auth, email, password); err != nil {
		s.metrics.authFailures.WithLabelValues("login").Inc()
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("sign-in failed")
		s.render(w, r, failureStatus(err), "sign_in.html", pongo2.Context{
			"email": email,
			"error": s.userMessage(err, "Login failed"),
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	if mgr, _ := SessionFromContext(r.Context()); mgr != nil && mgr.IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "sign_up.html", nil)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	mgr, _ := SessionFromContext(r.Context())
	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	form := pongo2.Context{"username": username, "email": email}
	if username == "" || email == "" || password == "" {
		form["error"] = "Username, email and password are required."
		s.render(w, r, http.StatusBadRequest, "sign_up.html", form)
		return
	}

	if mgr.IsAuthenticated() {
		mgr.Logout()
	}
	if _, err := mgr.SignUp(r.Context(), s.auth, username, email, password); err != nil {
		s.metrics.authFailures.WithLabelValues("register").Inc()
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("sign-up failed")
		form["error"] = s.userMessage(err, "Registration failed")
		s.render(w, r, failureStatus(err), "sign_up.html", form)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if mgr, ok := SessionFromContext(r.Context()); ok {
		mgr.Logout()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// userMessage turns an Auth Service failure into display text with any
// markup stripped.
func (s *Server) userMessage(err error, fallback string) string {
	msg := fallback
	var ae *authapi.Error
	if errors.As(err, &ae) {
		msg = ae.UserMessage()
		if errors.Is(err, session.ErrSessionRejected) {
			msg = "Signed in, but the session could not be verified: " + msg
		}
	}
	return s.policy.Sanitize(msg)
}

// failureStatus maps an Auth Service failure to the page status: client
// errors pass through, anything else is a bad gateway.
func failureStatus(err error) int {
	if code := authapi.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}
