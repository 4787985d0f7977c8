package main

import (
	"errors"
	"fmt"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/session"
)

// HintedError wraps an error with a user-facing recovery hint.
type HintedError struct {
	Err  error
	Hint string
}

func (h *HintedError) Error() string { return h.Err.Error() }
func (h *HintedError) Unwrap() error { return h.Err }

// messageError displays msg while keeping err in the chain.
type messageError struct {
	msg string
	err error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.err }

// errNotLoggedIn is returned by commands that need an authenticated session.
var errNotLoggedIn = errors.New("not logged in")

// hintFor picks the recovery hint printed under a failed command.
func hintFor(err error) string {
	var h *HintedError
	if errors.As(err, &h) {
		return h.Hint
	}
	switch {
	case errors.Is(err, errNotLoggedIn), errors.Is(err, session.ErrSessionRejected):
		return "Run 'automize login' to sign in."
	case errors.Is(err, session.ErrSuperseded):
		return "The session changed while signing in; try again."
	case errors.Is(err, iac.ErrUnknownField):
		return "Run 'automize iac fields' to list the field keys."
	case errors.Is(err, library.ErrNotFound):
		return "Run 'automize iac list' to see saved configurations."
	}
	var apiErr *authapi.Error
	if errors.As(err, &apiErr) && apiErr.Status == 0 {
		return "Check that the Auth Service is reachable ('automize config get api_url')."
	}
	return ""
}

// configError wraps a configuration failure with a hint.
func configError(err error) error {
	if err == nil {
		return nil
	}
	return &HintedError{
		Err:  fmt.Errorf("loading config: %w", err),
		Hint: "Fix the setting with 'automize config set <key> <value>' or check the AUTOMIZE_* environment variables.",
	}
}
