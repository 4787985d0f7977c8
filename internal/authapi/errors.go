package authapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Op names an Auth Service endpoint.
type Op string

const (
	OpRegister Op = "register"
	OpLogin    Op = "login"
	OpMe       Op = "me"
)

// fallback is the message used when the service gives no body.
func (o Op) fallback() string {
	switch o {
	case OpRegister:
		return "Registration failed"
	case OpLogin:
		return "Login failed"
	default:
		return "Not authenticated"
	}
}

// Error is a failed Auth Service call: either a non-2xx response or a
// transport failure (Status 0, Err set).
type Error struct {
	Op       Op
	Status   int
	Body     string
	Fallback string
	Err      error
}

func statusError(op Op, resp *resty.Response) *Error {
	return &Error{Op: op, Status: resp.StatusCode(), Body: resp.String(), Fallback: op.fallback()}
}

func transportError(op Op, err error) *Error {
	return &Error{Op: op, Fallback: op.fallback(), Err: err}
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("auth %s: status %d: %s", e.Op, e.Status, e.Text())
}

func (e *Error) Unwrap() error { return e.Err }

// Text is the raw response body, or the endpoint fallback when it is empty.
func (e *Error) Text() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return e.Fallback
}

// UserMessage extracts a displayable message. The body is first parsed as
// JSON and its "message" field used (a string, or a list joined with "; ");
// otherwise the body text is shown as-is, and the fallback only when the
// body is empty.
func (e *Error) UserMessage() string {
	var parsed struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &parsed); err != nil || len(parsed.Message) == 0 {
		return e.Text()
	}
	var single string
	if err := json.Unmarshal(parsed.Message, &single); err == nil && single != "" {
		return single
	}
	var list []string
	if err := json.Unmarshal(parsed.Message, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	return e.Text()
}

// StatusCode returns the HTTP status of err if it is an *Error, else 0.
func StatusCode(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
