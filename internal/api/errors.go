package api

import (
	"fmt"
	"net/url"
)

// RequestError is returned when the server answers with a 4xx or 5xx status. It keeps the request
// parameters and response body so that a run summary can show exactly what failed.
type RequestError struct {
	Operation string
	Method    string
	URL       string
	Status    int
	Params    url.Values
	Body      string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s %s returned %d: %s", e.Operation, e.Method, e.URL, e.Status, e.Body)
}

// ErrNoSessionCookie is returned when a login succeeds but the server sets no cookie.
type ErrNoSessionCookie struct {
	UserID string
}

func (e *ErrNoSessionCookie) Error() string {
	return fmt.Sprintf("login for %q did not return a session cookie", e.UserID)
}
