package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidEndpoint = errors.New("endpoint is not an absolute http(s) url")

// ErrWrongCredentials is matched by every *AuthError.
var ErrWrongCredentials = errors.New("wrong username or password")

// StatusError is returned when a response falls outside of 2xx and the
// caller asked for status checks.
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unsuccessful request: %d %s", e.Code, e.Status)
}

// AuthError means the server answered a login attempt with the login form
// again. Notices holds whatever explanation the server rendered.
type AuthError struct {
	Message string
	Notices []string
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = ErrWrongCredentials.Error()
	}
	if len(e.Notices) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(e.Notices, "; "))
}

func (e *AuthError) Is(target error) bool {
	return target == ErrWrongCredentials
}
