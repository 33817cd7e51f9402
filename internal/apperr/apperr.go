// Package apperr defines the error kinds every failure of the client core
// resolves to. Callers branch with errors.Is against the sentinels or with
// KindOf; all kinds render as a displayable error with a retry action.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	Network
	API
	Offline
	Params
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case API:
		return "api"
	case Offline:
		return "offline"
	case Params:
		return "params"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Code carries the forum's error code for
// API errors (e.g. "incorrect_login").
type Error struct {
	Kind Kind
	Code string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Code != "" {
		msg += "(" + e.Code + ")"
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, and API sentinels carrying a code by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

var (
	ErrNetwork = &Error{Kind: Network}
	ErrAPI     = &Error{Kind: API}
	ErrOffline = &Error{Kind: Offline}
	ErrParams  = &Error{Kind: Params}
	ErrUnknown = &Error{Kind: Unknown}
)

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// APIError is a failure reported by the forum itself.
func APIError(op, code string) *Error {
	return &Error{Kind: API, Op: op, Code: code}
}

func Offlinef(op, format string, args ...any) *Error {
	return &Error{Kind: Offline, Op: op, Err: fmt.Errorf(format, args...)}
}

func Paramsf(op, format string, args ...any) *Error {
	return &Error{Kind: Params, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf classifies any error; unclassified errors are Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Code returns the forum error code of an API error, or "".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Retryable reports whether offering a retry makes sense. Malformed
// parameters fail the same way every time.
func Retryable(err error) bool {
	return err != nil && KindOf(err) != Params
}
