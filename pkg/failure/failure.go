// Package failure classifies the outcomes of store and gateway operations.
//
// Every remote call resolves to a value or a *Error. Kinds map onto how the
// caller reacts: Validation never reached the network, Auth means the
// credential is missing or rejected, Conflict is a duplicate account, Network
// covers transport problems and non-2xx responses, Unknown is the fallback.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is a classified failure carrying a message fit for the user.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code, zero when no response was received.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any other *Error of the same kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrUnknown    = &Error{Kind: KindUnknown}

	// ErrNoCredential is returned before any request when no bearer token is
	// available.
	ErrNoCredential = &Error{Kind: KindAuth, Message: "no credential, please log in"}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(msg string, status int) *Error {
	return &Error{Kind: KindAuth, Message: msg, Status: status}
}

func Conflict(msg string, status int) *Error {
	return &Error{Kind: KindConflict, Message: msg, Status: status}
}

func Network(msg string, status int, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Status: status, Err: err}
}

func Unknown(msg string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// From classifies an arbitrary error. Already classified errors pass
// through; anything else becomes Unknown with fallback as the message.
func From(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Unknown(fallback, err)
}

// Message returns the user-presentable message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return From(err, err.Error()).Error()
}
