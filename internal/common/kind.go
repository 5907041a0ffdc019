package common

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures a workflow can report.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindDuplicateAccount
	KindInvalidActivationLink
	KindUnknownAccount
	KindBadCredentials
	KindUnauthorized
	KindInvalidInput
)

var kindCodes = map[ErrorKind]string{
	KindInternal:              "internal_failure",
	KindDuplicateAccount:      "duplicate_account",
	KindInvalidActivationLink: "invalid_activation_link",
	KindUnknownAccount:        "unknown_account",
	KindBadCredentials:        "bad_credentials",
	KindUnauthorized:          "unauthorized",
	KindInvalidInput:          "invalid_input",
}

// Code returns the stable client-facing identifier of the kind.
func (k ErrorKind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return kindCodes[KindInternal]
}

func (k ErrorKind) String() string { return k.Code() }

// KindFromCode is the inverse of Code. Unknown codes map to KindInternal.
func KindFromCode(code string) ErrorKind {
	for k, c := range kindCodes {
		if c == code {
			return k
		}
	}
	return KindInternal
}

// Error is a tagged workflow failure. Detail holds the minimal context needed
// for a client-facing message; cause is kept for logs only.
type Error struct {
	Kind   ErrorKind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Code()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Detail)
}

// Unwrap exposes the infrastructure cause of an internal failure.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a tagged error with a formatted detail.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Internal wraps an infrastructure fault. The cause never reaches clients.
func Internal(op string, cause error) *Error {
	return &Error{Kind: KindInternal, Detail: op, cause: cause}
}

// KindOf classifies err. Errors that carry no tag are internal failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage renders err for a client without leaking internal detail.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return KindInternal.Code()
	}
	return e.Error()
}
