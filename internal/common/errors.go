// Package common defines shared constants and the error taxonomy used across
// the client and server layers of GophAuth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors. Services translate them into tagged errors
	// before they reach a transport.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Token codec configuration errors.
	ErrInvalidCodecConfig = errors.New("invalid token codec config")
)

// Client-facing sentinels. Each one matches every *Error of the same kind,
// regardless of detail.
var (
	ErrDuplicateAccount      = &Error{Kind: KindDuplicateAccount}
	ErrInvalidActivationLink = &Error{Kind: KindInvalidActivationLink}
	ErrUnknownAccount        = &Error{Kind: KindUnknownAccount}
	ErrBadCredentials        = &Error{Kind: KindBadCredentials}
	ErrUnauthorized          = &Error{Kind: KindUnauthorized}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrInternal              = &Error{Kind: KindInternal}
)
