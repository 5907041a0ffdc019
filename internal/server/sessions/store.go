// Package sessions keeps the single currently-valid refresh token of every
// account. Issuing a new token for an account overwrites the previous one,
// which is what makes a superseded refresh token unusable even while its
// signature is still valid.
package sessions

import (
	"context"
	"time"
)

// Record is the stored association between an account and its refresh token.
type Record struct {
	AccountID string
	Token     string
	ExpiresAt time.Time
}

// Store defines the session persistence contract.
type Store interface {
	// Put upserts the session of accountID. Any previous token of that
	// account stops resolving.
	Put(ctx context.Context, accountID, token string, expiresAt time.Time) error

	// Get resolves a token to its account. Absent, superseded or expired
	// tokens yield common.ErrorNotFound.
	Get(ctx context.Context, token string) (string, error)

	// Remove deletes the session holding token and returns it, or nil when
	// there was nothing to delete.
	Remove(ctx context.Context, token string) (*Record, error)
}
