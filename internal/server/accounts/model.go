// Package accounts owns account records and the unverified -> activated
// state machine that gates them.
package accounts

import (
	"strings"
	"time"
)

type State int

const (
	StateUnverified State = iota
	StateActivated
)

func (s State) String() string {
	if s == StateActivated {
		return "activated"
	}
	return "unverified"
}

type Account struct {
	ID             string
	Email          string
	PasswordHash   string
	ActivationLink string
	IsActivated    bool
	CreatedAt      time.Time
}

func (a *Account) State() State {
	if a.IsActivated {
		return StateActivated
	}
	return StateUnverified
}

// NormalizeEmail is applied before every lookup and insert, so uniqueness
// holds regardless of case and surrounding spaces.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
