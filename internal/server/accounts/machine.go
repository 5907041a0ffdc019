package accounts

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/google/uuid"
)

// Machine drives account creation, activation and credential checks.
type Machine struct {
	repo              Repository
	hasher            cryptox.Hasher
	requireActivation bool
	newLink           func() string
}

type MachineOption func(*Machine)

// RequireActivation makes Authenticate refuse unverified accounts.
func RequireActivation(v bool) MachineOption {
	return func(m *Machine) { m.requireActivation = v }
}

// WithLinkGenerator replaces the UUID activation link source.
func WithLinkGenerator(gen func() string) MachineOption {
	return func(m *Machine) { m.newLink = gen }
}

func NewMachine(repo Repository, hasher cryptox.Hasher, opts ...MachineOption) *Machine {
	m := &Machine{repo: repo, hasher: hasher, newLink: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new unverified account. The email lookup is only a
// fast path; the store's unique constraint decides concurrent races.
func (m *Machine) Create(ctx context.Context, email, secret string) (*Account, error) {
	email = NormalizeEmail(email)

	_, err := m.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.NewError(common.KindDuplicateAccount, "account with email %s already exists", email)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.Internal("lookup account", err)
	}

	hash, err := m.hasher.Hash(secret)
	if err != nil {
		return nil, common.Internal("hash secret", err)
	}

	account, err := m.repo.Create(ctx, &Account{
		Email:          email,
		PasswordHash:   hash,
		ActivationLink: m.newLink(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.KindDuplicateAccount, "account with email %s already exists", email)
		}
		return nil, common.Internal("create account", err)
	}
	return account, nil
}

// Activate marks the account owning link as verified. Presenting the link
// of an already activated account succeeds without changing anything.
func (m *Machine) Activate(ctx context.Context, link string) (*Account, error) {
	if link == "" {
		return nil, common.NewError(common.KindInvalidActivationLink, "activation link is empty")
	}

	account, err := m.repo.GetByActivationLink(ctx, link)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.KindInvalidActivationLink, "activation link is invalid")
		}
		return nil, common.Internal("lookup activation link", err)
	}
	if account.State() == StateActivated {
		return account, nil
	}

	account, err = m.repo.Activate(ctx, link)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.KindInvalidActivationLink, "activation link is invalid")
		}
		return nil, common.Internal("activate account", err)
	}
	return account, nil
}

// Authenticate checks email and secret. Unverified accounts may log in
// unless RequireActivation is set.
func (m *Machine) Authenticate(ctx context.Context, email, secret string) (*Account, error) {
	email = NormalizeEmail(email)

	account, err := m.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.KindUnknownAccount, "account with email %s does not exist", email)
		}
		return nil, common.Internal("lookup account", err)
	}

	ok, err := m.hasher.Verify(secret, account.PasswordHash)
	if err != nil {
		return nil, common.Internal("verify secret", err)
	}
	if !ok {
		return nil, common.NewError(common.KindBadCredentials, "wrong password")
	}

	if m.requireActivation && account.State() != StateActivated {
		return nil, common.NewError(common.KindUnauthorized, "account not activated")
	}
	return account, nil
}

// Get loads an account by id.
func (m *Machine) Get(ctx context.Context, id string) (*Account, error) {
	account, err := m.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.KindUnknownAccount, "account %s does not exist", id)
		}
		return nil, common.Internal("lookup account", err)
	}
	return account, nil
}

func (m *Machine) List(ctx context.Context) ([]*Account, error) {
	list, err := m.repo.List(ctx)
	if err != nil {
		return nil, common.Internal("list accounts", err)
	}
	return list, nil
}
