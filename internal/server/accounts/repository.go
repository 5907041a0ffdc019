package accounts

import "context"

// Repository is the keyed account store. Lookups return
// common.ErrorNotFound when nothing matches; Create returns
// common.ErrorAlreadyExists when the email is taken.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByActivationLink(ctx context.Context, link string) (*Account, error)

	// Activate flips the activation flag of the account holding link and
	// returns the updated record.
	Activate(ctx context.Context, link string) (*Account, error)

	List(ctx context.Context) ([]*Account, error)
}
