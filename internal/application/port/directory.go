package port

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// AccountUpdate carries the optional directory account mutations.
// Nil fields are left untouched.
type AccountUpdate struct {
	Disabled      *bool
	DisplayName   *string
	EmailVerified *bool
}

// UserDirectory is the external account directory boundary. Getters
// return (nil, nil) when no account exists.
type UserDirectory interface {
	CreateAccount(ctx context.Context, email string) (*entity.Account, error)
	UpdateAccount(ctx context.Context, id string, update AccountUpdate) error
	GetAccountByID(ctx context.Context, id string) (*entity.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)

	// ListAccounts returns up to pageSize accounts starting at the
	// opaque pageToken, plus the token for the next page ("" at the
	// end of the listing).
	ListAccounts(ctx context.Context, pageSize int, pageToken string) ([]*entity.Account, string, error)
}
