package port

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// ProfileStore defines persistence operations for Profile documents.
// Getters return (nil, nil) when no document exists.
type ProfileStore interface {
	Create(ctx context.Context, profile *entity.Profile) error
	Get(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}

// RoleStore defines persistence operations for RoleSet documents.
// Get returns (nil, nil) when no document exists; the authorization
// engine translates that to a not-found condition.
type RoleStore interface {
	Create(ctx context.Context, roles *entity.RoleSet) error
	Get(ctx context.Context, userID string) (*entity.RoleSet, error)
	Update(ctx context.Context, roles *entity.RoleSet) error
}

// ExpenseStore defines persistence operations for Expense records.
type ExpenseStore interface {
	Create(ctx context.Context, expense *entity.Expense) error
	Get(ctx context.Context, id string) (*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]*entity.Expense, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entity.Expense, error)
}

// TransactionManager executes a function within a store transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
