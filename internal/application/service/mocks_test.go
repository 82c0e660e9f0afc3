package service

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// Mock stores

type mockRoleStore struct {
	createFunc func(ctx context.Context, roles *entity.RoleSet) error
	getFunc    func(ctx context.Context, userID string) (*entity.RoleSet, error)
	updateFunc func(ctx context.Context, roles *entity.RoleSet) error
}

func (m *mockRoleStore) Create(ctx context.Context, roles *entity.RoleSet) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, roles)
	}
	return nil
}

func (m *mockRoleStore) Get(ctx context.Context, userID string) (*entity.RoleSet, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockRoleStore) Update(ctx context.Context, roles *entity.RoleSet) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, roles)
	}
	return nil
}

type mockProfileStore struct {
	createFunc     func(ctx context.Context, profile *entity.Profile) error
	getFunc        func(ctx context.Context, id string) (*entity.Profile, error)
	getByEmailFunc func(ctx context.Context, email string) (*entity.Profile, error)
	updateFunc     func(ctx context.Context, profile *entity.Profile) error
}

func (m *mockProfileStore) Create(ctx context.Context, profile *entity.Profile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	return nil
}

func (m *mockProfileStore) Get(ctx context.Context, id string) (*entity.Profile, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProfileStore) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockProfileStore) Update(ctx context.Context, profile *entity.Profile) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, profile)
	}
	return nil
}

type mockExpenseStore struct {
	createFunc      func(ctx context.Context, expense *entity.Expense) error
	getFunc         func(ctx context.Context, id string) (*entity.Expense, error)
	updateFunc      func(ctx context.Context, expense *entity.Expense) error
	deleteFunc      func(ctx context.Context, id string) error
	listFunc        func(ctx context.Context, limit int) ([]*entity.Expense, error)
	listByOwnerFunc func(ctx context.Context, ownerID string, limit int) ([]*entity.Expense, error)
}

func (m *mockExpenseStore) Create(ctx context.Context, expense *entity.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, expense)
	}
	return nil
}

func (m *mockExpenseStore) Get(ctx context.Context, id string) (*entity.Expense, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockExpenseStore) Update(ctx context.Context, expense *entity.Expense) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, expense)
	}
	return nil
}

func (m *mockExpenseStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockExpenseStore) List(ctx context.Context, limit int) ([]*entity.Expense, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entity.Expense, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID, limit)
	}
	return []*entity.Expense{}, nil
}

type mockDirectory struct {
	createAccountFunc     func(ctx context.Context, email string) (*entity.Account, error)
	updateAccountFunc     func(ctx context.Context, id string, update port.AccountUpdate) error
	getAccountByIDFunc    func(ctx context.Context, id string) (*entity.Account, error)
	getAccountByEmailFunc func(ctx context.Context, email string) (*entity.Account, error)
	listAccountsFunc      func(ctx context.Context, pageSize int, pageToken string) ([]*entity.Account, string, error)
}

func (m *mockDirectory) CreateAccount(ctx context.Context, email string) (*entity.Account, error) {
	if m.createAccountFunc != nil {
		return m.createAccountFunc(ctx, email)
	}
	return &entity.Account{ID: "new-account", Email: email, Disabled: true}, nil
}

func (m *mockDirectory) UpdateAccount(ctx context.Context, id string, update port.AccountUpdate) error {
	if m.updateAccountFunc != nil {
		return m.updateAccountFunc(ctx, id, update)
	}
	return nil
}

func (m *mockDirectory) GetAccountByID(ctx context.Context, id string) (*entity.Account, error) {
	if m.getAccountByIDFunc != nil {
		return m.getAccountByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDirectory) GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if m.getAccountByEmailFunc != nil {
		return m.getAccountByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockDirectory) ListAccounts(ctx context.Context, pageSize int, pageToken string) ([]*entity.Account, string, error) {
	if m.listAccountsFunc != nil {
		return m.listAccountsFunc(ctx, pageSize, pageToken)
	}
	return []*entity.Account{}, "", nil
}

type mockBlobStore struct {
	existsFunc      func(ctx context.Context, path string) (bool, error)
	getMetadataFunc func(ctx context.Context, path string) (entity.FileMetadata, error)
	setMetadataFunc func(ctx context.Context, path string, metadata entity.FileMetadata) error
	deleteFunc      func(ctx context.Context, path string) error
}

func (m *mockBlobStore) Exists(ctx context.Context, path string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, path)
	}
	return true, nil
}

func (m *mockBlobStore) GetMetadata(ctx context.Context, path string) (entity.FileMetadata, error) {
	if m.getMetadataFunc != nil {
		return m.getMetadataFunc(ctx, path)
	}
	return entity.FileMetadata{}, nil
}

func (m *mockBlobStore) SetMetadata(ctx context.Context, path string, metadata entity.FileMetadata) error {
	if m.setMetadataFunc != nil {
		return m.setMetadataFunc(ctx, path, metadata)
	}
	return nil
}

func (m *mockBlobStore) Delete(ctx context.Context, path string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, path)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// roleFixture returns a role store serving one fixed role set per user id
func roleFixture(roles map[string]*entity.RoleSet) *mockRoleStore {
	return &mockRoleStore{
		getFunc: func(ctx context.Context, userID string) (*entity.RoleSet, error) {
			return roles[userID], nil
		},
	}
}
