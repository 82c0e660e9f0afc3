package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/port"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	ctx := context.Background()

	account, err := repo.CreateAccount(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.True(t, account.Disabled, "new accounts start disabled")
	assert.False(t, account.EmailVerified)

	byID, err := repo.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ada@example.com", byID.Email)

	byEmail, err := repo.GetAccountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, account.ID, byEmail.ID)

	missing, err := repo.GetAccountByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	ctx := context.Background()

	_, err := repo.CreateAccount(ctx, "dup@example.com")
	require.NoError(t, err)

	_, err = repo.CreateAccount(ctx, "dup@example.com")
	assert.Error(t, err, "email column is unique")
}

func TestAccountRepository_UpdateAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	ctx := context.Background()

	account, err := repo.CreateAccount(ctx, "ada@example.com")
	require.NoError(t, err)

	enabled := false
	name := "Ada Lovelace"
	verified := true
	err = repo.UpdateAccount(ctx, account.ID, port.AccountUpdate{
		Disabled:      &enabled,
		DisplayName:   &name,
		EmailVerified: &verified,
	})
	require.NoError(t, err)

	got, err := repo.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, got.Disabled)
	assert.Equal(t, "Ada Lovelace", got.DisplayName)
	assert.True(t, got.EmailVerified)

	// Empty update is a no-op, not an error
	require.NoError(t, repo.UpdateAccount(ctx, account.ID, port.AccountUpdate{}))

	// Missing account errors
	err = repo.UpdateAccount(ctx, "ghost", port.AccountUpdate{Disabled: &enabled})
	assert.Error(t, err)
}

func TestAccountRepository_ListAccountsPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.CreateAccount(ctx, fmt.Sprintf("user%d@example.com", i))
		require.NoError(t, err)
	}

	page1, token1, err := repo.ListAccounts(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, page1, 2)
	require.NotEmpty(t, token1)

	page2, token2, err := repo.ListAccounts(ctx, 2, token1)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	require.NotEmpty(t, token2)

	page3, token3, err := repo.ListAccounts(ctx, 2, token2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.Empty(t, token3, "final partial page carries no next token")

	// No overlap across pages
	seen := make(map[string]bool)
	for _, a := range append(append(page1, page2...), page3...) {
		assert.False(t, seen[a.ID], "account %s returned twice", a.ID)
		seen[a.ID] = true
	}

	_, _, err = repo.ListAccounts(ctx, 2, "not-base64!")
	assert.Error(t, err)
}
