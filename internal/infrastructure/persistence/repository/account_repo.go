package repository

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

const defaultPageSize = 50

// AccountRepository implements port.UserDirectory on the accounts table
type AccountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB, logger *zap.Logger) port.UserDirectory {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount creates a disabled, unverified account record
func (r *AccountRepository) CreateAccount(ctx context.Context, email string) (*entity.Account, error) {
	account := &entity.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Disabled:  true,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO accounts (id, email, email_verified, disabled, display_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.EmailVerified,
		account.Disabled,
		account.DisplayName,
		account.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", zap.Error(err))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// UpdateAccount applies the non-nil fields of the update
func (r *AccountRepository) UpdateAccount(ctx context.Context, id string, update port.AccountUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	if update.Disabled != nil {
		sets = append(sets, "disabled = ?")
		args = append(args, *update.Disabled)
	}
	if update.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *update.DisplayName)
	}
	if update.EmailVerified != nil {
		sets = append(sets, "email_verified = ?")
		args = append(args, *update.EmailVerified)
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE accounts SET " + joinSets(sets) + " WHERE id = ?"
	args = append(args, id)

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update account", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s does not exist", id)
	}

	return nil
}

// GetAccountByID retrieves an account by id, returning (nil, nil) when absent
func (r *AccountRepository) GetAccountByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getAccount(ctx, "id = ?", id)
}

// GetAccountByEmail retrieves an account by email, returning (nil, nil) when absent
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getAccount(ctx, "email = ?", email)
}

func (r *AccountRepository) getAccount(ctx context.Context, where string, arg interface{}) (*entity.Account, error) {
	query := `
		SELECT id, email, email_verified, disabled, display_name, created_at
		FROM accounts
		WHERE ` + where

	var account entity.Account
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.EmailVerified,
		&account.Disabled,
		&account.DisplayName,
		&account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get account", zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// ListAccounts returns a page of accounts ordered by creation time.
// The page token is an opaque base64 offset.
func (r *AccountRepository) ListAccounts(ctx context.Context, pageSize int, pageToken string) ([]*entity.Account, string, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", fmt.Errorf("invalid page token: %w", err)
	}

	query := `
		SELECT id, email, email_verified, disabled, display_name, created_at
		FROM accounts
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		r.logger.Error("Failed to list accounts", zap.Error(err))
		return nil, "", fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.Account
	for rows.Next() {
		var account entity.Account
		err := rows.Scan(
			&account.ID,
			&account.Email,
			&account.EmailVerified,
			&account.Disabled,
			&account.DisplayName,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	nextToken := ""
	if len(accounts) == pageSize {
		nextToken = encodePageToken(offset + pageSize)
	}

	return accounts, nextToken, nil
}

func encodePageToken(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("malformed offset")
	}
	return offset, nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

// Verify interface compliance
var _ port.UserDirectory = (*AccountRepository)(nil)
