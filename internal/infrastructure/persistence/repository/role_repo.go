package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// RoleRepository implements port.RoleStore
type RoleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB, logger *zap.Logger) port.RoleStore {
	return &RoleRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new role set document
func (r *RoleRepository) Create(ctx context.Context, roles *entity.RoleSet) error {
	query := `
		INSERT INTO role_sets (
			user_id, admin, expense_management, resource_management, user_management,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		roles.UserID,
		roles.Admin,
		roles.ExpenseManagement,
		roles.ResourceManagement,
		roles.UserManagement,
		roles.CreatedAt,
		roles.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create role set", zap.String("user_id", roles.UserID), zap.Error(err))
		return fmt.Errorf("failed to create role set: %w", err)
	}

	return nil
}

// Get retrieves a role set by user id, returning (nil, nil) when no
// role document exists
func (r *RoleRepository) Get(ctx context.Context, userID string) (*entity.RoleSet, error) {
	query := `
		SELECT user_id, admin, expense_management, resource_management, user_management,
			created_at, updated_at
		FROM role_sets
		WHERE user_id = ?
	`

	var roles entity.RoleSet
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&roles.UserID,
		&roles.Admin,
		&roles.ExpenseManagement,
		&roles.ResourceManagement,
		&roles.UserManagement,
		&roles.CreatedAt,
		&roles.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get role set", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get role set: %w", err)
	}

	return &roles, nil
}

// Update replaces the capability flags
func (r *RoleRepository) Update(ctx context.Context, roles *entity.RoleSet) error {
	query := `
		UPDATE role_sets
		SET admin = ?, expense_management = ?, resource_management = ?,
			user_management = ?, updated_at = ?
		WHERE user_id = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		roles.Admin,
		roles.ExpenseManagement,
		roles.ResourceManagement,
		roles.UserManagement,
		roles.UpdatedAt,
		roles.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to update role set", zap.String("user_id", roles.UserID), zap.Error(err))
		return fmt.Errorf("failed to update role set: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("role set %s does not exist", roles.UserID)
	}

	return nil
}

// Verify interface compliance
var _ port.RoleStore = (*RoleRepository)(nil)
