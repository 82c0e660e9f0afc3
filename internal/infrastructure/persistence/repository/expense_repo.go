package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// ExpenseRepository implements port.ExpenseStore. Picture paths are
// stored as a JSON array to keep their order.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseStore {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

const expenseColumns = `id, assigned_to_id, title, description, date, amount_cents,
		category, pictures, status, created_by, updated_by, created_at, updated_at`

// Create creates a new expense record
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	pictures, err := json.Marshal(expense.Pictures)
	if err != nil {
		return fmt.Errorf("failed to marshal pictures: %w", err)
	}

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		expense.ID,
		expense.AssignedToID,
		expense.Title,
		expense.Description,
		expense.Date,
		expense.AmountCents,
		string(expense.Category),
		string(pictures),
		string(expense.Status),
		expense.CreatedBy,
		expense.UpdatedBy,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.String("id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// Get retrieves an expense by id, returning (nil, nil) when absent
func (r *ExpenseRepository) Get(ctx context.Context, id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id)
	expense, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get expense", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// Update replaces the mutable expense fields
func (r *ExpenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	pictures, err := json.Marshal(expense.Pictures)
	if err != nil {
		return fmt.Errorf("failed to marshal pictures: %w", err)
	}

	query := `
		UPDATE expenses
		SET assigned_to_id = ?, title = ?, description = ?, date = ?, amount_cents = ?,
			category = ?, pictures = ?, status = ?, updated_by = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		expense.AssignedToID,
		expense.Title,
		expense.Description,
		expense.Date,
		expense.AmountCents,
		string(expense.Category),
		string(pictures),
		string(expense.Status),
		expense.UpdatedBy,
		expense.UpdatedAt,
		expense.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", zap.String("id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s does not exist", expense.ID)
	}

	return nil
}

// Delete removes an expense record
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete expense", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// List retrieves expenses across all owners, newest first
func (r *ExpenseRepository) List(ctx context.Context, limit int) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY date DESC, created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.queryExpenses(ctx, query, args...)
}

// ListByOwner retrieves expenses for one owner, newest first. A
// non-positive limit returns all rows.
func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE assigned_to_id = ? ORDER BY date DESC, created_at DESC`
	args := []interface{}{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.queryExpenses(ctx, query, args...)
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*entity.Expense, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// scanExpense reads one expense row via the given scan function
func scanExpense(scan func(dest ...interface{}) error) (*entity.Expense, error) {
	var expense entity.Expense
	var description sql.NullString
	var pictures string
	var category, status string

	err := scan(
		&expense.ID,
		&expense.AssignedToID,
		&expense.Title,
		&description,
		&expense.Date,
		&expense.AmountCents,
		&category,
		&pictures,
		&status,
		&expense.CreatedBy,
		&expense.UpdatedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		expense.Description = description.String
	}
	expense.Category = entity.Category(category)
	expense.Status = entity.Status(status)

	if err := json.Unmarshal([]byte(pictures), &expense.Pictures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pictures: %w", err)
	}

	return &expense, nil
}

// Verify interface compliance
var _ port.ExpenseStore = (*ExpenseRepository)(nil)
