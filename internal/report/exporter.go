package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

const sheetName = "Expenses"

var headerRow = []string{
	"ID", "Assigned To", "Title", "Description", "Date",
	"Amount", "Category", "Status", "Created At",
}

// ExpenseExporter writes expense records into an xlsx workbook.
// Exporting another user's expenses requires expense management.
type ExpenseExporter struct {
	authz    service.AuthorizationEngine
	expenses port.ExpenseStore
	logger   *zap.Logger
}

// NewExpenseExporter creates a new expense exporter
func NewExpenseExporter(authz service.AuthorizationEngine, expenses port.ExpenseStore, logger *zap.Logger) *ExpenseExporter {
	return &ExpenseExporter{
		authz:    authz,
		expenses: expenses,
		logger:   logger,
	}
}

// Export renders the owner's expenses as an xlsx workbook. An empty
// ownerID exports all expenses and always requires expense management.
func (e *ExpenseExporter) Export(ctx context.Context, requesterID, ownerID string) ([]byte, error) {
	if ownerID == "" || ownerID != requesterID {
		if err := e.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	var expenses []*entity.Expense
	var err error
	if ownerID == "" {
		expenses, err = e.expenses.List(ctx, 0)
	} else {
		expenses, err = e.expenses.ListByOwner(ctx, ownerID, 0)
	}
	if err != nil {
		return nil, apperr.Internal("report/list-expenses", err)
	}

	e.logger.Info("Exporting expense report",
		zap.String("owner_id", ownerID),
		zap.Int("count", len(expenses)))

	return renderWorkbook(expenses)
}

func renderWorkbook(expenses []*entity.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	for col, title := range headerRow {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	for row, expense := range expenses {
		values := []interface{}{
			expense.ID,
			expense.AssignedToID,
			expense.Title,
			expense.Description,
			expense.Date.Format("2006-01-02"),
			expense.Amount(),
			string(expense.Category),
			string(expense.Status),
			expense.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
