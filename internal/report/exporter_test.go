package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// stubAuthz grants expense management to the IDs in managers.
type stubAuthz struct {
	managers map[string]bool
}

func (s *stubAuthz) Roles(ctx context.Context, requesterID string) (*entity.RoleSet, error) {
	return &entity.RoleSet{UserID: requesterID, ExpenseManagement: s.managers[requesterID]}, nil
}

func (s *stubAuthz) Check(ctx context.Context, requesterID string, required ...service.Capability) error {
	for _, capability := range required {
		if capability == service.CapabilityExpenseManagement && !s.managers[requesterID] {
			return apperr.PermissionDenied("permission/expense-management-required")
		}
	}
	return nil
}

func (s *stubAuthz) RequireAdmin(ctx context.Context, requesterID string) error {
	return s.Check(ctx, requesterID, service.CapabilityAdmin)
}

func (s *stubAuthz) RequireExpenseManagement(ctx context.Context, requesterID string) error {
	return s.Check(ctx, requesterID, service.CapabilityExpenseManagement)
}

func (s *stubAuthz) RequireResourceManagement(ctx context.Context, requesterID string) error {
	return s.Check(ctx, requesterID, service.CapabilityResourceManagement)
}

func (s *stubAuthz) RequireUserManagement(ctx context.Context, requesterID string) error {
	return s.Check(ctx, requesterID, service.CapabilityUserManagement)
}

type stubExpenseStore struct {
	expenses []*entity.Expense
}

func (s *stubExpenseStore) Create(ctx context.Context, expense *entity.Expense) error { return nil }
func (s *stubExpenseStore) Get(ctx context.Context, id string) (*entity.Expense, error) {
	return nil, nil
}
func (s *stubExpenseStore) Update(ctx context.Context, expense *entity.Expense) error { return nil }
func (s *stubExpenseStore) Delete(ctx context.Context, id string) error               { return nil }

func (s *stubExpenseStore) List(ctx context.Context, limit int) ([]*entity.Expense, error) {
	return s.expenses, nil
}

func (s *stubExpenseStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entity.Expense, error) {
	var owned []*entity.Expense
	for _, expense := range s.expenses {
		if expense.AssignedToID == ownerID {
			owned = append(owned, expense)
		}
	}
	return owned, nil
}

func fixtureExpenses() []*entity.Expense {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return []*entity.Expense{
		{
			ID:           "exp-1",
			AssignedToID: "user-1",
			Title:        "Taxi to airport",
			Date:         date,
			AmountCents:  4200,
			Category:     entity.CategoryTravel,
			Status:       entity.StatusPending,
			CreatedAt:    date,
		},
		{
			ID:           "exp-2",
			AssignedToID: "user-2",
			Title:        "Team lunch",
			Date:         date,
			AmountCents:  7850,
			Category:     entity.CategoryMeals,
			Status:       entity.StatusApproved,
			CreatedAt:    date,
		},
	}
}

func TestExportOwnExpenses(t *testing.T) {
	exporter := NewExpenseExporter(
		&stubAuthz{managers: map[string]bool{}},
		&stubExpenseStore{expenses: fixtureExpenses()},
		zap.NewNop(),
	)

	workbook, err := exporter.Export(context.Background(), "user-1", "user-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the requester's single expense")

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "exp-1", rows[1][0])
	assert.Equal(t, "Taxi to airport", rows[1][2])
	assert.Equal(t, "42", rows[1][5])
}

func TestExportAllExpensesRequiresManagement(t *testing.T) {
	exporter := NewExpenseExporter(
		&stubAuthz{managers: map[string]bool{"mgr-1": true}},
		&stubExpenseStore{expenses: fixtureExpenses()},
		zap.NewNop(),
	)

	_, err := exporter.Export(context.Background(), "user-1", "")
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	workbook, err := exporter.Export(context.Background(), "mgr-1", "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportForeignOwnerRequiresManagement(t *testing.T) {
	exporter := NewExpenseExporter(
		&stubAuthz{managers: map[string]bool{}},
		&stubExpenseStore{expenses: fixtureExpenses()},
		zap.NewNop(),
	)

	_, err := exporter.Export(context.Background(), "user-1", "user-2")
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}
