package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/dispatcher"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
	"github.com/mkowalsky/expensegate/internal/domain/event"
)

// editFreezeAge is how far back an expense's date may lie before the
// record is frozen against edits.
const editFreezeAge = time.Hour * 24 * 365

// CreateExpenseInput carries the fields for expense creation.
type CreateExpenseInput struct {
	AssignedToID string
	Title        string
	Description  string
	Date         time.Time
	AmountCents  int64
	Category     entity.Category
	Pictures     []string
}

// UpdateExpenseInput carries the optional expense mutations. Status is
// excluded; it has its own transition path.
type UpdateExpenseInput struct {
	AssignedToID *string
	Title        *string
	Description  *string
	Date         *time.Time
	AmountCents  *int64
	Category     *entity.Category
	Pictures     *[]string
}

// ExpenseService drives the expense lifecycle: creation, field
// updates, status transitions and deletion. After every successful
// store write it dispatches a lifecycle event carrying before/after
// snapshots so the file reconciler can keep blobs in step.
type ExpenseService interface {
	Create(ctx context.Context, requesterID string, input CreateExpenseInput) (*entity.Expense, error)
	Get(ctx context.Context, requesterID, id string) (*entity.Expense, error)
	List(ctx context.Context, requesterID, ownerID string, limit int) ([]*entity.Expense, error)
	Update(ctx context.Context, requesterID, id string, input UpdateExpenseInput) (*entity.Expense, error)
	UpdateStatus(ctx context.Context, requesterID, id string, status entity.Status) (*entity.Expense, error)
	Delete(ctx context.Context, requesterID, id string) error
	DeleteAll(ctx context.Context, requesterID, ownerID string) error
}

type expenseServiceImpl struct {
	store      port.ExpenseStore
	authz      AuthorizationEngine
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	store port.ExpenseStore,
	authz AuthorizationEngine,
	txManager port.TransactionManager,
	disp dispatcher.Dispatcher,
	logger Logger,
) ExpenseService {
	return &expenseServiceImpl{
		store:      store,
		authz:      authz,
		txManager:  txManager,
		dispatcher: disp,
		logger:     logger,
	}
}

// Create persists a new expense with status pending. Creating on
// behalf of another user requires expenseManagement.
func (s *expenseServiceImpl) Create(ctx context.Context, requesterID string, input CreateExpenseInput) (*entity.Expense, error) {
	if input.AssignedToID == "" {
		return nil, apperr.InvalidArgument("expense/assigned-to-required")
	}
	if input.Title == "" {
		return nil, apperr.InvalidArgument("expense/title-required")
	}
	if input.AmountCents <= 0 {
		return nil, apperr.InvalidArgument("expense/amount-not-positive")
	}
	if input.Date.After(time.Now()) {
		return nil, apperr.InvalidArgument("expense/date-in-future")
	}
	if !input.Category.IsValid() {
		return nil, apperr.InvalidArgument("expense/unknown-category")
	}

	if requesterID != input.AssignedToID {
		if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	expense := &entity.Expense{
		ID:           uuid.NewString(),
		AssignedToID: input.AssignedToID,
		Title:        input.Title,
		Description:  input.Description,
		Date:         input.Date,
		AmountCents:  input.AmountCents,
		Category:     input.Category,
		Pictures:     append([]string(nil), input.Pictures...),
		Status:       entity.StatusPending,
		CreatedBy:    requesterID,
		UpdatedBy:    requesterID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, expense); err != nil {
		s.logger.Error("Failed to create expense", "error", err, "assigned_to", input.AssignedToID)
		return nil, apperr.Internal("expense/create-failed", err)
	}

	s.dispatch(ctx, event.NewCreated(expense))

	s.logger.Info("Expense created", "id", expense.ID, "assigned_to", expense.AssignedToID, "requester_id", requesterID)
	return expense, nil
}

// Get returns a single expense, readable by its owner or an
// expenseManagement requester.
func (s *expenseServiceImpl) Get(ctx context.Context, requesterID, id string) (*entity.Expense, error) {
	expense, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if requesterID != expense.AssignedToID {
		if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	return expense, nil
}

// List returns expenses for one owner, or across all owners when
// ownerID is empty. Reading anything but one's own expenses requires
// expenseManagement.
func (s *expenseServiceImpl) List(ctx context.Context, requesterID, ownerID string, limit int) ([]*entity.Expense, error) {
	if ownerID == "" {
		if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return nil, err
		}
		expenses, err := s.store.List(ctx, limit)
		if err != nil {
			s.logger.Error("Failed to list expenses", "error", err)
			return nil, apperr.Internal("expense/list-failed", err)
		}
		return expenses, nil
	}

	if requesterID != ownerID {
		if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	expenses, err := s.store.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		s.logger.Error("Failed to list expenses by owner", "error", err, "owner_id", ownerID)
		return nil, apperr.Internal("expense/list-failed", err)
	}
	return expenses, nil
}

// Update applies field-level updates. Expenses dated more than a year
// back are frozen against edits regardless of the requester's role.
func (s *expenseServiceImpl) Update(ctx context.Context, requesterID, id string, input UpdateExpenseInput) (*entity.Expense, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Date.Before(time.Now().Add(-editFreezeAge)) {
		return nil, apperr.InvalidArgument("expense/too-old-to-edit")
	}

	owner := existing.AssignedToID
	if input.AssignedToID != nil {
		owner = *input.AssignedToID
	}
	if requesterID != owner {
		if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	if input.AmountCents != nil && *input.AmountCents <= 0 {
		return nil, apperr.InvalidArgument("expense/amount-not-positive")
	}
	if input.Date != nil && input.Date.After(time.Now()) {
		return nil, apperr.InvalidArgument("expense/date-in-future")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, apperr.InvalidArgument("expense/unknown-category")
	}

	before := existing.Clone()

	if input.AssignedToID != nil {
		existing.AssignedToID = *input.AssignedToID
	}
	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Date != nil {
		existing.Date = *input.Date
	}
	if input.AmountCents != nil {
		existing.AmountCents = *input.AmountCents
	}
	if input.Category != nil {
		existing.Category = *input.Category
	}
	if input.Pictures != nil {
		existing.Pictures = append([]string(nil), (*input.Pictures)...)
	}
	existing.UpdatedBy = requesterID
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to update expense", "error", err, "id", id)
		return nil, apperr.Internal("expense/update-failed", err)
	}

	s.dispatch(ctx, event.NewUpdated(before, existing))

	s.logger.Info("Expense updated", "id", id, "requester_id", requesterID)
	return existing, nil
}

// UpdateStatus transitions the expense status. Only expenseManagement
// may change status, even for a self-assigned expense, and the target
// must differ from the current status.
func (s *expenseServiceImpl) UpdateStatus(ctx context.Context, requesterID, id string, status entity.Status) (*entity.Expense, error) {
	if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
		return nil, err
	}

	expense, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !status.IsValid() {
		return nil, apperr.InvalidArgument("expense/unknown-status")
	}
	if !expense.Status.CanTransition(status) {
		return nil, apperr.InvalidArgument("expense/status-unchanged")
	}

	expense.Status = status
	expense.UpdatedBy = requesterID
	expense.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, expense); err != nil {
		s.logger.Error("Failed to update expense status", "error", err, "id", id, "status", status)
		return nil, apperr.Internal("expense/update-failed", err)
	}

	s.logger.Info("Expense status updated", "id", id, "status", status, "requester_id", requesterID)
	return expense, nil
}

// Delete removes an expense. Deletion cascades to the referenced
// blobs via the deleted lifecycle event.
func (s *expenseServiceImpl) Delete(ctx context.Context, requesterID, id string) error {
	expense, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if requesterID != expense.AssignedToID {
		if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete expense", "error", err, "id", id)
		return apperr.Internal("expense/delete-failed", err)
	}

	s.dispatch(ctx, event.NewDeleted(expense))

	s.logger.Info("Expense deleted", "id", id, "requester_id", requesterID)
	return nil
}

// DeleteAll removes every expense owned by ownerID. The bulk
// operation is never self-serve: it always requires expenseManagement.
func (s *expenseServiceImpl) DeleteAll(ctx context.Context, requesterID, ownerID string) error {
	if err := s.authz.RequireExpenseManagement(ctx, requesterID); err != nil {
		return err
	}

	if ownerID == "" {
		return apperr.NotFound("expense/owner-not-found")
	}

	expenses, err := s.store.ListByOwner(ctx, ownerID, 0)
	if err != nil {
		s.logger.Error("Failed to list expenses for bulk delete", "error", err, "owner_id", ownerID)
		return apperr.Internal("expense/list-failed", err)
	}

	// All rows go in one transaction; events fire only after commit.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, expense := range expenses {
			if err := s.store.Delete(txCtx, expense.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete expenses in bulk", "error", err, "owner_id", ownerID)
		return apperr.Internal("expense/delete-failed", err)
	}

	for _, expense := range expenses {
		s.dispatch(ctx, event.NewDeleted(expense))
	}

	s.logger.Info("Expenses bulk-deleted", "owner_id", ownerID, "count", len(expenses), "requester_id", requesterID)
	return nil
}

// load fetches an expense, translating a missing row to not_found.
func (s *expenseServiceImpl) load(ctx context.Context, id string) (*entity.Expense, error) {
	expense, err := s.store.Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get expense", "error", err, "id", id)
		return nil, apperr.Internal("expense/lookup-failed", err)
	}
	if expense == nil {
		return nil, apperr.NotFound("expense/not-found")
	}
	return expense, nil
}

// dispatch publishes a lifecycle event. Observer failures never fail
// the triggering mutation.
func (s *expenseServiceImpl) dispatch(ctx context.Context, evt *event.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Lifecycle event dispatch failed", "error", err, "event_type", evt.Type, "expense_id", evt.ExpenseID)
	}
}
