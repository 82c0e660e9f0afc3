package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// Type identifies an expense lifecycle event.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// Event carries before/after snapshots of an expense across a
// lifecycle mutation. Before is nil on creation, After is nil on
// deletion.
type Event struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	ExpenseID string          `json:"expense_id"`
	Before    *entity.Expense `json:"before,omitempty"`
	After     *entity.Expense `json:"after,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewCreated builds an event for a freshly persisted expense.
func NewCreated(after *entity.Expense) *Event {
	return &Event{
		ID:        generateID(),
		Type:      ExpenseCreated,
		ExpenseID: after.ID,
		After:     after.Clone(),
		Timestamp: time.Now(),
	}
}

// NewUpdated builds an event with the pre- and post-write snapshots.
func NewUpdated(before, after *entity.Expense) *Event {
	return &Event{
		ID:        generateID(),
		Type:      ExpenseUpdated,
		ExpenseID: after.ID,
		Before:    before.Clone(),
		After:     after.Clone(),
		Timestamp: time.Now(),
	}
}

// NewDeleted builds an event for a removed expense.
func NewDeleted(before *entity.Expense) *Event {
	return &Event{
		ID:        generateID(),
		Type:      ExpenseDeleted,
		ExpenseID: before.ID,
		Before:    before.Clone(),
		Timestamp: time.Now(),
	}
}

// generateID creates a unique ID using timestamp and random bytes
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
