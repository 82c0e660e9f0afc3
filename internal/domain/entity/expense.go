package entity

import "time"

// Category is the closed set of expense categories.
type Category string

const (
	CategoryMeals       Category = "meals"
	CategoryTravel      Category = "travel"
	CategoryLodging     Category = "lodging"
	CategorySupplies    Category = "supplies"
	CategoryConvenience Category = "convenience"
	CategoryOther       Category = "other"
)

var validCategories = map[Category]bool{
	CategoryMeals:       true,
	CategoryTravel:      true,
	CategoryLodging:     true,
	CategorySupplies:    true,
	CategoryConvenience: true,
	CategoryOther:       true,
}

// IsValid returns true if the category is a member of the closed set.
func (c Category) IsValid() bool {
	return validCategories[c]
}

// Expense is a reimbursement claim. Amount is carried in cents to keep
// currency comparisons exact. Date is a calendar day with no time
// component. Pictures holds the ordered blob paths attached to the
// claim.
type Expense struct {
	ID           string    `json:"id"`
	AssignedToID string    `json:"assigned_to_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Date         time.Time `json:"date"`
	AmountCents  int64     `json:"amount_cents"`
	Category     Category  `json:"category"`
	Pictures     []string  `json:"picture_urls"`
	Status       Status    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	UpdatedBy    string    `json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Amount returns the claim amount in currency units for display.
func (e *Expense) Amount() float64 {
	return float64(e.AmountCents) / 100.0
}

// Clone returns a deep copy, used for before/after event snapshots.
func (e *Expense) Clone() *Expense {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Pictures = append([]string(nil), e.Pictures...)
	return &cp
}
