package entity

import (
	"strings"
	"time"
)

// Account is the identity record owned by the user directory.
type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Disabled      bool      `json:"disabled"`
	DisplayName   string    `json:"display_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile holds the per-user profile document. Its ID equals the
// account ID and its email is a denormalized copy unique across
// profiles.
type Profile struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	ChosenName string    `json:"chosen_name,omitempty"`
	Email      string    `json:"email"`
	Language   string    `json:"language"`
	PictureID  string    `json:"picture_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName derives the directory display name: the chosen name when
// set, otherwise "First Last".
func (p *Profile) DisplayName() string {
	if p.ChosenName != "" {
		return p.ChosenName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// RoleSet is the four-capability boolean record for one user. Admin is
// a super-role: it passes every capability check but is not an
// enumerable member of the other three. Absence of a RoleSet document
// is distinct from an all-false RoleSet.
type RoleSet struct {
	UserID             string    `json:"user_id"`
	Admin              bool      `json:"admin"`
	ExpenseManagement  bool      `json:"expense_management"`
	ResourceManagement bool      `json:"resource_management"`
	UserManagement     bool      `json:"user_management"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AnyGranted reports whether any capability flag is set.
func (r *RoleSet) AnyGranted() bool {
	return r.Admin || r.ExpenseManagement || r.ResourceManagement || r.UserManagement
}

// AccountDetail joins an account with its optional profile and role
// set for the directory listing projection. Profile and Roles are nil
// when the corresponding document does not exist.
type AccountDetail struct {
	Account *Account `json:"account"`
	Profile *Profile `json:"profile,omitempty"`
	Roles   *RoleSet `json:"roles,omitempty"`
}
