package entity

// Status represents an expense's position in the approval lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusArchived Status = "archived"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
	StatusArchived: true,
}

// IsValid returns true if the status is a valid lifecycle state.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransition reports whether the status may move to target. No
// state is terminal (archived re-opens to pending), but a no-op
// transition to the current status is never permitted.
func (s Status) CanTransition(target Status) bool {
	return s.IsValid() && target.IsValid() && s != target
}
