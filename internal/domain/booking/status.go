package booking

import "github.com/workhive/workhive-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
)

func IsValid(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// ===============================
// Transitions
// ===============================

// CanTransition enforces the one-directional lifecycle:
// pending -> in progress | rejected, in progress -> completed.
// Rejected and completed are terminal.
func CanTransition(from, to Status) error {
	switch from {
	case StatusPending:
		if to == StatusInProgress || to == StatusRejected {
			return nil
		}
	case StatusInProgress:
		if to == StatusCompleted {
			return nil
		}
	}
	return httperr.ErrValidation("invalid_status_transition", "Booking cannot move to that status.")
}

func InitialStatus() Status {
	return StatusPending
}
