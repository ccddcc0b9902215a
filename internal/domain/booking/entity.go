package booking

import (
	"strings"
	"time"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition applies a status change to a booking. Rejection carries a
// mandatory reason; completion stamps the completion time.
func Transition(b *models.Booking, to Status, reason string, now time.Time) error {
	if !IsValid(to) {
		return httperr.ErrValidation("invalid_status", "Unknown booking status.")
	}

	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusRejected:
		if strings.TrimSpace(reason) == "" {
			return httperr.ErrValidation("missing_rejection_reason", "Rejection reason is required.")
		}
		b.RejectionReason = strings.TrimSpace(reason)
	case StatusCompleted:
		b.CompletedAt = &now
	}

	b.Status = string(to)
	return nil
}
