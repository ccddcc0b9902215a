package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/workhive/workhive-api/internal/domain/booking"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/logger"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/notification"
)

// ======================================================
// USE CASE
// ======================================================

type UpdateBookingStatus struct {
	repo     domain.Repository
	notifier notification.Notifier
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	notifier notification.Notifier,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:     repo,
		notifier: notifier,
	}
}

// Execute moves a booking along its one-directional lifecycle. Only the
// booking's provider may act on it; completed and rejected bookings
// never change again.
func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	providerID uint,
	bookingID uint,
	newStatus domain.Status,
	reason string,
) (*models.Booking, error) {

	if providerID == 0 {
		return nil, httperr.ErrAuthRequired("auth_required", "Sign in to manage bookings.")
	}

	b, err := uc.repo.GetBookingForProvider(ctx, bookingID, providerID)
	if err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not load booking.")
	}
	if b == nil {
		return nil, httperr.ErrNotFound("booking_not_found", "Booking not found.")
	}

	if err := domain.Transition(b, newStatus, reason, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not update booking.")
	}

	title := "a service"
	svc, err := uc.repo.GetService(ctx, b.ServiceID)
	if err != nil {
		logger.Warn("service lookup for notification failed",
			zap.Uint("service_id", b.ServiceID),
			zap.Error(err),
		)
	}
	if svc != nil {
		title = fmt.Sprintf("%q", svc.Title)
	}

	var message string
	switch newStatus {
	case domain.StatusInProgress:
		message = fmt.Sprintf("Your booking for %s is now in progress.", title)
	case domain.StatusCompleted:
		message = fmt.Sprintf("Your booking for %s has been completed.", title)
	case domain.StatusRejected:
		message = fmt.Sprintf("Your booking for %s was rejected: %s", title, b.RejectionReason)
	}

	if message != "" {
		uc.notifier.Dispatch(notification.Event{
			UserID:           b.CustomerID,
			Type:             "status_update",
			Message:          message,
			RelatedBookingID: &b.ID,
		})
	}

	return b, nil
}
