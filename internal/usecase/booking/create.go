package booking

import (
	"context"
	"fmt"

	domain "github.com/workhive/workhive-api/internal/domain/booking"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/notification"
)

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	notifier notification.Notifier
}

func NewCreateBooking(
	repo domain.Repository,
	notifier notification.Notifier,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		notifier: notifier,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	customerID uint,
	serviceID uint,
) (*models.Booking, error) {

	if customerID == 0 {
		return nil, httperr.ErrAuthRequired("auth_required", "Sign in to book a service.")
	}

	svc, err := uc.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not load service.")
	}
	if svc == nil {
		return nil, httperr.ErrNotFound("service_not_found", "Service not found.")
	}

	if svc.ProviderID == customerID {
		return nil, httperr.ErrValidation("own_service", "You cannot book your own service.")
	}

	b := &models.Booking{
		ServiceID:  svc.ID,
		CustomerID: customerID,
		ProviderID: svc.ProviderID,
		Status:     string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not create booking.")
	}

	uc.notifier.Dispatch(notification.Event{
		UserID:           svc.ProviderID,
		Type:             "booking",
		Message:          fmt.Sprintf("New booking request for %q.", svc.Title),
		RelatedBookingID: &b.ID,
	})

	return b, nil
}
