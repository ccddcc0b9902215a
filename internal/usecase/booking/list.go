package booking

import (
	"context"

	domain "github.com/workhive/workhive-api/internal/domain/booking"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Booking, error) {

	bookings, err := uc.repo.ListBookingsForCustomer(ctx, customerID)
	if err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not list bookings.")
	}
	return bookings, nil
}

func (uc *ListBookings) ForProvider(
	ctx context.Context,
	providerID uint,
) ([]models.Booking, error) {

	bookings, err := uc.repo.ListBookingsForProvider(ctx, providerID)
	if err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not list bookings.")
	}
	return bookings, nil
}
