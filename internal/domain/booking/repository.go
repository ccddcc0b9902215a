package booking

import (
	"context"

	"github.com/workhive/workhive-api/internal/models"
)

type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingForProvider(
		ctx context.Context,
		bookingID uint,
		providerID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.Booking, error)

	ListBookingsForProvider(
		ctx context.Context,
		providerID uint,
	) ([]models.Booking, error)
}
