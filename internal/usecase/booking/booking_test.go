package booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/workhive/workhive-api/internal/domain/booking"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/notification"
	ucBooking "github.com/workhive/workhive-api/internal/usecase/booking"
)

// --------------------------------------------------
// Fakes
// --------------------------------------------------

type fakeRepo struct {
	services map[uint]*models.Service
	bookings map[uint]*models.Booking
	nextID   uint
	fail     bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[uint]*models.Service{},
		bookings: map[uint]*models.Booking{},
		nextID:   1,
	}
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if r.fail {
		return nil, errors.New("db down")
	}
	return r.services[id], nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	if r.fail {
		return errors.New("db down")
	}
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBookingForProvider(_ context.Context, id, providerID uint) (*models.Booking, error) {
	if r.fail {
		return nil, errors.New("db down")
	}
	b := r.bookings[id]
	if b == nil || b.ProviderID != providerID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	if r.fail {
		return errors.New("db down")
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) ListBookingsForCustomer(_ context.Context, customerID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBookingsForProvider(_ context.Context, providerID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	events []notification.Event
}

func (n *fakeNotifier) Dispatch(ev notification.Event) {
	n.events = append(n.events, ev)
}

// --------------------------------------------------
// CreateBooking
// --------------------------------------------------

func TestCreateBooking(t *testing.T) {
	repo := newFakeRepo()
	repo.services[10] = &models.Service{ID: 10, ProviderID: 2, Title: "House cleaning"}

	notifier := &fakeNotifier{}
	uc := ucBooking.NewCreateBooking(repo, notifier)

	b, err := uc.Execute(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, uint(10), b.ServiceID)
	assert.Equal(t, uint(1), b.CustomerID)
	assert.Equal(t, uint(2), b.ProviderID)
	assert.Equal(t, "pending", b.Status)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, uint(2), notifier.events[0].UserID)
	assert.Equal(t, "booking", notifier.events[0].Type)
}

func TestCreateBooking_Errors(t *testing.T) {
	repo := newFakeRepo()
	repo.services[10] = &models.Service{ID: 10, ProviderID: 2, Title: "House cleaning"}
	uc := ucBooking.NewCreateBooking(repo, &fakeNotifier{})

	tests := []struct {
		name       string
		customerID uint
		serviceID  uint
		code       string
	}{
		{name: "anonymous", customerID: 0, serviceID: 10, code: "auth_required"},
		{name: "unknown service", customerID: 1, serviceID: 99, code: "service_not_found"},
		{name: "own service", customerID: 2, serviceID: 10, code: "own_service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.customerID, tt.serviceID)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

// --------------------------------------------------
// UpdateBookingStatus
// --------------------------------------------------

func seedBooking(repo *fakeRepo, status string) *models.Booking {
	repo.services[10] = &models.Service{ID: 10, ProviderID: 2, Title: "House cleaning"}
	b := &models.Booking{ServiceID: 10, CustomerID: 1, ProviderID: 2, Status: status}
	_ = repo.CreateBooking(context.Background(), b)
	return b
}

func TestUpdateBookingStatus_Accept(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo, "pending")
	notifier := &fakeNotifier{}
	uc := ucBooking.NewUpdateBookingStatus(repo, notifier)

	updated, err := uc.Execute(context.Background(), 2, b.ID, domain.StatusInProgress, "")
	require.NoError(t, err)
	assert.Equal(t, "in progress", updated.Status)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, uint(1), notifier.events[0].UserID)
	assert.Equal(t, "status_update", notifier.events[0].Type)
}

func TestUpdateBookingStatus_RejectNeedsReason(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo, "pending")
	uc := ucBooking.NewUpdateBookingStatus(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), 2, b.ID, domain.StatusRejected, "")
	assert.True(t, httperr.IsBusiness(err, "missing_rejection_reason"))

	updated, err := uc.Execute(context.Background(), 2, b.ID, domain.StatusRejected, "fully booked")
	require.NoError(t, err)
	assert.Equal(t, "rejected", updated.Status)
	assert.Equal(t, "fully booked", updated.RejectionReason)
}

func TestUpdateBookingStatus_TerminalStatesAreImmutable(t *testing.T) {
	for _, terminal := range []string{"completed", "rejected"} {
		repo := newFakeRepo()
		b := seedBooking(repo, terminal)
		uc := ucBooking.NewUpdateBookingStatus(repo, &fakeNotifier{})

		_, err := uc.Execute(context.Background(), 2, b.ID, domain.StatusInProgress, "")
		assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"),
			"status %q should be terminal, got %v", terminal, err)
	}
}

func TestUpdateBookingStatus_WrongProvider(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo, "pending")
	uc := ucBooking.NewUpdateBookingStatus(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), 7, b.ID, domain.StatusInProgress, "")
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

func TestCreateBooking_StoreFailureIsTransient(t *testing.T) {
	repo := newFakeRepo()
	repo.fail = true
	uc := ucBooking.NewCreateBooking(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), 1, 10)
	assert.True(t, httperr.IsKind(err, httperr.KindTransient))
}
