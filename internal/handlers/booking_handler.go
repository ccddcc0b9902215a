package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/workhive/workhive-api/internal/domain/booking"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/httpresp"
	"github.com/workhive/workhive-api/internal/middleware"
	ucBooking "github.com/workhive/workhive-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC *ucBooking.CreateBooking
	updateUC *ucBooking.UpdateBookingStatus
	listUC   *ucBooking.ListBookings
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	updateUC *ucBooking.UpdateBookingStatus,
	listUC *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		updateUC: updateUC,
		listUC:   listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ======================================================
// CREATE (customer)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), userID, req.ServiceID)
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_create_booking", "Could not create booking.")
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.listUC.ForCustomer(c.Request.Context(), userID)
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) ListForProvider(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.listUC.ForProvider(c.Request.Context(), userID)
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// STATUS (provider)
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid status data.")
		return
	}

	b, err := h.updateUC.Execute(
		c.Request.Context(),
		userID,
		uint(bookingID),
		domain.Status(req.Status),
		req.Reason,
	)
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_update_booking", "Could not update booking.")
		return
	}

	c.JSON(http.StatusOK, b)
}
