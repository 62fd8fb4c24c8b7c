package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jperalta/cinema-ticketing/internal/booking"
	"github.com/jperalta/cinema-ticketing/internal/queue"
	queuepublisher "github.com/jperalta/cinema-ticketing/internal/service"
)

// BookingHandler serves the booking lifecycle: creation, cancellation,
// seat exchange and the payment transitions.  It translates the engine's
// sentinel errors into HTTP responses and publishes a lifecycle event
// after each successful state change.
type BookingHandler struct {
	db        *sql.DB
	manager   *booking.Manager
	processor *booking.Processor
	ledger    *booking.Ledger

	// publish is swappable in tests; the default sends to RabbitMQ.
	publish func(ctx context.Context, ev queue.BookingEvent) error
}

// NewBookingHandler wires the engine components into the HTTP surface.
func NewBookingHandler(db *sql.DB, m *booking.Manager, p *booking.Processor, l *booking.Ledger) *BookingHandler {
	return &BookingHandler{
		db:        db,
		manager:   m,
		processor: p,
		ledger:    l,
		publish:   queuepublisher.PublishBookingEvent,
	}
}

type createBookingRequest struct {
	UserEmail   string   `json:"user_email"`
	ShowID      uint64   `json:"show_id"`
	SeatNumbers []string `json:"seat_numbers"`
}

// Create books the selected seats for a user as one atomic operation.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.UserEmail == "" || req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_email and show_id are required"})
	}
	res, err := h.manager.CreateBooking(c.Request().Context(), booking.CreateBookingRequest{
		UserEmail:   req.UserEmail,
		ShowID:      req.ShowID,
		SeatNumbers: req.SeatNumbers,
	})
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	h.emit(queue.BookingEvent{
		Kind:       queue.EventBookingCreated,
		BookingID:  res.BookingID,
		ShowID:     req.ShowID,
		UserEmail:  req.UserEmail,
		SeatCount:  res.SeatCount,
		TotalCents: res.TotalCents,
	})
	return c.JSON(http.StatusCreated, res)
}

// Cancel releases the booking's seats and marks it Cancelled.  Cancelling
// twice is a no-op success.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := bookingIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.manager.CancelBooking(c.Request().Context(), id); err != nil {
		return bookingErrorResponse(c, err)
	}
	h.emit(queue.BookingEvent{Kind: queue.EventBookingCancelled, BookingID: id})
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": "Cancelled"})
}

type changeSeatsRequest struct {
	OldSeatNumber string `json:"old_seat_number"`
	NewSeatNumber string `json:"new_seat_number"`
}

// ChangeSeats exchanges one held seat for a free seat of the same tier.
func (h *BookingHandler) ChangeSeats(c echo.Context) error {
	id, err := bookingIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req changeSeatsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.OldSeatNumber == "" || req.NewSeatNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_seat_number and new_seat_number are required"})
	}
	if err := h.manager.ChangeSeats(c.Request().Context(), id, req.OldSeatNumber, req.NewSeatNumber); err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": id,
		"old_seat":   req.OldSeatNumber,
		"new_seat":   req.NewSeatNumber,
	})
}

type recordPaymentRequest struct {
	Method      string `json:"method"`
	AmountCents uint32 `json:"amount_cents"`
}

// Pay records a payment against a Pending booking and marks it Paid.
func (h *BookingHandler) Pay(c echo.Context) error {
	id, err := bookingIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Method == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method is required"})
	}
	res, err := h.processor.RecordPayment(c.Request().Context(), id, req.Method, req.AmountCents)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	h.emit(queue.BookingEvent{
		Kind:          queue.EventBookingPaid,
		BookingID:     id,
		TotalCents:    req.AmountCents,
		TransactionID: res.TransactionID,
	})
	return c.JSON(http.StatusCreated, res)
}

// Refund removes the payment, frees the seats and cancels the booking.
func (h *BookingHandler) Refund(c echo.Context) error {
	id, err := bookingIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.processor.RemovePayment(c.Request().Context(), id); err != nil {
		return bookingErrorResponse(c, err)
	}
	h.emit(queue.BookingEvent{Kind: queue.EventBookingCancelled, BookingID: id})
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": "Cancelled"})
}

// AvailableSeats lists the free seats of a show.
func (h *BookingHandler) AvailableSeats(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	seats, err := h.manager.AvailableSeats(c.Request().Context(), showID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "seats": seats})
}

// Capacity reports the remaining seat capacity of a show.
func (h *BookingHandler) Capacity(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	remaining, err := h.ledger.RemainingCapacity(c.Request().Context(), h.db, showID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "remaining": remaining})
}

// emit publishes a lifecycle event without blocking the response.  The
// booking is already committed; a broker outage only costs the event.
func (h *BookingHandler) emit(ev queue.BookingEvent) {
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.publish(ctx, ev)
	}()
}

func bookingIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid booking id")
	}
	return id, nil
}

// bookingErrorResponse maps engine sentinels to HTTP status codes.
// Transaction conflicts come back as 409 with a retryable flag so clients
// know the request may simply be resent.
func bookingErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidUser):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, booking.ErrInvalidShowID):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case errors.Is(err, booking.ErrInvalidBookingID):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrInsufficientCapacity):
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient capacity"})
	case errors.Is(err, booking.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
	case errors.Is(err, booking.ErrSeatNotAssigned):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat not assigned to booking"})
	case errors.Is(err, booking.ErrPriceTierMismatch):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats are in different price tiers"})
	case errors.Is(err, booking.ErrInvalidBookingState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is in the wrong state for this operation"})
	case booking.Retryable(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": "transaction conflict", "retryable": true})
	case errors.Is(err, booking.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
