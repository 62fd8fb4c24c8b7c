// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published on the booking.events queue.
const (
	EventBookingCreated   = "booking.created"
	EventBookingPaid      = "booking.paid"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking-lifecycle transition commits.
// It contains enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type BookingEvent struct {
	Kind          string `json:"kind"`
	BookingID     uint64 `json:"booking_id"`
	ShowID        uint64 `json:"show_id,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
	SeatCount     uint32 `json:"seat_count,omitempty"`
	TotalCents    uint32 `json:"total_cents,omitempty"`
	TransactionID uint64 `json:"transaction_id,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
