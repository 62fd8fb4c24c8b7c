package model

import "time"

// Booking statuses.  A booking starts Pending, becomes Paid through the
// payment processor, and Cancelled through cancellation or payment
// removal.  Cancelled is terminal except for purging.
const (
	BookingPending   = "Pending"
	BookingPaid      = "Paid"
	BookingCancelled = "Cancelled"
)

// Booking is a user's request for a number of seats at a show.  The seats
// actually held are recorded on show_seats rows referencing the booking;
// SeatCount is the requested amount and equals the number of live
// assignments once assignment completes (for non-cancelled bookings).
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	Status    string    `json:"status"`     // bookings.status
	SeatCount uint32    `json:"seat_count"` // bookings.seat_count
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
	ShowID    uint64    `json:"show_id"`    // bookings.show_id
	UserEmail string    `json:"user_email"` // bookings.user_email
}
