package model

// Seat is a physical seat inside a theater, shared by every show played
// there.  Tier is an explicit attribute so seat-exchange rules can compare
// tiers directly instead of re-deriving them from price equality.
//
// Fields:
//
//	ID         – primary key identifier.
//	TheaterID  – owning theater.
//	SeatNumber – human-facing label, unique within the theater.
//	Tier       – price tier (STANDARD, PREMIUM, ...).
type Seat struct {
	ID         uint64 `json:"id"`          // cinema_seats.id
	TheaterID  uint64 `json:"theater_id"`  // cinema_seats.theater_id
	SeatNumber string `json:"seat_number"` // cinema_seats.seat_number
	Tier       string `json:"tier"`        // cinema_seats.tier
}

// ShowSeat binds one seat to one show and carries the assignment state.
// BookingID is nil exactly when the seat is free for that show; at most
// one booking may hold the row at any time.
type ShowSeat struct {
	ID         uint64  `json:"id"`          // show_seats.id
	ShowID     uint64  `json:"show_id"`     // show_seats.show_id
	SeatID     uint64  `json:"seat_id"`     // show_seats.seat_id
	BookingID  *uint64 `json:"booking_id"`  // show_seats.booking_id (nullable)
	PriceCents uint32  `json:"price_cents"` // show_seats.price_cents
}
