package booking

import (
	"context"
	"database/sql"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// Manager creates, cancels and modifies bookings.  It owns the booking
// lifecycle: Pending -> Paid happens in the payment processor, every other
// transition happens here or in the sweeper.  Each operation is a single
// transaction; on any failure the whole operation rolls back, so a booking
// row never exists with its seats half-assigned.
type Manager struct {
	db     *sql.DB
	inv    *Inventory
	ledger *Ledger
}

// NewManager returns a lifecycle manager bound to the given store handle.
func NewManager(db *sql.DB, inv *Inventory, ledger *Ledger) *Manager {
	return &Manager{db: db, inv: inv, ledger: ledger}
}

// CreateBookingRequest carries the input of CreateBooking.  SeatNumbers
// are the human-facing seat labels the user selected; the requested seat
// count is their number.
type CreateBookingRequest struct {
	UserEmail   string
	ShowID      uint64
	SeatNumbers []string
}

// CreateBookingResult is returned on success.
type CreateBookingResult struct {
	BookingID  uint64 `json:"booking_id"`
	TotalCents uint32 `json:"total_cents"`
	SeatCount  uint32 `json:"seat_count"`
}

// CreateBooking allocates a new Pending booking and atomically assigns the
// selected seats.  Validation order follows the contract: the user must
// exist (ErrInvalidUser), the show must exist (ErrInvalidShowID), at least
// one seat must be requested and the show must have capacity for all of
// them (ErrInsufficientCapacity), and every selected seat must belong to
// the show's theater and still be free at commit time
// (ErrSeatUnavailable).  All checks and the assignment happen under the
// show's row lock, so two concurrent requests can never both claim the
// same seat or jointly exceed capacity.
func (m *Manager) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if len(req.SeatNumbers) == 0 {
		return nil, ErrInsufficientCapacity
	}
	seatNumbers := dedupe(req.SeatNumbers)
	if len(seatNumbers) != len(req.SeatNumbers) {
		// The same seat twice can never be satisfied.
		return nil, ErrSeatUnavailable
	}

	var result CreateBookingResult
	err := withTx(ctx, m.db, func(tx *sql.Tx) error {
		if err := userExistsTx(ctx, tx, req.UserEmail); err != nil {
			return err
		}
		_, totalSeats, err := lockShowTx(ctx, tx, req.ShowID)
		if err != nil {
			return err
		}
		ok, err := m.ledger.CanAccommodateTx(ctx, tx, req.ShowID, totalSeats, len(seatNumbers))
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientCapacity
		}
		// Resolve every seat number before inserting anything, so pure
		// validation failures leave no side effects behind.
		seatIDs := make([]uint64, 0, len(seatNumbers))
		var total uint32
		for _, sn := range seatNumbers {
			seatID, price, _, holder, err := m.inv.resolveSeatTx(ctx, tx, req.ShowID, sn)
			if err != nil {
				return err
			}
			if holder != nil {
				return ErrSeatUnavailable
			}
			seatIDs = append(seatIDs, seatID)
			total += price
		}
		const ins = `INSERT INTO bookings (status, seat_count, show_id, user_email) VALUES (?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, ins, model.BookingPending, len(seatIDs), req.ShowID, req.UserEmail)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		bookingID := uint64(id)
		for _, seatID := range seatIDs {
			// Compare-and-set claim; a lost race rolls the whole
			// transaction back, booking row included.
			if err := m.inv.AssignTx(ctx, tx, req.ShowID, seatID, bookingID); err != nil {
				return err
			}
		}
		result = CreateBookingResult{
			BookingID:  bookingID,
			TotalCents: total,
			SeatCount:  uint32(len(seatIDs)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelBooking releases every live assignment held by the booking and
// sets its status to Cancelled, regardless of prior status.  Cancelling an
// already-cancelled booking is a no-op success.  Returns
// ErrInvalidBookingID when no such booking exists.
func (m *Manager) CancelBooking(ctx context.Context, bookingID uint64) error {
	return withTx(ctx, m.db, func(tx *sql.Tx) error {
		b, err := getBookingForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == model.BookingCancelled {
			return nil
		}
		if _, err := m.inv.ReleaseAllTx(ctx, tx, bookingID); err != nil {
			return err
		}
		return setBookingStatusTx(ctx, tx, bookingID, model.BookingCancelled)
	})
}

// ChangeSeats exchanges one seat of a booking for another seat of the same
// show.  The new seat must be in the same price tier as the seat being
// given up (ErrPriceTierMismatch) and must currently be free
// (ErrSeatUnavailable).  The booking keeps its status and the price
// charged; only the assignment moves.  Cancelled bookings cannot exchange
// seats (ErrInvalidBookingState).
func (m *Manager) ChangeSeats(ctx context.Context, bookingID uint64, oldSeatNumber, newSeatNumber string) error {
	return withTx(ctx, m.db, func(tx *sql.Tx) error {
		b, err := getBookingForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == model.BookingCancelled {
			return ErrInvalidBookingState
		}
		if _, _, err := lockShowTx(ctx, tx, b.ShowID); err != nil {
			return err
		}
		oldSeatID, _, oldTier, oldHolder, err := m.inv.resolveSeatTx(ctx, tx, b.ShowID, oldSeatNumber)
		if err != nil {
			return err
		}
		if oldHolder == nil || *oldHolder != bookingID {
			return ErrSeatNotAssigned
		}
		newSeatID, _, newTier, newHolder, err := m.inv.resolveSeatTx(ctx, tx, b.ShowID, newSeatNumber)
		if err != nil {
			return err
		}
		if newTier != oldTier {
			return ErrPriceTierMismatch
		}
		if newHolder != nil {
			return ErrSeatUnavailable
		}
		if err := m.inv.AssignTx(ctx, tx, b.ShowID, newSeatID, bookingID); err != nil {
			return err
		}
		return m.inv.ReleaseTx(ctx, tx, b.ShowID, oldSeatID)
	})
}

// AvailableSeats lists the free seats of a show.  Read-only helper for
// the booking surface; it takes no lock.
func (m *Manager) AvailableSeats(ctx context.Context, showID uint64) ([]model.Seat, error) {
	if err := showExists(ctx, m.db, showID); err != nil {
		return nil, err
	}
	return m.inv.AvailableSeatsTx(ctx, m.db, showID)
}

// getBookingForUpdateTx loads a booking and locks its row for the rest of
// the transaction.  Returns ErrInvalidBookingID when no row matches.
func getBookingForUpdateTx(ctx context.Context, tx dbtx, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT id, status, seat_count, created_at, show_id, user_email
               FROM bookings WHERE id = ? FOR UPDATE`
	var b model.Booking
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.Status, &b.SeatCount, &b.CreatedAt, &b.ShowID, &b.UserEmail,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidBookingID
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func setBookingStatusTx(ctx context.Context, tx dbtx, bookingID uint64, status string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, bookingID)
	return err
}

func userExistsTx(ctx context.Context, tx dbtx, email string) error {
	const q = `SELECT 1 FROM users WHERE email = ?`
	var one int
	err := tx.QueryRowContext(ctx, q, email).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrInvalidUser
	}
	return err
}

func showExists(ctx context.Context, db dbtx, showID uint64) error {
	const q = `SELECT 1 FROM shows WHERE id = ?`
	var one int
	err := db.QueryRowContext(ctx, q, showID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrInvalidShowID
	}
	return err
}

// dedupe preserves order while dropping repeated seat numbers.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
