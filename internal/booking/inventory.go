package booking

import (
	"context"
	"database/sql"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// Inventory provides per-show seat assignment state.  All mutating
// methods are transaction-scoped: the caller owns the transaction and the
// show-level lock, the inventory only touches individual (show, seat)
// rows.  Assignment is a compare-and-set — a claim succeeds only if the
// seat is observed free at the moment of the UPDATE, never at an earlier
// read.
type Inventory struct{}

// NewInventory returns a seat inventory.  It is stateless; a single value
// can be shared by every engine component.
func NewInventory() *Inventory { return &Inventory{} }

// AvailableSeatsTx returns the seats of the given show with no live
// assignment, ordered by seat number for deterministic output.
func (inv *Inventory) AvailableSeatsTx(ctx context.Context, tx dbtx, showID uint64) ([]model.Seat, error) {
	const q = `SELECT cs.id, cs.theater_id, cs.seat_number, cs.tier
               FROM show_seats ss
               JOIN cinema_seats cs ON cs.id = ss.seat_id
               WHERE ss.show_id = ? AND ss.booking_id IS NULL
               ORDER BY cs.seat_number`
	rows, err := tx.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.Tier); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// AssignTx atomically claims one seat of a show for a booking.  The WHERE
// clause requires booking_id IS NULL, so the claim fails (zero rows
// affected) when another booking already holds the seat — even one that
// claimed it after our earlier availability read.  Returns
// ErrSeatUnavailable on a lost race.
func (inv *Inventory) AssignTx(ctx context.Context, tx dbtx, showID, seatID, bookingID uint64) error {
	const q = `UPDATE show_seats SET booking_id = ?
               WHERE show_id = ? AND seat_id = ? AND booking_id IS NULL`
	res, err := tx.ExecContext(ctx, q, bookingID, showID, seatID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatUnavailable
	}
	return nil
}

// ReleaseTx clears the assignment of one seat for a show unconditionally.
// Used on cancellation paths; releasing a seat that is already free is a
// no-op.
func (inv *Inventory) ReleaseTx(ctx context.Context, tx dbtx, showID, seatID uint64) error {
	const q = `UPDATE show_seats SET booking_id = NULL WHERE show_id = ? AND seat_id = ?`
	_, err := tx.ExecContext(ctx, q, showID, seatID)
	return err
}

// ReleaseAllTx clears every assignment held by a booking and returns the
// number of seats released.
func (inv *Inventory) ReleaseAllTx(ctx context.Context, tx dbtx, bookingID uint64) (int64, error) {
	const q = `UPDATE show_seats SET booking_id = NULL WHERE booking_id = ?`
	res, err := tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PriceOfTx returns the price in cents charged for a seat of a show.
func (inv *Inventory) PriceOfTx(ctx context.Context, tx dbtx, showID, seatID uint64) (uint32, error) {
	const q = `SELECT price_cents FROM show_seats WHERE show_id = ? AND seat_id = ?`
	var price uint32
	err := tx.QueryRowContext(ctx, q, showID, seatID).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, ErrSeatUnavailable
	}
	return price, err
}

// LiveAssignmentsTx counts the seats currently held by a booking.
func (inv *Inventory) LiveAssignmentsTx(ctx context.Context, tx dbtx, bookingID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM show_seats WHERE booking_id = ?`
	var n uint32
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(&n)
	return n, err
}

// resolveSeatTx maps a human-facing seat number to the show_seats row for
// the given show.  It verifies the seat belongs to the show's theater and
// reports whether the seat is currently free and at which price and tier.
// Returns ErrSeatUnavailable when the seat number does not exist for the
// show at all.
func (inv *Inventory) resolveSeatTx(ctx context.Context, tx dbtx, showID uint64, seatNumber string) (seatID uint64, price uint32, tier string, holder *uint64, err error) {
	const q = `SELECT cs.id, ss.price_cents, cs.tier, ss.booking_id
               FROM show_seats ss
               JOIN cinema_seats cs ON cs.id = ss.seat_id
               WHERE ss.show_id = ? AND cs.seat_number = ?`
	var holderID sql.NullInt64
	err = tx.QueryRowContext(ctx, q, showID, seatNumber).Scan(&seatID, &price, &tier, &holderID)
	if err == sql.ErrNoRows {
		return 0, 0, "", nil, ErrSeatUnavailable
	}
	if err != nil {
		return 0, 0, "", nil, err
	}
	if holderID.Valid {
		h := uint64(holderID.Int64)
		holder = &h
	}
	return seatID, price, tier, holder, nil
}
