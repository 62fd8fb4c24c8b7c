package booking

import (
	"context"
	"crypto/rand"
	"database/sql"
	"math/big"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// Transaction ids are 8-digit decimal numbers drawn uniformly from
// [10000000, 99999999].
const (
	txnIDMin = 10000000
	txnIDMax = 99999999
)

// Processor records payments against bookings and drives the
// Pending -> Paid transition.  RemovePayment is the single path by which a
// Paid booking returns to Cancelled while simultaneously freeing its
// seats.
type Processor struct {
	db  *sql.DB
	inv *Inventory
}

// NewProcessor returns a payment processor bound to the given store handle.
func NewProcessor(db *sql.DB, inv *Inventory) *Processor {
	return &Processor{db: db, inv: inv}
}

// PaymentResult is returned by RecordPayment on success.
type PaymentResult struct {
	PaymentID     uint64 `json:"payment_id"`
	TransactionID uint64 `json:"transaction_id"`
}

// RecordPayment persists a payment row and transitions the booking to
// Paid.  The booking must be Pending (ErrInvalidBookingState otherwise)
// and fully assigned: the number of live seat assignments must equal the
// requested seat count, so a booking can never be paid while its seats
// are only partially claimed.
func (p *Processor) RecordPayment(ctx context.Context, bookingID uint64, method string, amountCents uint32) (*PaymentResult, error) {
	var result PaymentResult
	err := withTx(ctx, p.db, func(tx *sql.Tx) error {
		b, err := getBookingForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingPending {
			return ErrInvalidBookingState
		}
		assigned, err := p.inv.LiveAssignmentsTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if assigned != b.SeatCount {
			return ErrInvalidBookingState
		}
		trid, err := newTransactionID()
		if err != nil {
			return err
		}
		const ins = `INSERT INTO payments (booking_id, method, amount_cents, transaction_id) VALUES (?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, ins, bookingID, method, amountCents, trid)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := setBookingStatusTx(ctx, tx, bookingID, model.BookingPaid); err != nil {
			return err
		}
		result = PaymentResult{PaymentID: uint64(id), TransactionID: trid}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemovePayment releases all seat assignments for the booking, sets its
// status to Cancelled and deletes the payment row, if any.  Returns
// ErrInvalidBookingID when the booking does not exist.  Removing the
// payment of a booking that was never paid still cancels it; the delete
// simply affects zero rows.
func (p *Processor) RemovePayment(ctx context.Context, bookingID uint64) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := getBookingForUpdateTx(ctx, tx, bookingID); err != nil {
			return err
		}
		if _, err := p.inv.ReleaseAllTx(ctx, tx, bookingID); err != nil {
			return err
		}
		if err := setBookingStatusTx(ctx, tx, bookingID, model.BookingCancelled); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE booking_id = ?`, bookingID)
		return err
	})
}

// newTransactionID draws a transaction id uniformly from the 8-digit
// range.  crypto/rand.Int is uniform over [0, n), so scaling by the range
// width and shifting keeps the distribution flat across all 90 million
// possible ids.
func newTransactionID() (uint64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(txnIDMax-txnIDMin+1))
	if err != nil {
		return 0, err
	}
	return uint64(n.Int64()) + txnIDMin, nil
}
