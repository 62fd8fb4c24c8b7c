package booking

import (
	"context"
	"database/sql"
)

// Ledger derives remaining capacity for a show from the theater's total
// seat count and the number of live assignments in the inventory.  It
// never caches: capacity is always computed inside the caller's
// transaction, after the show row has been locked, so the check and the
// subsequent reservation form one atomic step.
type Ledger struct {
	inv *Inventory
}

// NewLedger returns a capacity ledger backed by the given inventory.
func NewLedger(inv *Inventory) *Ledger { return &Ledger{inv: inv} }

// RemainingCapacity computes the remaining capacity of a show in its own
// read-only transaction.  Intended for reporting; booking paths use
// RemainingCapacityTx under the show lock instead.
func (l *Ledger) RemainingCapacity(ctx context.Context, db *sql.DB, showID uint64) (int64, error) {
	var remaining int64
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		_, total, err := lockShowTx(ctx, tx, showID)
		if err != nil {
			return err
		}
		remaining, err = l.remainingTx(ctx, tx, showID, total)
		return err
	})
	return remaining, err
}

// RemainingCapacityTx returns theater capacity minus live assignments for
// the show.  The caller must already hold the show lock and supply the
// theater's total seat count from it.
func (l *Ledger) RemainingCapacityTx(ctx context.Context, tx dbtx, showID uint64, totalSeats uint32) (int64, error) {
	return l.remainingTx(ctx, tx, showID, totalSeats)
}

// CanAccommodateTx reports whether the show still has room for the
// requested number of seats.  Must run under the show lock taken by the
// enclosing transaction; evaluating this separately from the reservation
// is exactly the race the engine exists to prevent.
func (l *Ledger) CanAccommodateTx(ctx context.Context, tx dbtx, showID uint64, totalSeats uint32, requested int) (bool, error) {
	remaining, err := l.remainingTx(ctx, tx, showID, totalSeats)
	if err != nil {
		return false, err
	}
	return int64(requested) <= remaining, nil
}

func (l *Ledger) remainingTx(ctx context.Context, tx dbtx, showID uint64, totalSeats uint32) (int64, error) {
	const q = `SELECT COUNT(*) FROM show_seats WHERE show_id = ? AND booking_id IS NOT NULL`
	var live int64
	if err := tx.QueryRowContext(ctx, q, showID).Scan(&live); err != nil {
		return 0, err
	}
	return int64(totalSeats) - live, nil
}
