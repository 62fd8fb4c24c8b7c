package booking

import (
	"context"
	"database/sql"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// Sweeper performs bulk maintenance over many bookings and shows at once.
// Every sweep runs as one transaction, so it preserves the same
// invariants as single-record operations and cannot interleave with an
// in-flight booking or payment on the same rows.
type Sweeper struct {
	db  *sql.DB
	inv *Inventory
}

// NewSweeper returns a maintenance sweeper bound to the given store handle.
func NewSweeper(db *sql.DB, inv *Inventory) *Sweeper {
	return &Sweeper{db: db, inv: inv}
}

// CancelAllPending releases every seat assignment held by any Pending
// booking and marks all Pending bookings Cancelled, as one bulk atomic
// step.  Returns the number of bookings cancelled.
func (s *Sweeper) CancelAllPending(ctx context.Context) (int64, error) {
	var cancelled int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		const release = `UPDATE show_seats ss
                         JOIN bookings b ON b.id = ss.booking_id
                         SET ss.booking_id = NULL
                         WHERE b.status = ?`
		if _, err := tx.ExecContext(ctx, release, model.BookingPending); err != nil {
			return err
		}
		const cancel = `UPDATE bookings SET status = ? WHERE status = ?`
		res, err := tx.ExecContext(ctx, cancel, model.BookingCancelled, model.BookingPending)
		if err != nil {
			return err
		}
		cancelled, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return cancelled, nil
}

// PurgeCancelled deletes every Cancelled booking row and returns the
// count.  Seats were already released when the bookings were cancelled,
// so the purge never touches show_seats.  Payment rows referencing purged
// bookings are deleted in the same transaction: a cancelled booking only
// carries a payment when it was cancelled directly from Paid status, and
// keeping such a row around would dangle.  Running the purge twice in a
// row reports zero on the second run.
func (s *Sweeper) PurgeCancelled(ctx context.Context) (int64, error) {
	var purged int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		const payments = `DELETE p FROM payments p
                          JOIN bookings b ON b.id = p.booking_id
                          WHERE b.status = ?`
		if _, err := tx.ExecContext(ctx, payments, model.BookingCancelled); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE status = ?`, model.BookingCancelled)
		if err != nil {
			return err
		}
		purged, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// RemoveShowsOn deletes every show of the given cinema scheduled on the
// given date (format "2006-01-02"): its seat assignments, its scheduling
// link and the show row itself.  Live bookings referencing a removed show
// are cascade-cancelled first, so no booking is ever left pointing at a
// show that no longer exists.  Returns the number of shows removed; a
// second call for the same cinema and date affects zero rows.
func (s *Sweeper) RemoveShowsOn(ctx context.Context, cinemaID uint64, date string) (int64, error) {
	var removed int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		const find = `SELECT s.id
                      FROM shows s
                      JOIN plays p ON p.show_id = s.id
                      JOIN theaters t ON t.id = p.theater_id
                      WHERE t.cinema_id = ? AND s.show_date = ?
                      FOR UPDATE`
		rows, err := tx.QueryContext(ctx, find, cinemaID, date)
		if err != nil {
			return err
		}
		var showIDs []uint64
		for rows.Next() {
			var id uint64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			showIDs = append(showIDs, id)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		for _, showID := range showIDs {
			const cancel = `UPDATE bookings SET status = ? WHERE show_id = ? AND status <> ?`
			if _, err := tx.ExecContext(ctx, cancel, model.BookingCancelled, showID, model.BookingCancelled); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM show_seats WHERE show_id = ?`, showID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM plays WHERE show_id = ?`, showID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, showID); err != nil {
				return err
			}
		}
		removed = int64(len(showIDs))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
