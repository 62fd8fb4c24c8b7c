package booking

import (
	"context"
	"database/sql"
)

// dbtx is the subset of *sql.Tx and *sql.DB the engine's query helpers
// need.  Read-only lookups accept either; mutating operations always run
// on a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction on db and commits when fn returns
// nil.  On any error the transaction is rolled back and the error is
// passed through mapStoreErr, so lock conflicts surface as
// ErrTransactionConflict and no partial writes survive.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapStoreErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return mapStoreErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapStoreErr(err)
	}
	committed = true
	return nil
}

// lockShowTx takes a row lock on the show and resolves its theater and
// total capacity.  Locking the show row first serializes every operation
// that reads remaining capacity and then acts on it, which is what keeps
// two concurrent requests from jointly exceeding capacity.  Returns
// ErrInvalidShowID when the show does not exist or is not scheduled in
// any theater.
func lockShowTx(ctx context.Context, tx *sql.Tx, showID uint64) (theaterID uint64, totalSeats uint32, err error) {
	const q = `SELECT p.theater_id, t.total_seats
               FROM shows s
               JOIN plays p ON p.show_id = s.id
               JOIN theaters t ON t.id = p.theater_id
               WHERE s.id = ?
               FOR UPDATE`
	err = tx.QueryRowContext(ctx, q, showID).Scan(&theaterID, &totalSeats)
	if err == sql.ErrNoRows {
		return 0, 0, ErrInvalidShowID
	}
	return theaterID, totalSeats, err
}
