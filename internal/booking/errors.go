// Package booking implements the seat inventory and booking-lifecycle
// engine.  It is the only package allowed to mutate seat assignments,
// bookings and payments.  Every public operation runs inside a single
// database transaction scoped to the affected show, so concurrent callers
// observe a serializable ordering of capacity checks and seat claims.
package booking

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors returned by engine operations.  Handlers translate them
// into HTTP responses; exactly one of {result, error} is produced per call.
var (
	// ErrInvalidUser is returned when the requesting email does not
	// resolve to a registered user.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidShowID is returned when the target show does not exist
	// or has no theater scheduled.
	ErrInvalidShowID = errors.New("invalid show id")

	// ErrInvalidBookingID is returned when a booking lookup yields no row.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInsufficientCapacity is returned when a request asks for more
	// seats than the show has remaining.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrSeatUnavailable is returned when a selected seat does not belong
	// to the show's theater or is already held by another booking.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrSeatNotAssigned is returned by seat exchange when the seat to
	// give up is not currently held by the booking.
	ErrSeatNotAssigned = errors.New("seat not assigned to booking")

	// ErrPriceTierMismatch is returned by seat exchange when the new seat
	// is in a different price tier than the seat being exchanged.
	ErrPriceTierMismatch = errors.New("price tier mismatch")

	// ErrInvalidBookingState is returned when an operation is attempted
	// against a booking in the wrong status, such as paying a booking
	// that is not Pending or exchanging seats on a cancelled booking.
	ErrInvalidBookingState = errors.New("invalid booking state")

	// ErrTransactionConflict signals that the atomic commit could not
	// proceed due to a lock conflict.  The operation was rolled back as a
	// unit and may be retried by the caller.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrStoreUnavailable signals that the backing store could not be
	// reached at all.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// MySQL server error numbers for lock conflicts.
const (
	mysqlErrLockDeadlock    = 1213 // ER_LOCK_DEADLOCK
	mysqlErrLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
)

// mapStoreErr converts driver-level failures into the engine's retryable
// and availability sentinels.  Deadlocks and lock-wait timeouts mean the
// whole transaction rolled back and can be retried; connection failures
// mean the store is unreachable.  All other errors pass through.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrLockDeadlock, mysqlErrLockWaitTimeout:
			return ErrTransactionConflict
		}
		return err
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, sql.ErrConnDone) {
		return ErrStoreUnavailable
	}
	return err
}

// Retryable reports whether the given error indicates a transient conflict
// that the caller may retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict)
}
