package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	inv := NewInventory()
	return NewManager(db, inv, NewLedger(inv)), mock
}

func expectUserExists(mock sqlmock.Sqlmock, email string) {
	mock.ExpectQuery(`SELECT 1 FROM users`).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
}

func expectLockShow(mock sqlmock.Sqlmock, showID, theaterID uint64, totalSeats uint32) {
	mock.ExpectQuery(`SELECT p.theater_id, t.total_seats`).
		WithArgs(showID).
		WillReturnRows(sqlmock.NewRows([]string{"theater_id", "total_seats"}).AddRow(theaterID, totalSeats))
}

func expectLiveCount(mock sqlmock.Sqlmock, showID uint64, live int64) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM show_seats WHERE show_id`).
		WithArgs(showID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(live))
}

// expectResolveSeat mocks the seat-number lookup; holder nil means free.
func expectResolveSeat(mock sqlmock.Sqlmock, showID uint64, seatNumber string, seatID uint64, price uint32, tier string, holder any) {
	mock.ExpectQuery(`SELECT cs.id, ss.price_cents, cs.tier, ss.booking_id`).
		WithArgs(showID, seatNumber).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price_cents", "tier", "booking_id"}).
			AddRow(seatID, price, tier, holder))
}

func expectBookingRow(mock sqlmock.Sqlmock, bookingID uint64, status string, seatCount uint32, showID uint64, email string) {
	mock.ExpectQuery(`SELECT id, status, seat_count`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "seat_count", "created_at", "show_id", "user_email"}).
			AddRow(bookingID, status, seatCount, time.Now().UTC(), showID, email))
}

func TestCreateBookingRejectsEmptySelection(t *testing.T) {
	m, _ := newMockManager(t)
	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 1,
	})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestCreateBookingRejectsDuplicateSeats(t *testing.T) {
	m, _ := newMockManager(t)
	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 1, SeatNumbers: []string{"A1", "A1"},
	})
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestCreateBookingUnknownUser(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM users`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "ghost@example.com", ShowID: 7, SeatNumbers: []string{"A1"},
	})
	assert.ErrorIs(t, err, ErrInvalidUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownShow(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectUserExists(mock, "a@b.c")
	mock.ExpectQuery(`SELECT p.theater_id, t.total_seats`).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 99, SeatNumbers: []string{"A1"},
	})
	assert.ErrorIs(t, err, ErrInvalidShowID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingInsufficientCapacity(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectUserExists(mock, "a@b.c")
	expectLockShow(mock, 7, 3, 2)
	expectLiveCount(mock, 7, 2) // full house
	mock.ExpectRollback()

	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 7, SeatNumbers: []string{"A1"},
	})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeatAlreadyHeld(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectUserExists(mock, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	expectLiveCount(mock, 7, 1)
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", uint64(42))
	mock.ExpectRollback()

	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 7, SeatNumbers: []string{"A1"},
	})
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingLostRaceRollsBackBookingRow(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectUserExists(mock, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	expectLiveCount(mock, 7, 0)
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", nil)
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(model.BookingPending, 1, uint64(7), "a@b.c").
		WillReturnResult(sqlmock.NewResult(55, 1))
	// Claim affects zero rows: someone else took the seat.
	mock.ExpectExec(`UPDATE show_seats SET booking_id = \?`).
		WithArgs(uint64(55), uint64(7), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 7, SeatNumbers: []string{"A1"},
	})
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSuccess(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectUserExists(mock, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	expectLiveCount(mock, 7, 0)
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", nil)
	expectResolveSeat(mock, 7, "B2", 12, 2500, "PREMIUM", nil)
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(model.BookingPending, 2, uint64(7), "a@b.c").
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectExec(`UPDATE show_seats SET booking_id = \?`).
		WithArgs(uint64(55), uint64(7), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE show_seats SET booking_id = \?`).
		WithArgs(uint64(55), uint64(7), uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := m.CreateBooking(context.Background(), CreateBookingRequest{
		UserEmail: "a@b.c", ShowID: 7, SeatNumbers: []string{"A1", "B2"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(55), res.BookingID)
	assert.Equal(t, uint32(4000), res.TotalCents)
	assert.Equal(t, uint32(2), res.SeatCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingUnknown(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, status, seat_count`).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := m.CancelBooking(context.Background(), 404)
	assert.ErrorIs(t, err, ErrInvalidBookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingAlreadyCancelledIsNoOp(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingCancelled, 2, 7, "a@b.c")
	mock.ExpectCommit()

	err := m.CancelBooking(context.Background(), 55)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingPending, 2, 7, "a@b.c")
	mock.ExpectExec(`UPDATE show_seats SET booking_id = NULL WHERE booking_id`).
		WithArgs(uint64(55)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(model.BookingCancelled, uint64(55)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.CancelBooking(context.Background(), 55)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeSeatsOnCancelledBooking(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingCancelled, 1, 7, "a@b.c")
	mock.ExpectRollback()

	err := m.ChangeSeats(context.Background(), 55, "A1", "A2")
	assert.ErrorIs(t, err, ErrInvalidBookingState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeSeatsOldSeatNotHeld(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingPending, 1, 7, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	// Old seat is held by a different booking.
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", uint64(99))
	mock.ExpectRollback()

	err := m.ChangeSeats(context.Background(), 55, "A1", "A2")
	assert.ErrorIs(t, err, ErrSeatNotAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeSeatsTierMismatch(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingPending, 1, 7, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", uint64(55))
	expectResolveSeat(mock, 7, "P1", 21, 2500, "PREMIUM", nil)
	mock.ExpectRollback()

	err := m.ChangeSeats(context.Background(), 55, "A1", "P1")
	assert.ErrorIs(t, err, ErrPriceTierMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeSeatsNewSeatTaken(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingPaid, 1, 7, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", uint64(55))
	expectResolveSeat(mock, 7, "A2", 12, 1500, "STANDARD", uint64(99))
	mock.ExpectRollback()

	err := m.ChangeSeats(context.Background(), 55, "A1", "A2")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeSeatsSuccess(t *testing.T) {
	m, mock := newMockManager(t)
	mock.ExpectBegin()
	expectBookingRow(mock, 55, model.BookingPaid, 1, 7, "a@b.c")
	expectLockShow(mock, 7, 3, 10)
	expectResolveSeat(mock, 7, "A1", 11, 1500, "STANDARD", uint64(55))
	expectResolveSeat(mock, 7, "A2", 12, 1500, "STANDARD", nil)
	mock.ExpectExec(`UPDATE show_seats SET booking_id = \?`).
		WithArgs(uint64(55), uint64(7), uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE show_seats SET booking_id = NULL WHERE show_id`).
		WithArgs(uint64(7), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.ChangeSeats(context.Background(), 55, "A1", "A2")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"A1", "A2", "B1"}, dedupe([]string{"A1", "A2", "A1", "B1", "A2"}))
	assert.Equal(t, []string{"A1"}, dedupe([]string{"A1"}))
	assert.Empty(t, dedupe(nil))
}
