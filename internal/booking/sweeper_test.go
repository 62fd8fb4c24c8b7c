package booking

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

func newMockSweeper(t *testing.T) (*Sweeper, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSweeper(db, NewInventory()), mock
}

func TestCancelAllPending(t *testing.T) {
	s, mock := newMockSweeper(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE show_seats ss`).
		WithArgs(model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE status = \?`).
		WithArgs(model.BookingCancelled, model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := s.CancelAllPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAllPendingNothingToDo(t *testing.T) {
	s, mock := newMockSweeper(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE show_seats ss`).
		WithArgs(model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE status = \?`).
		WithArgs(model.BookingCancelled, model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := s.CancelAllPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeCancelledDeletesPaymentsFirst(t *testing.T) {
	s, mock := newMockSweeper(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE p FROM payments p`).
		WithArgs(model.BookingCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bookings WHERE status`).
		WithArgs(model.BookingCancelled).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	n, err := s.PurgeCancelled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveShowsOnCascades(t *testing.T) {
	s, mock := newMockSweeper(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT s.id`).
		WithArgs(uint64(2), "2026-09-01").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	for _, showID := range []uint64{10, 11} {
		mock.ExpectExec(`UPDATE bookings SET status = \? WHERE show_id`).
			WithArgs(model.BookingCancelled, showID, model.BookingCancelled).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM show_seats WHERE show_id`).
			WithArgs(showID).
			WillReturnResult(sqlmock.NewResult(0, 20))
		mock.ExpectExec(`DELETE FROM plays WHERE show_id`).
			WithArgs(showID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM shows WHERE id`).
			WithArgs(showID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	n, err := s.RemoveShowsOn(context.Background(), 2, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveShowsOnEmptyDay(t *testing.T) {
	s, mock := newMockSweeper(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT s.id`).
		WithArgs(uint64(2), "2026-09-02").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	n, err := s.RemoveShowsOn(context.Background(), 2, "2026-09-02")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
