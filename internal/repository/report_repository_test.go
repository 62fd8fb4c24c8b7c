package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

func newMockReportRepo(t *testing.T) (*ReportRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReportRepo(db), mock
}

func TestMovieTitlesMatching(t *testing.T) {
	repo, mock := newMockReportRepo(t)
	mock.ExpectQuery(`SELECT title FROM movies`).
		WithArgs("incep", "2010-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Inception"))

	titles, err := repo.MovieTitlesMatching(context.Background(), "incep", "2010-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"Inception"}, titles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersWithPendingBookings(t *testing.T) {
	repo, mock := newMockReportRepo(t)
	mock.ExpectQuery(`SELECT DISTINCT u.first_name`).
		WithArgs(model.BookingPending).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name", "email"}).
			AddRow("Alice", "Doe", "alice@example.com"))

	users, err := repo.UsersWithPendingBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingHistoryFoldsSeatNumbers(t *testing.T) {
	repo, mock := newMockReportRepo(t)
	mock.ExpectQuery(`SELECT b.id, b.status, m.title`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "title", "show_date", "start_time", "name"}).
			AddRow(55, "Paid", "Inception", "2026-10-01", "20:00:00", "Hall 1").
			AddRow(56, "Cancelled", "Inception", "2026-10-02", "18:00:00", "Hall 1"))
	mock.ExpectQuery(`SELECT ss.booking_id, cs.seat_number`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "seat_number"}).
			AddRow(55, "A1").AddRow(55, "A2"))

	entries, err := repo.BookingHistory(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"A1", "A2"}, entries[0].SeatNumbers)
	// The cancelled booking holds no seats any more.
	assert.Empty(t, entries[1].SeatNumbers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingHistoryNoBookings(t *testing.T) {
	repo, mock := newMockReportRepo(t)
	mock.ExpectQuery(`SELECT b.id, b.status, m.title`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "title", "show_date", "start_time", "name"}))

	entries, err := repo.BookingHistory(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
