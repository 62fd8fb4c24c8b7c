package repository

import (
	"context"
	"database/sql"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// ReportRepo serves the read-only projections used by the reporting
// endpoints.  None of these queries mutate state or participate in the
// booking engine's transactions; they are plain reads over the same
// store.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// TheatersPlayingShow lists the theaters a show is scheduled in.  With
// one theater per show this returns at most one row, but the projection
// keeps the list shape of the original report.
func (r *ReportRepo) TheatersPlayingShow(ctx context.Context, showID uint64) ([]model.Theater, error) {
	const q = `SELECT t.id, t.cinema_id, t.name, t.total_seats
               FROM theaters t
               JOIN plays p ON p.theater_id = t.id
               WHERE p.show_id = ?`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.CinemaID, &t.Name, &t.TotalSeats); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ShowsStartingAt lists all shows on the given date starting at the given
// time.  Date is "2006-01-02", startTime is "15:04:05".
func (r *ReportRepo) ShowsStartingAt(ctx context.Context, date, startTime string) ([]model.Show, error) {
	const q = `SELECT id, movie_id, show_date, start_time, end_time
               FROM shows
               WHERE show_date = ? AND start_time = ?
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, date, startTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ShowDate, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// MovieTitlesMatching lists titles containing the given substring
// (case-insensitive) released on or after the given date.  The pattern is
// passed as a bound parameter, never interpolated.
func (r *ReportRepo) MovieTitlesMatching(ctx context.Context, contains, releasedAfter string) ([]string, error) {
	const q = `SELECT title FROM movies
               WHERE LOWER(title) LIKE CONCAT('%', LOWER(?), '%') AND release_date >= ?
               ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q, contains, releasedAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	titles := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// PendingBookingUser is one row of the users-with-pending-bookings report.
type PendingBookingUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UsersWithPendingBookings lists the name and email of every user holding
// at least one Pending booking.
func (r *ReportRepo) UsersWithPendingBookings(ctx context.Context) ([]PendingBookingUser, error) {
	const q = `SELECT DISTINCT u.first_name, u.last_name, u.email
               FROM users u
               JOIN bookings b ON b.user_email = u.email
               WHERE b.status = ?
               ORDER BY u.email`
	rows, err := r.db.QueryContext(ctx, q, model.BookingPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]PendingBookingUser, 0)
	for rows.Next() {
		var u PendingBookingUser
		if err := rows.Scan(&u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// ScheduleEntry is one row of the movie schedule report.
type ScheduleEntry struct {
	Title        string `json:"title"`
	DurationSecs uint32 `json:"duration_secs"`
	ShowDate     string `json:"show_date"`
	StartTime    string `json:"start_time"`
}

// ScheduleFor lists date and start time of shows playing the given movie
// at the given cinema within [from, to] (dates "2006-01-02").
func (r *ReportRepo) ScheduleFor(ctx context.Context, movieID, cinemaID uint64, from, to string) ([]ScheduleEntry, error) {
	const q = `SELECT m.title, m.duration_secs, s.show_date, s.start_time
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               JOIN plays p ON p.show_id = s.id
               JOIN theaters t ON t.id = p.theater_id
               WHERE m.id = ? AND t.cinema_id = ? AND s.show_date BETWEEN ? AND ?
               ORDER BY s.show_date, s.start_time`
	rows, err := r.db.QueryContext(ctx, q, movieID, cinemaID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ScheduleEntry, 0)
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.Title, &e.DurationSecs, &e.ShowDate, &e.StartTime); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// BookingHistoryEntry is one row of a user's booking history.
type BookingHistoryEntry struct {
	BookingID   uint64   `json:"booking_id"`
	Status      string   `json:"status"`
	MovieTitle  string   `json:"movie_title"`
	ShowDate    string   `json:"show_date"`
	StartTime   string   `json:"start_time"`
	TheaterName string   `json:"theater_name"`
	SeatNumbers []string `json:"seat_numbers"`
}

// BookingHistory lists all bookings of a user with movie, schedule,
// theater and the seat numbers currently held.  Seats are fetched in one
// follow-up query and folded into the matching entries.
func (r *ReportRepo) BookingHistory(ctx context.Context, email string) ([]BookingHistoryEntry, error) {
	const q = `SELECT b.id, b.status, m.title, s.show_date, s.start_time, t.name
               FROM bookings b
               JOIN shows s ON s.id = b.show_id
               JOIN movies m ON m.id = s.movie_id
               JOIN plays p ON p.show_id = s.id
               JOIN theaters t ON t.id = p.theater_id
               WHERE b.user_email = ?
               ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]BookingHistoryEntry, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var e BookingHistoryEntry
		if err := rows.Scan(&e.BookingID, &e.Status, &e.MovieTitle, &e.ShowDate, &e.StartTime, &e.TheaterName); err != nil {
			return nil, err
		}
		e.SeatNumbers = []string{}
		index[e.BookingID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}
	const seatQ = `SELECT ss.booking_id, cs.seat_number
                   FROM show_seats ss
                   JOIN cinema_seats cs ON cs.id = ss.seat_id
                   JOIN bookings b ON b.id = ss.booking_id
                   WHERE b.user_email = ?
                   ORDER BY cs.seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, email)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var sn string
		if err := srows.Scan(&bid, &sn); err != nil {
			return nil, err
		}
		if idx, ok := index[bid]; ok {
			entries[idx].SeatNumbers = append(entries[idx].SeatNumbers, sn)
		}
	}
	return entries, srows.Err()
}
