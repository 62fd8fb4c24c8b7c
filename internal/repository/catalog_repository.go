package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// CatalogRepo maintains the movie/show/theater catalog.  Scheduling a
// showing is the one mutating catalog operation: it creates the movie (if
// new), the show, the plays link and seeds the per-show seat inventory
// from the theater's physical seats, all within a single transaction so a
// show never exists without its seat rows.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo returns a new CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *CatalogRepo) DB() *sql.DB { return r.db }

// Showing bundles the input of AddShowing: a movie, its schedule and the
// theater it plays in.  Prices are derived per seat tier.
type Showing struct {
	Movie      model.Movie
	Show       model.Show
	TheaterID  uint64
	TierPrices map[string]uint32 // price in cents per seat tier
}

// ErrUnknownTier is returned when a theater contains a seat whose tier
// has no price in the showing request.
var ErrUnknownTier = errors.New("unknown seat tier")

// AddShowing creates the movie, the show, its scheduling link and one
// show_seats row per physical seat of the theater.  Returns the created
// movie and show ids on the passed Showing.  ErrNotFound is returned when
// the theater does not exist.
func (r *CatalogRepo) AddShowing(ctx context.Context, s *Showing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Theater must exist before anything is inserted.
	var theaterID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM theaters WHERE id = ?`, s.TheaterID).Scan(&theaterID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	const insMovie = `INSERT INTO movies (title, release_date, country, description, duration_secs, lang, genre)
                      VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insMovie,
		s.Movie.Title, s.Movie.ReleaseDate.UTC().Format("2006-01-02"), s.Movie.Country,
		s.Movie.Description, s.Movie.DurationSecs, s.Movie.Lang, s.Movie.Genre,
	)
	if err != nil {
		return err
	}
	movieID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.Movie.ID = uint64(movieID)

	const insShow = `INSERT INTO shows (movie_id, show_date, start_time, end_time) VALUES (?, ?, ?, ?)`
	res, err = tx.ExecContext(ctx, insShow, s.Movie.ID, s.Show.ShowDate, s.Show.StartTime, s.Show.EndTime)
	if err != nil {
		return err
	}
	showID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.Show.ID = uint64(showID)
	s.Show.MovieID = s.Movie.ID

	if _, err = tx.ExecContext(ctx, `INSERT INTO plays (show_id, theater_id) VALUES (?, ?)`, s.Show.ID, s.TheaterID); err != nil {
		return err
	}

	// Seed show_seats from the theater's physical seats, pricing each by
	// its tier.
	rows, err := tx.QueryContext(ctx, `SELECT id, tier FROM cinema_seats WHERE theater_id = ?`, s.TheaterID)
	if err != nil {
		return err
	}
	type seatTier struct {
		id   uint64
		tier string
	}
	var seats []seatTier
	for rows.Next() {
		var st seatTier
		if scanErr := rows.Scan(&st.id, &st.tier); scanErr != nil {
			rows.Close()
			return scanErr
		}
		seats = append(seats, st)
	}
	if err = rows.Close(); err != nil {
		return err
	}
	if len(seats) > 0 {
		query := `INSERT INTO show_seats (show_id, seat_id, price_cents) VALUES `
		args := make([]interface{}, 0, len(seats)*3)
		for i, st := range seats {
			price, ok := s.TierPrices[st.tier]
			if !ok {
				return ErrUnknownTier
			}
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, s.Show.ID, st.id, price)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
