package model

// Show is a scheduled screening of a movie on a specific date and time.
// The theater is bound through the plays link, not stored on the show
// itself.  Shows are immutable once created; removal is handled by the
// maintenance sweeper together with all dependent records.
//
// NOTE: ShowDate is "YYYY-MM-DD" and the time fields are "HH:MM:SS",
// matching the DATE/TIME column formats (UTC).
type Show struct {
	ID        uint64 `json:"id"`         // shows.id
	MovieID   uint64 `json:"movie_id"`   // shows.movie_id
	ShowDate  string `json:"show_date"`  // shows.show_date
	StartTime string `json:"start_time"` // shows.start_time
	EndTime   string `json:"end_time"`   // shows.end_time
}

// Play links a show to the theater it is scheduled in.  Exactly one
// theater per show.
type Play struct {
	ShowID    uint64 `json:"show_id"`    // plays.show_id
	TheaterID uint64 `json:"theater_id"` // plays.theater_id
}
