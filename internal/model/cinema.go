package model

// Cinema is a venue containing one or more theaters.
type Cinema struct {
	ID   uint64 `json:"id"`   // cinemas.id
	Name string `json:"name"` // cinemas.name
}

// Theater is a physical auditorium within a cinema.  TotalSeats is the
// hard capacity ceiling for every show played in the theater.
type Theater struct {
	ID         uint64 `json:"id"`          // theaters.id
	CinemaID   uint64 `json:"cinema_id"`   // theaters.cinema_id
	Name       string `json:"name"`        // theaters.name
	TotalSeats uint32 `json:"total_seats"` // theaters.total_seats
}
