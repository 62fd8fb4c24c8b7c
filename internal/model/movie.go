package model

import "time"

// Movie describes a film that can be scheduled for shows.
//
// Fields:
//
//	ID           – primary key identifier.
//	Title        – display title.
//	ReleaseDate  – theatrical release date.
//	Country      – production country.
//	Description  – synopsis text.
//	DurationSecs – running time in seconds.
//	Lang         – two-letter language code (e.g. EN, DE).
//	Genre        – free-form genre label.
type Movie struct {
	ID           uint64    `json:"id"`            // movies.id
	Title        string    `json:"title"`         // movies.title
	ReleaseDate  time.Time `json:"release_date"`  // movies.release_date
	Country      string    `json:"country"`       // movies.country
	Description  string    `json:"description"`   // movies.description
	DurationSecs uint32    `json:"duration_secs"` // movies.duration_secs
	Lang         string    `json:"lang"`          // movies.lang
	Genre        string    `json:"genre"`         // movies.genre
}
