package models

import (
	"time"

	"github.com/uptrace/bun"
)

type MovieSession struct {
	bun.BaseModel `bun:"table:movie_sessions"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	MovieID      int64     `bun:"movie_id,notnull" json:"movie"`
	CinemaHallID int64     `bun:"cinema_hall_id,notnull" json:"cinema_hall"`
	ShowTime     time.Time `bun:"show_time,notnull" json:"show_time"`
}

// SessionFilter narrows session queries. Nil fields are ignored; the set
// filters compose conjunctively.
type SessionFilter struct {
	Date    *time.Time
	MovieID *int64
}

// Place is a sold (row, seat) pair, both 1-indexed.
type Place struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// SessionListItem is the list-view shape: session fields flattened with the
// movie title, hall name/capacity and the remaining-seat count.
type SessionListItem struct {
	ID                 int64     `json:"id"`
	ShowTime           time.Time `json:"show_time"`
	MovieTitle         string    `json:"movie_title"`
	CinemaHallName     string    `json:"cinema_hall_name"`
	CinemaHallCapacity int       `json:"cinema_hall_capacity"`
	TicketsAvailable   int       `json:"tickets_available"`
}

// MovieDetail and HallDetail are the nested detail-view shapes. They are
// deliberately separate from the persisted models so the endpoint contract
// does not leak storage columns.
type MovieDetail struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
}

type HallDetail struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
	Capacity   int    `json:"capacity"`
}

type SessionDetail struct {
	ID          int64       `json:"id"`
	ShowTime    time.Time   `json:"show_time"`
	Movie       MovieDetail `json:"movie"`
	CinemaHall  HallDetail  `json:"cinema_hall"`
	TakenPlaces []Place     `json:"taken_places"`
}

// SessionPage mirrors the paginated list envelope.
type SessionPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []SessionListItem `json:"results"`
}
