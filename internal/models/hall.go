package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

type CinemaHall struct {
	bun.BaseModel `bun:"table:cinema_halls"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Name       string `bun:"name,notnull" json:"name"`
	Rows       int    `bun:"rows,notnull" json:"rows"`
	SeatsInRow int    `bun:"seats_in_row,notnull" json:"seats_in_row"`
}

// Capacity is always derived from the grid, never stored, so it cannot drift.
func (h *CinemaHall) Capacity() int {
	return h.Rows * h.SeatsInRow
}

// Contains reports whether a 1-indexed (row, seat) pair lies inside the grid.
func (h *CinemaHall) Contains(row, seat int) bool {
	return row >= 1 && row <= h.Rows && seat >= 1 && seat <= h.SeatsInRow
}

// NewCinemaHall validates the seating geometry before it reaches the database.
func NewCinemaHall(name string, rows, seatsInRow int) (*CinemaHall, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("cinema hall %q: rows must be positive, got %d", name, rows)
	}
	if seatsInRow <= 0 {
		return nil, fmt.Errorf("cinema hall %q: seats_in_row must be positive, got %d", name, seatsInRow)
	}
	return &CinemaHall{Name: name, Rows: rows, SeatsInRow: seatsInRow}, nil
}
